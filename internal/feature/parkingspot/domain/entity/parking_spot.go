// Package entity defines the domain models for the parkingspot feature.
package entity

import "time"

// ParkingSpot represents a parking spot assigned to a vehicle and an apartment.
// ParkingSpotNumber, LicensePlateCar and the (Apartment, Block) pair are unique.
type ParkingSpot struct {
	ID                uint
	ParkingSpotNumber string
	LicensePlateCar   string
	ModelCar          string
	BrandCar          string
	ColorCar          string
	RegistrationDate  time.Time // UTC, set once at creation
	ResponsibleName   string
	Apartment         string
	Block             string
}

// ApplyUpdate builds the record that replaces existing.
// Every field comes from incoming except ID and RegistrationDate, which are kept from existing.
func ApplyUpdate(existing, incoming ParkingSpot) ParkingSpot {
	merged := incoming
	merged.ID = existing.ID
	merged.RegistrationDate = existing.RegistrationDate
	return merged
}
