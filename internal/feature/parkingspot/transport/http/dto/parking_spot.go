// Package dto defines data transfer objects for the parkingspot HTTP API.
package dto

import (
	"time"

	"parking_control/internal/feature/parkingspot/domain/entity"
)

// ParkingSpotReq is the request body for creating or replacing a parking spot.
// Every field is required and must not be blank.
type ParkingSpotReq struct {
	ParkingSpotNumber string `json:"parking_spot_number" binding:"required,notblank,max=10"`
	LicensePlateCar   string `json:"license_plate_car" binding:"required,notblank,max=7"`
	ModelCar          string `json:"model_car" binding:"required,notblank,max=70"`
	BrandCar          string `json:"brand_car" binding:"required,notblank,max=70"`
	ColorCar          string `json:"color_car" binding:"required,notblank,max=70"`
	ResponsibleName   string `json:"responsible_name" binding:"required,notblank,max=130"`
	Apartment         string `json:"apartment" binding:"required,notblank,max=30"`
	Block             string `json:"block" binding:"required,notblank,max=30"`
}

// ToEntity copies the request fields into a new entity. ID and RegistrationDate are left zero.
func (r ParkingSpotReq) ToEntity() entity.ParkingSpot {
	return entity.ParkingSpot{
		ParkingSpotNumber: r.ParkingSpotNumber,
		LicensePlateCar:   r.LicensePlateCar,
		ModelCar:          r.ModelCar,
		BrandCar:          r.BrandCar,
		ColorCar:          r.ColorCar,
		ResponsibleName:   r.ResponsibleName,
		Apartment:         r.Apartment,
		Block:             r.Block,
	}
}

// ParkingSpotRes is the JSON representation of a stored parking spot.
type ParkingSpotRes struct {
	ID                uint      `json:"id"`
	ParkingSpotNumber string    `json:"parking_spot_number"`
	LicensePlateCar   string    `json:"license_plate_car"`
	ModelCar          string    `json:"model_car"`
	BrandCar          string    `json:"brand_car"`
	ColorCar          string    `json:"color_car"`
	RegistrationDate  time.Time `json:"registration_date"`
	ResponsibleName   string    `json:"responsible_name"`
	Apartment         string    `json:"apartment"`
	Block             string    `json:"block"`
}

// NewParkingSpotRes converts an entity to its response form.
func NewParkingSpotRes(s entity.ParkingSpot) ParkingSpotRes {
	return ParkingSpotRes{
		ID:                s.ID,
		ParkingSpotNumber: s.ParkingSpotNumber,
		LicensePlateCar:   s.LicensePlateCar,
		ModelCar:          s.ModelCar,
		BrandCar:          s.BrandCar,
		ColorCar:          s.ColorCar,
		RegistrationDate:  s.RegistrationDate.UTC(),
		ResponsibleName:   s.ResponsibleName,
		Apartment:         s.Apartment,
		Block:             s.Block,
	}
}

// PageRes is one page of parking spots.
type PageRes struct {
	Content       []ParkingSpotRes `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int64            `json:"total_elements"`
	TotalPages    int              `json:"total_pages"`
	Sort          string           `json:"sort"`
	Direction     string           `json:"direction"`
}

// NewPageRes converts a domain page to its response form.
func NewPageRes(p entity.Page) PageRes {
	content := make([]ParkingSpotRes, 0, len(p.Content))
	for _, s := range p.Content {
		content = append(content, NewParkingSpotRes(s))
	}
	return PageRes{
		Content:       content,
		Page:          p.Request.Page,
		Size:          p.Request.Size,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages(),
		Sort:          p.Request.Sort,
		Direction:     string(p.Request.Direction),
	}
}
