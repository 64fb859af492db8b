// Package usecase implements the business logic for the parkingspot feature.
package usecase

import "errors"

var (
	// ErrParkingSpotNotFound is returned by repositories when no record matches the given ID.
	// The usecase layer turns it into an absent (nil) result.
	ErrParkingSpotNotFound = errors.New("parking spot not found")

	// ErrParkingSpotConflict is returned when the store rejects a write because of a unique constraint.
	ErrParkingSpotConflict = errors.New("parking spot conflicts with an existing record")

	// ErrInvalidSortField is returned when a page request asks for a column that cannot be sorted on.
	ErrInvalidSortField = errors.New("invalid sort field")
)
