package adapters

import (
	"time"

	"parking_control/internal/feature/parkingspot/domain/entity"
)

// ParkingSpotModel is the GORM model for the tb_parking_spot table.
// The unique indexes back up the existence checks done before inserts.
type ParkingSpotModel struct {
	ID                uint      `gorm:"primaryKey"`
	ParkingSpotNumber string    `gorm:"size:10;not null;uniqueIndex"`
	LicensePlateCar   string    `gorm:"size:7;not null;uniqueIndex"`
	ModelCar          string    `gorm:"size:70;not null"`
	BrandCar          string    `gorm:"size:70;not null"`
	ColorCar          string    `gorm:"size:70;not null"`
	RegistrationDate  time.Time `gorm:"not null"`
	ResponsibleName   string    `gorm:"size:130;not null"`
	Apartment         string    `gorm:"size:30;not null;uniqueIndex:idx_parking_spot_apartment_block"`
	Block             string    `gorm:"size:30;not null;uniqueIndex:idx_parking_spot_apartment_block"`
}

// TableName returns the table name for GORM.
func (ParkingSpotModel) TableName() string {
	return "tb_parking_spot"
}

// ToEntity converts the GORM model to a domain entity.
func (m *ParkingSpotModel) ToEntity() *entity.ParkingSpot {
	return &entity.ParkingSpot{
		ID:                m.ID,
		ParkingSpotNumber: m.ParkingSpotNumber,
		LicensePlateCar:   m.LicensePlateCar,
		ModelCar:          m.ModelCar,
		BrandCar:          m.BrandCar,
		ColorCar:          m.ColorCar,
		RegistrationDate:  m.RegistrationDate.UTC(),
		ResponsibleName:   m.ResponsibleName,
		Apartment:         m.Apartment,
		Block:             m.Block,
	}
}

// ParkingSpotModelFromEntity converts a domain entity to a GORM model.
func ParkingSpotModelFromEntity(s *entity.ParkingSpot) *ParkingSpotModel {
	return &ParkingSpotModel{
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
