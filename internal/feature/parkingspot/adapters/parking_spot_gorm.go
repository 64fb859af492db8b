// Package adapters provides repository implementations for the parkingspot feature.
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking_control/internal/feature/parkingspot/domain/entity"
	"parking_control/internal/feature/parkingspot/usecase"
	"parking_control/internal/platform/db"
)

// sortColumns maps the sort names accepted by the API to table columns.
var sortColumns = map[string]string{
	"id":                  "id",
	"parking_spot_number": "parking_spot_number",
	"license_plate_car":   "license_plate_car",
	"model_car":           "model_car",
	"brand_car":           "brand_car",
	"color_car":           "color_car",
	"registration_date":   "registration_date",
	"responsible_name":    "responsible_name",
	"apartment":           "apartment",
	"block":               "block",
}

// parkingSpotGorm is a GORM implementation of the ParkingSpotRepository interface.
type parkingSpotGorm struct {
	db *gorm.DB
}

var _ usecase.ParkingSpotRepository = (*parkingSpotGorm)(nil)

// NewParkingSpotRepository creates a new parkingSpotGorm repository with the given DB connection.
func NewParkingSpotRepository(db *gorm.DB) *parkingSpotGorm {
	return &parkingSpotGorm{db: db}
}

func (r *parkingSpotGorm) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ParkingSpotModel{}).
		Where(query, args...).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByLicensePlateCar reports whether a record uses the license plate.
func (r *parkingSpotGorm) ExistsByLicensePlateCar(ctx context.Context, plate string) (bool, error) {
	return r.exists(ctx, "license_plate_car = ?", plate)
}

// ExistsByParkingSpotNumber reports whether a record uses the spot number.
func (r *parkingSpotGorm) ExistsByParkingSpotNumber(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, "parking_spot_number = ?", number)
}

// ExistsByApartmentAndBlock reports whether a record uses the apartment/block pair.
func (r *parkingSpotGorm) ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error) {
	return r.exists(ctx, "apartment = ? AND block = ?", apartment, block)
}

// Save inserts the spot when ID is zero, otherwise overwrites every column of the row.
// Updating a row that no longer exists returns usecase.ErrParkingSpotNotFound
// instead of re-inserting it.
// Unique constraint violations are returned as usecase.ErrParkingSpotConflict.
func (r *parkingSpotGorm) Save(ctx context.Context, spot *entity.ParkingSpot) error {
	if spot == nil {
		return errors.New("parking spot is nil")
	}
	model := ParkingSpotModelFromEntity(spot)
	tx := r.db.WithContext(ctx)
	if model.ID == 0 {
		tx = tx.Create(model)
	} else {
		tx = tx.Model(&ParkingSpotModel{ID: model.ID}).Select("*").Updates(model)
	}
	if err := tx.Error; err != nil {
		if db.IsDuplicateKey(err) {
			return fmt.Errorf("%w: %v", usecase.ErrParkingSpotConflict, err)
		}
		return err
	}
	if tx.RowsAffected == 0 {
		return usecase.ErrParkingSpotNotFound
	}
	*spot = *model.ToEntity()
	return nil
}

// FindByID returns usecase.ErrParkingSpotNotFound when no row has the ID.
func (r *parkingSpotGorm) FindByID(ctx context.Context, id uint) (*entity.ParkingSpot, error) {
	var model ParkingSpotModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrParkingSpotNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}

// FindAll returns one page ordered by the requested column. Rows with equal
// sort values are ordered by id so pages do not overlap.
func (r *parkingSpotGorm) FindAll(ctx context.Context, req entity.PageRequest) (*entity.Page, error) {
	column, ok := sortColumns[req.Sort]
	if !ok {
		return nil, fmt.Errorf("%w: %q", usecase.ErrInvalidSortField, req.Sort)
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&ParkingSpotModel{}).Count(&total).Error; err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: req.Direction == entity.SortDesc})
	if column != "id" {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	var models []ParkingSpotModel
	if err := q.Offset(req.Offset()).Limit(req.Size).Find(&models).Error; err != nil {
		return nil, err
	}

	content := make([]entity.ParkingSpot, len(models))
	for i := range models {
		content[i] = *models[i].ToEntity()
	}
	return &entity.Page{Content: content, Request: req, TotalElements: total}, nil
}

// Delete removes the row permanently.
func (r *parkingSpotGorm) Delete(ctx context.Context, spot *entity.ParkingSpot) error {
	if spot == nil {
		return errors.New("parking spot is nil")
	}
	return r.db.WithContext(ctx).Delete(&ParkingSpotModel{}, spot.ID).Error
}
