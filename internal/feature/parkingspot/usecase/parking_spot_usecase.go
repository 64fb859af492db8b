package usecase

import (
	"context"
	"errors"
	"fmt"

	"parking_control/internal/feature/parkingspot/domain/entity"
)

// ParkingSpotRepository は駐車スペースの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ParkingSpotRepository interface {
	ExistsByLicensePlateCar(ctx context.Context, plate string) (bool, error)
	ExistsByParkingSpotNumber(ctx context.Context, number string) (bool, error)
	ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error)

	// Save はIDがゼロなら新規作成し、それ以外は更新します。
	// 更新対象が存在しない場合はErrParkingSpotNotFoundを返します。
	Save(ctx context.Context, spot *entity.ParkingSpot) error

	// FindByID は該当するレコードがない場合、ErrParkingSpotNotFoundを返します。
	FindByID(ctx context.Context, id uint) (*entity.ParkingSpot, error)

	FindAll(ctx context.Context, req entity.PageRequest) (*entity.Page, error)
	Delete(ctx context.Context, spot *entity.ParkingSpot) error
}

// ParkingSpotUsecase は駐車スペースレコードへのすべてのアクセスを仲介します。
type ParkingSpotUsecase struct {
	repo ParkingSpotRepository
}

// NewParkingSpotUsecase は指定されたリポジトリでParkingSpotUsecaseの新しいインスタンスを生成します。
func NewParkingSpotUsecase(r ParkingSpotRepository) *ParkingSpotUsecase {
	return &ParkingSpotUsecase{repo: r}
}

// ExistsByLicensePlateCar reports whether a spot is registered for the plate.
func (u *ParkingSpotUsecase) ExistsByLicensePlateCar(ctx context.Context, plate string) (bool, error) {
	return u.repo.ExistsByLicensePlateCar(ctx, plate)
}

// ExistsByParkingSpotNumber reports whether the spot number is taken.
func (u *ParkingSpotUsecase) ExistsByParkingSpotNumber(ctx context.Context, number string) (bool, error) {
	return u.repo.ExistsByParkingSpotNumber(ctx, number)
}

// ExistsByApartmentAndBlock reports whether the apartment already holds a spot in the block.
func (u *ParkingSpotUsecase) ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error) {
	return u.repo.ExistsByApartmentAndBlock(ctx, apartment, block)
}

// Save は駐車スペースを保存し、ストレージが採番した項目を反映して返します。
func (u *ParkingSpotUsecase) Save(ctx context.Context, spot *entity.ParkingSpot) (*entity.ParkingSpot, error) {
	if spot == nil {
		return nil, errors.New("parking spot is nil")
	}
	if err := u.repo.Save(ctx, spot); err != nil {
		return nil, fmt.Errorf("failed to save parking spot: %w", err)
	}
	return spot, nil
}

// FindByID は指定されたIDの駐車スペースを返します。存在しない場合はnilを返します。
func (u *ParkingSpotUsecase) FindByID(ctx context.Context, id uint) (*entity.ParkingSpot, error) {
	spot, err := u.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrParkingSpotNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return spot, nil
}

// FindAll は指定されたページを返します。未指定の項目はデフォルト値を使用します。
func (u *ParkingSpotUsecase) FindAll(ctx context.Context, req entity.PageRequest) (*entity.Page, error) {
	return u.repo.FindAll(ctx, normalizePageRequest(req))
}

// Delete は駐車スペースを物理削除します。
func (u *ParkingSpotUsecase) Delete(ctx context.Context, spot *entity.ParkingSpot) error {
	if spot == nil {
		return errors.New("parking spot is nil")
	}
	return u.repo.Delete(ctx, spot)
}

func normalizePageRequest(req entity.PageRequest) entity.PageRequest {
	if req.Page < 0 {
		req.Page = entity.DefaultPage
	}
	if req.Size <= 0 {
		req.Size = entity.DefaultPageSize
	}
	if req.Size > entity.MaxPageSize {
		req.Size = entity.MaxPageSize
	}
	if req.Sort == "" {
		req.Sort = entity.DefaultSortField
	}
	if req.Direction != entity.SortDesc {
		req.Direction = entity.SortAsc
	}
	return req
}
