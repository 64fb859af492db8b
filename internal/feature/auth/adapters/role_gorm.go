package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"parking_control/internal/feature/auth/domain/entity"
	"parking_control/internal/feature/auth/usecase"
)

// roleGorm is a GORM implementation of the RoleRepository interface.
type roleGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure roleGorm implements RoleRepository.
var _ usecase.RoleRepository = (*roleGorm)(nil)

// NewRoleRepository creates a new instance of roleGorm.
func NewRoleRepository(db *gorm.DB) *roleGorm {
	return &roleGorm{db: db}
}

// FindOrCreate returns the role row for name, inserting it on first use.
func (r *roleGorm) FindOrCreate(ctx context.Context, name entity.RoleName) (*entity.Role, error) {
	if _, ok := entity.ParseRoleName(string(name)); !ok {
		return nil, fmt.Errorf("unknown role %q", name)
	}
	var m RoleModel
	if err := r.db.WithContext(ctx).
		Where(RoleModel{Name: string(name)}).
		FirstOrCreate(&m).Error; err != nil {
		return nil, err
	}
	role := m.ToEntity()
	return &role, nil
}
