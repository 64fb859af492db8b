package adapters

import (
	"time"

	"parking_control/internal/feature/auth/domain/entity"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID        uint        `gorm:"primaryKey"`
	Username  string      `gorm:"uniqueIndex;size:255;not null"`
	Password  string      `gorm:"size:255;not null"`
	Roles     []RoleModel `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM.
func (UserModel) TableName() string {
	return "tb_user"
}

// RoleModel is the GORM model for the roles table.
type RoleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:30;not null"`
}

// TableName returns the table name for GORM.
func (RoleModel) TableName() string {
	return "tb_role"
}

// ToEntity converts the GORM model to a domain entity.
func (m *RoleModel) ToEntity() entity.Role {
	return entity.Role{ID: m.ID, Name: entity.RoleName(m.Name)}
}

// ToEntity converts the GORM model to a domain entity.
func (m *UserModel) ToEntity() *entity.User {
	roles := make([]entity.Role, 0, len(m.Roles))
	for i := range m.Roles {
		roles = append(roles, m.Roles[i].ToEntity())
	}
	return &entity.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		Roles:     roles,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// UserModelFromEntity converts a domain entity to a GORM model.
func UserModelFromEntity(u *entity.User) *UserModel {
	roles := make([]RoleModel, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, RoleModel{ID: r.ID, Name: string(r.Name)})
	}
	return &UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Models lists every auth table for schema migration.
func Models() []any {
	return []any{&RoleModel{}, &UserModel{}, &RevokedTokenModel{}}
}
