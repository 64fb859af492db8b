package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parking_control/internal/feature/auth/domain/entity"
	"parking_control/internal/feature/auth/usecase"
)

// RevokedTokenModel is the GORM model for the revoked_tokens table.
type RevokedTokenModel struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ExpiresAt time.Time `gorm:"index;not null"`
}

// TableName returns the table name for GORM.
func (RevokedTokenModel) TableName() string {
	return "revoked_tokens"
}

// ToEntity converts the GORM model to a domain entity.
func (m *RevokedTokenModel) ToEntity() *entity.RevokedToken {
	return &entity.RevokedToken{ID: m.ID, ExpiresAt: m.ExpiresAt}
}

// revokedTokenGorm is the relational TokenBlocklist used when Redis is unavailable.
type revokedTokenGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure revokedTokenGorm implements TokenBlocklist.
var _ usecase.TokenBlocklist = (*revokedTokenGorm)(nil)

// NewRevokedTokenRepository creates a new instance of revokedTokenGorm.
func NewRevokedTokenRepository(db *gorm.DB) *revokedTokenGorm {
	return &revokedTokenGorm{db: db, now: time.Now}
}

// Revoke stores the token ID until expiresAt. Already expired tokens are ignored.
func (r *revokedTokenGorm) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	tok := entity.RevokedToken{ID: tokenID, ExpiresAt: expiresAt.UTC()}
	if tok.IsExpired(r.now()) {
		return nil
	}
	model := &RevokedTokenModel{ID: tok.ID, ExpiresAt: tok.ExpiresAt}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model).Error
}

// IsRevoked reports whether a live revocation exists for the token ID.
func (r *revokedTokenGorm) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RevokedTokenModel{}).
		Where("id = ? AND expires_at > ?", tokenID, r.now().UTC()).
		Count(&count).Error
	return count > 0, err
}

// DeleteExpired removes revocations whose tokens have expired anyway.
func (r *revokedTokenGorm) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", r.now().UTC()).
		Delete(&RevokedTokenModel{})
	return result.RowsAffected, result.Error
}
