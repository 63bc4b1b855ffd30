package repository

import (
	"time"

	"github.com/collabhub/collabhub-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRevokedTokenRepository is a GORM implementation of RevokedTokenRepository
type GormRevokedTokenRepository struct {
	db *gorm.DB
}

// NewRevokedTokenRepository creates a new RevokedTokenRepository
func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &GormRevokedTokenRepository{db: db}
}

// Create inserts a blacklist row. Revoking the same token twice is a no-op
// thanks to the unique index and the conflict clause.
func (r *GormRevokedTokenRepository) Create(token string, expiresAt time.Time) error {
	row := models.RevokedToken{Token: token, ExpiresAt: expiresAt}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// Exists reports whether the token has been revoked
func (r *GormRevokedTokenRepository) Exists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.RevokedToken{}).Where("token = ?", token).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteExpired removes rows whose captured token expiry is before now.
// Revocation only matters while the token would otherwise still verify.
func (r *GormRevokedTokenRepository) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
