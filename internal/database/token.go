package database

import (
	"errors"
	"log/slog"
	"time"

	"github.com/openlobby/registry/internal/models"
	"gorm.io/gorm"
)

// FastTokenRepository provides database operations for FastToken
type FastTokenRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewFastTokenRepository creates a new fast token repository
func NewFastTokenRepository(db *DB) *FastTokenRepository {
	return &FastTokenRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// FindLiveByCode retrieves a token by code, ignoring rows created at or
// before cutoff. Expired rows behave exactly like absent ones.
func (r *FastTokenRepository) FindLiveByCode(code string, cutoff time.Time) (*models.FastToken, error) {
	var token models.FastToken
	result := r.db.First(&token, "code = ? AND created_at > ?", code, cutoff)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to find fast token", "code", code, "error", result.Error)
		return nil, result.Error
	}
	return &token, nil
}

// Create inserts a new fast token
func (r *FastTokenRepository) Create(token *models.FastToken) error {
	result := r.db.Create(token)
	if result.Error != nil {
		r.logger.Error("Failed to create fast token", "error", result.Error)
		return result.Error
	}
	r.logger.Debug("Fast token created", "code", token.Code, "server_id", token.ServerID)
	return nil
}

// DeleteOlderThan removes tokens created at or before cutoff and reports how
// many rows went away. The HTTP surface never deletes tokens, this exists
// for operator housekeeping.
func (r *FastTokenRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at <= ?", cutoff).Delete(&models.FastToken{})
	if result.Error != nil {
		r.logger.Error("Failed to prune fast tokens", "error", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
