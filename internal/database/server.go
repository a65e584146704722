package database

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/models"
	"gorm.io/gorm"
)

// ServerRepository provides database operations for Server aggregates
type ServerRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewServerRepository creates a new server repository
func NewServerRepository(db *DB) *ServerRepository {
	return &ServerRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

// FindByID retrieves a server with its published state by id
func (r *ServerRepository) FindByID(id uuid.UUID) (*models.Server, error) {
	var server models.Server
	result := r.db.Preload("Info.Games").Preload("Info").First(&server, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to find server by ID", "id", id, "error", result.Error)
		return nil, result.Error
	}
	return &server, nil
}

// FindByToken retrieves a server by its publish token
func (r *ServerRepository) FindByToken(token string) (*models.Server, error) {
	var server models.Server
	result := r.db.First(&server, "token = ?", token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to find server by token", "error", result.Error)
		return nil, result.Error
	}
	return &server, nil
}

// FindByFilter retrieves servers whose published state matches the given
// tier flags exactly. Servers without a published state (mid-replace) are
// absent from the result. Games are loaded eagerly.
func (r *ServerRepository) FindByFilter(developer, fallback, excludeFull bool) ([]*models.Server, error) {
	query := r.db.
		Joins("Info").
		Preload("Info.Games").
		Where(`"Info"."developer" = ? AND "Info"."fallback" = ?`, developer, fallback)
	if excludeFull {
		query = query.Where(`"Info"."full" = ?`, false)
	}

	var servers []*models.Server
	result := query.Find(&servers)
	if result.Error != nil {
		r.logger.Error("Failed to filter servers", "developer", developer, "fallback", fallback, "error", result.Error)
		return nil, result.Error
	}
	return servers, nil
}

// FindAllFiltered retrieves servers for listing. Developer and fallback
// servers are hidden unless included, full servers are hidden on request.
func (r *ServerRepository) FindAllFiltered(includeDev, includeFallback, excludeFull bool) ([]*models.Server, error) {
	query := r.db.
		Joins("Info").
		Preload("Info.Games")
	if !includeDev {
		query = query.Where(`"Info"."developer" = ?`, false)
	}
	if !includeFallback {
		query = query.Where(`"Info"."fallback" = ?`, false)
	}
	if excludeFull {
		query = query.Where(`"Info"."full" = ?`, false)
	}

	var servers []*models.Server
	result := query.Find(&servers)
	if result.Error != nil {
		r.logger.Error("Failed to list servers", "error", result.Error)
		return nil, result.Error
	}
	return servers, nil
}

// Create inserts a new server identity row
func (r *ServerRepository) Create(server *models.Server) error {
	result := r.db.Create(server)
	if result.Error != nil {
		r.logger.Error("Failed to create server in database", "error", result.Error)
		return result.Error
	}
	r.logger.Debug("Server created in database", "id", server.ID)
	return nil
}

// ReplaceState swaps a server's published state for a new one and refreshes
// its heartbeat. The delete of the old ServerInfo and its games and the
// insert of the new aggregate run in one transaction.
func (r *ServerRepository) ReplaceState(serverID uuid.UUID, lastSeen time.Time, info *models.ServerInfo) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var infoIDs []uuid.UUID
		if err := tx.Model(&models.ServerInfo{}).
			Where("server_id = ?", serverID).
			Pluck("id", &infoIDs).Error; err != nil {
			return err
		}
		if len(infoIDs) > 0 {
			if err := tx.Where("info_id IN ?", infoIDs).Delete(&models.ServerGame{}).Error; err != nil {
				return err
			}
			if err := tx.Where("server_id = ?", serverID).Delete(&models.ServerInfo{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Server{}).
			Where("id = ?", serverID).
			Update("last_seen", lastSeen).Error; err != nil {
			return err
		}
		return tx.Create(info).Error
	})
	if err != nil {
		r.logger.Error("Failed to replace server state", "server_id", serverID, "error", err)
		return err
	}
	r.logger.Debug("Server state replaced", "server_id", serverID, "games", len(info.Games))
	return nil
}
