package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/models"
)

// ServerStore is the registry storage the services run against. It is
// implemented by database.ServerRepository.
type ServerStore interface {
	FindByID(id uuid.UUID) (*models.Server, error)
	FindByToken(token string) (*models.Server, error)
	FindByFilter(developer, fallback, excludeFull bool) ([]*models.Server, error)
	FindAllFiltered(includeDev, includeFallback, excludeFull bool) ([]*models.Server, error)
	Create(server *models.Server) error
	ReplaceState(serverID uuid.UUID, lastSeen time.Time, info *models.ServerInfo) error
}

// FastTokenStore is the fast token storage. It is implemented by
// database.FastTokenRepository.
type FastTokenStore interface {
	FindLiveByCode(code string, cutoff time.Time) (*models.FastToken, error)
	Create(token *models.FastToken) error
	DeleteOlderThan(cutoff time.Time) (int64, error)
}
