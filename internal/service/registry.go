package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/database"
	"github.com/openlobby/registry/internal/models"
)

// RegistryService handles publish/heartbeat and registry views
type RegistryService struct {
	servers ServerStore
	events  *Broadcaster
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistryService creates a new registry service
func NewRegistryService(servers ServerStore, events *Broadcaster, logger *slog.Logger) *RegistryService {
	return &RegistryService{
		servers: servers,
		events:  events,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish upserts the server identified by its publish token and replaces
// its published state with the snapshot. The previous ServerInfo and its
// games are dropped wholesale, not merged.
func (s *RegistryService) Publish(ctx context.Context, token string, snapshot *models.GameServerInfo) (*models.GameServer, error) {
	now := s.now()

	server, err := s.servers.FindByToken(token)
	if errors.Is(err, database.ErrNotFound) {
		server = &models.Server{
			ID:       uuid.New(),
			Token:    token,
			LastSeen: now,
		}
		if err := s.servers.Create(server); err != nil {
			return nil, fmt.Errorf("failed to register server: %w", err)
		}
		s.logger.InfoContext(ctx, "New server registered", "id", models.EncodeID(server.ID), "name", snapshot.Name)
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up server: %w", err)
	}

	info := &models.ServerInfo{
		ID:          uuid.New(),
		ServerID:    server.ID,
		Name:        snapshot.Name,
		URI:         snapshot.URI,
		Developer:   snapshot.Developer,
		Fallback:    snapshot.Fallback,
		Full:        snapshot.Full,
		Maintenance: snapshot.Maintenance,
		MaxClients:  snapshot.MaxClients,
		Games:       make([]models.ServerGame, 0, len(snapshot.Games)),
	}
	for _, game := range snapshot.Games {
		info.Games = append(info.Games, models.ServerGame{
			ID:       uuid.New(),
			InfoID:   info.ID,
			Name:     game.Name,
			URI:      game.URI,
			Rooms:    game.Rooms,
			MaxRooms: game.MaxRooms,
			Clients:  game.Clients,
		})
	}

	if err := s.servers.ReplaceState(server.ID, now, info); err != nil {
		return nil, fmt.Errorf("failed to replace server state: %w", err)
	}

	server.LastSeen = now
	server.Info = info

	if s.events != nil {
		s.events.Broadcast(Event{
			Type:   EventServerPublish,
			Server: models.EncodeID(server.ID),
			Name:   info.Name,
			Games:  len(info.Games),
		})
	}

	return models.NewGameServer(server, now), nil
}

// List returns the registry view of all servers matching the list filters.
func (s *RegistryService) List(ctx context.Context, includeDev, includeFallback, excludeFull bool) ([]*models.GameServer, error) {
	servers, err := s.servers.FindAllFiltered(includeDev, includeFallback, excludeFull)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}

	now := s.now()
	views := make([]*models.GameServer, 0, len(servers))
	for _, server := range servers {
		views = append(views, models.NewGameServer(server, now))
	}
	return views, nil
}

// Get returns the registry view of a single server. A server that exists
// but has no published state (caught mid-replace) counts as absent.
func (s *RegistryService) Get(ctx context.Context, id uuid.UUID) (*models.GameServer, error) {
	server, err := s.servers.FindByID(id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find server: %w", err)
	}
	if server.Info == nil {
		return nil, ErrNotFound
	}
	return models.NewGameServer(server, s.now()), nil
}
