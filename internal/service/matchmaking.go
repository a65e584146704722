package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/models"
)

// tier is one (developer, fallback) stage of the matchmaking cascade.
type tier struct {
	developer bool
	fallback  bool
}

// searchTiers expands a request into the ordered list of tiers to try.
// Developer traffic gets its own tiers first; fallback servers are always
// the last resort within a band. A developer request that forbids fallback
// never reaches the production pool.
func searchTiers(developer, allowFallback bool) []tier {
	var tiers []tier
	if developer {
		tiers = append(tiers, tier{developer: true})
		if !allowFallback {
			return tiers
		}
		tiers = append(tiers, tier{developer: true, fallback: true})
	}
	tiers = append(tiers, tier{})
	if allowFallback {
		tiers = append(tiers, tier{fallback: true})
	}
	return tiers
}

// MatchmakingService picks a live server for a requested game
type MatchmakingService struct {
	servers ServerStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewMatchmakingService creates a new matchmaking service
func NewMatchmakingService(servers ServerStore, logger *slog.Logger) *MatchmakingService {
	return &MatchmakingService{
		servers: servers,
		logger:  logger,
		now:     time.Now,
	}
}

// Find walks the tier cascade and returns the first live, non-full,
// non-maintenance server hosting the requested game. Store failures inside
// a tier count as "no candidate here" and the cascade moves on; only a
// fully exhausted cascade yields ErrNoMatch.
func (s *MatchmakingService) Find(ctx context.Context, req *models.NewRequest) (*models.NewResponse, error) {
	ignore := make(map[uuid.UUID]struct{}, len(req.Ignore))
	for _, raw := range req.Ignore {
		id, err := models.ParseID(raw)
		if err != nil {
			continue
		}
		ignore[id] = struct{}{}
	}

	now := s.now()
	for _, t := range searchTiers(req.Developer, req.AllowFallback()) {
		server, game := s.findInTier(ctx, req.Game, t, ignore, now)
		if server != nil {
			return &models.NewResponse{
				ID:      models.EncodeID(server.ID),
				APIURI:  server.Info.URI,
				GameURI: game.URI,
			}, nil
		}
	}

	return nil, ErrNoMatch
}

// findInTier returns the first eligible server in one tier together with
// its matching game entry, or nil when the tier has no candidate.
func (s *MatchmakingService) findInTier(ctx context.Context, game string, t tier, ignore map[uuid.UUID]struct{}, now time.Time) (*models.Server, *models.ServerGame) {
	servers, err := s.servers.FindByFilter(t.developer, t.fallback, true)
	if err != nil {
		s.logger.WarnContext(ctx, "Tier lookup failed, treating tier as empty",
			"developer", t.developer, "fallback", t.fallback, "error", err)
		return nil, nil
	}

	for _, server := range servers {
		info := server.Info
		if info == nil {
			// Caught mid-replace, treat as absent.
			continue
		}
		if info.Developer != t.developer || info.Fallback != t.fallback {
			continue
		}
		if info.Maintenance || info.Full {
			continue
		}
		if !IsLive(now, server.LastSeen) {
			continue
		}
		if _, skip := ignore[server.ID]; skip {
			continue
		}
		for i := range info.Games {
			if info.Games[i].Name == game {
				return server, &info.Games[i]
			}
		}
	}

	return nil, nil
}
