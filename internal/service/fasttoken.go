package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/database"
	"github.com/openlobby/registry/internal/models"
)

// codeAlphabet is the character set fast codes are drawn from. The letter N
// is absent from it; clients depend on the exact set, so it stays that way.
const codeAlphabet = "ABCDEFGHIJKLMOPQRSTUVWXYZ0123456789"

// codeLength is the number of characters in a fast code.
const codeLength = 4

// maxCodeAttempts bounds the collision-retry loop during generation.
// Exhausting it means the live code space is saturated.
const maxCodeAttempts = 32

// FastTokenService mints and resolves fast-join codes
type FastTokenService struct {
	servers ServerStore
	tokens  FastTokenStore
	logger  *slog.Logger
	now     func() time.Time
	randInt func(n int) int
}

// NewFastTokenService creates a new fast token service
func NewFastTokenService(servers ServerStore, tokens FastTokenStore, logger *slog.Logger) *FastTokenService {
	return &FastTokenService{
		servers: servers,
		tokens:  tokens,
		logger:  logger,
		now:     time.Now,
		randInt: rand.IntN,
	}
}

// Mint creates a fast code for the server owning ownerToken, bound to the
// given game and lobby label.
func (s *FastTokenService) Mint(ctx context.Context, ownerToken, game, lobby string) (*models.FastToken, error) {
	server, err := s.servers.FindByToken(ownerToken)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up server: %w", err)
	}
	return s.generate(ctx, server.ID, game, lobby)
}

// generate draws codes until one has no live collision, then persists the
// binding. The retry loop is bounded; exhaustion surfaces as
// ErrCodeSpaceExhausted instead of spinning.
func (s *FastTokenService) generate(ctx context.Context, serverID uuid.UUID, game, lobby string) (*models.FastToken, error) {
	now := s.now()
	cutoff := now.Add(-models.FastTokenValidity)

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.randomCode()

		_, err := s.tokens.FindLiveByCode(code, cutoff)
		if err == nil {
			// A live token already carries this code, redraw.
			continue
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("failed to check code collision: %w", err)
		}

		token := &models.FastToken{
			ID:        uuid.New(),
			Code:      code,
			ServerID:  serverID,
			Game:      game,
			Lobby:     lobby,
			CreatedAt: now,
		}
		if err := s.tokens.Create(token); err != nil {
			return nil, fmt.Errorf("failed to persist fast token: %w", err)
		}

		s.logger.InfoContext(ctx, "Fast token minted",
			"code", code, "server_id", models.EncodeID(serverID), "game", game, "attempts", attempt+1)
		return token, nil
	}

	s.logger.ErrorContext(ctx, "Fast token generation exhausted retries",
		"server_id", models.EncodeID(serverID), "attempts", maxCodeAttempts)
	return nil, ErrCodeSpaceExhausted
}

// Resolve looks up a non-expired code, case-insensitively, and resolves it
// against the owning server's current published state. An expired code is
// indistinguishable from an absent one.
func (s *FastTokenService) Resolve(ctx context.Context, code string) (*models.FastTokenFetchResponse, error) {
	now := s.now()
	code = strings.ToUpper(code)

	token, err := s.tokens.FindLiveByCode(code, now.Add(-models.FastTokenValidity))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up fast token: %w", err)
	}

	server, err := s.servers.FindByID(token.ServerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token owner: %w", err)
	}
	if server.Info == nil {
		return nil, fmt.Errorf("server %s has no published state", models.EncodeID(server.ID))
	}

	resp := &models.FastTokenFetchResponse{
		Server: models.EncodeID(token.ServerID),
		Game:   token.Game,
		Lobby:  token.Lobby,
		APIURI: server.Info.URI,
	}
	// The server may have republished without the bound game since the code
	// was minted; the api-uri alone is still useful to the caller.
	for i := range server.Info.Games {
		if server.Info.Games[i].Name == token.Game {
			resp.GameURI = &server.Info.Games[i].URI
			break
		}
	}
	return resp, nil
}

// Prune deletes tokens that fell out of the validity window.
func (s *FastTokenService) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-models.FastTokenValidity)
	removed, err := s.tokens.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune fast tokens: %w", err)
	}
	if removed > 0 {
		s.logger.InfoContext(ctx, "Pruned expired fast tokens", "removed", removed)
	}
	return removed, nil
}

func (s *FastTokenService) randomCode() string {
	var b [codeLength]byte
	for i := range b {
		b[i] = codeAlphabet[s.randInt(len(codeAlphabet))]
	}
	return string(b[:])
}
