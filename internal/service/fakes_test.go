package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/database"
	"github.com/openlobby/registry/internal/models"
)

// fakeServerStore is an in-memory ServerStore mirroring the repository
// semantics closely enough for the services under test.
type fakeServerStore struct {
	servers []*models.Server

	// filterErr, when set, injects a store failure into FindByFilter for
	// matching tiers.
	filterErr func(developer, fallback bool) error

	creates  int
	replaces int
}

func (f *fakeServerStore) FindByID(id uuid.UUID) (*models.Server, error) {
	for _, srv := range f.servers {
		if srv.ID == id {
			return srv, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeServerStore) FindByToken(token string) (*models.Server, error) {
	for _, srv := range f.servers {
		if srv.Token == token {
			return srv, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeServerStore) FindByFilter(developer, fallback, excludeFull bool) ([]*models.Server, error) {
	if f.filterErr != nil {
		if err := f.filterErr(developer, fallback); err != nil {
			return nil, err
		}
	}
	var matches []*models.Server
	for _, srv := range f.servers {
		info := srv.Info
		if info == nil {
			continue
		}
		if info.Developer != developer || info.Fallback != fallback {
			continue
		}
		if excludeFull && info.Full {
			continue
		}
		matches = append(matches, srv)
	}
	return matches, nil
}

func (f *fakeServerStore) FindAllFiltered(includeDev, includeFallback, excludeFull bool) ([]*models.Server, error) {
	var matches []*models.Server
	for _, srv := range f.servers {
		info := srv.Info
		if info == nil {
			continue
		}
		if !includeDev && info.Developer {
			continue
		}
		if !includeFallback && info.Fallback {
			continue
		}
		if excludeFull && info.Full {
			continue
		}
		matches = append(matches, srv)
	}
	return matches, nil
}

func (f *fakeServerStore) Create(server *models.Server) error {
	f.creates++
	f.servers = append(f.servers, server)
	return nil
}

func (f *fakeServerStore) ReplaceState(serverID uuid.UUID, lastSeen time.Time, info *models.ServerInfo) error {
	f.replaces++
	for _, srv := range f.servers {
		if srv.ID == serverID {
			srv.LastSeen = lastSeen
			srv.Info = info
			return nil
		}
	}
	return database.ErrNotFound
}

// fakeTokenStore is an in-memory FastTokenStore.
type fakeTokenStore struct {
	tokens []*models.FastToken
}

func (f *fakeTokenStore) FindLiveByCode(code string, cutoff time.Time) (*models.FastToken, error) {
	for _, tok := range f.tokens {
		if tok.Code == code && tok.CreatedAt.After(cutoff) {
			return tok, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeTokenStore) Create(token *models.FastToken) error {
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeTokenStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var kept []*models.FastToken
	var removed int64
	for _, tok := range f.tokens {
		if tok.CreatedAt.After(cutoff) {
			kept = append(kept, tok)
		} else {
			removed++
		}
	}
	f.tokens = kept
	return removed, nil
}

// testServer builds a live server with one published game.
func testServer(name, game, gameURI string, developer, fallback bool, lastSeen time.Time) *models.Server {
	id := uuid.New()
	infoID := uuid.New()
	return &models.Server{
		ID:       id,
		Token:    "token-" + name,
		LastSeen: lastSeen,
		Info: &models.ServerInfo{
			ID:        infoID,
			ServerID:  id,
			Name:      name,
			URI:       "https://" + name + ".example",
			Developer: developer,
			Fallback:  fallback,
			Games: []models.ServerGame{
				{
					ID:     uuid.New(),
					InfoID: infoID,
					Name:   game,
					URI:    gameURI,
					Rooms:  1,
				},
			},
		},
	}
}
