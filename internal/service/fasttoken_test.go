package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/openlobby/registry/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(servers *fakeServerStore, tokens *fakeTokenStore, now time.Time) *FastTokenService {
	svc := NewFastTokenService(servers, tokens, slog.Default())
	svc.now = func() time.Time { return now }
	return svc
}

// scriptedRand returns the given indices in order and repeats the last one
// forever.
func scriptedRand(indices ...int) func(int) int {
	i := 0
	return func(n int) int {
		idx := indices[i]
		if i < len(indices)-1 {
			i++
		}
		return idx % n
	}
}

func TestCodeAlphabetHasNoLetterN(t *testing.T) {
	assert.NotContains(t, codeAlphabet, "N")
	assert.Len(t, codeAlphabet, 35)
}

func TestRandomCodeShape(t *testing.T) {
	svc := newTestTokenService(&fakeServerStore{}, &fakeTokenStore{}, time.Now())
	for i := 0; i < 1000; i++ {
		code := svc.randomCode()
		require.Len(t, code, 4)
		for _, c := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
		}
	}
}

func TestMintRequiresKnownOwnerToken(t *testing.T) {
	now := time.Now()
	svc := newTestTokenService(&fakeServerStore{}, &fakeTokenStore{}, now)

	_, err := svc.Mint(context.Background(), "nobody", "arena", "l1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMintRoundTrip(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{}
	svc := newTestTokenService(servers, tokens, now)

	minted, err := svc.Mint(context.Background(), server.Token, "arena", "l1")
	require.NoError(t, err)
	assert.Len(t, minted.Code, 4)
	assert.Equal(t, server.ID, minted.ServerID)

	// Lookup is case-insensitive at the boundary.
	resolved, err := svc.Resolve(context.Background(), strings.ToLower(minted.Code))
	require.NoError(t, err)
	assert.Equal(t, models.EncodeID(server.ID), resolved.Server)
	assert.Equal(t, "arena", resolved.Game)
	assert.Equal(t, "l1", resolved.Lobby)
	assert.Equal(t, server.Info.URI, resolved.APIURI)
	require.NotNil(t, resolved.GameURI)
	assert.Equal(t, "a.example/arena", *resolved.GameURI)
}

func TestGenerateRedrawsOnLiveCollision(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{tokens: []*models.FastToken{{
		ID:        uuid.New(),
		Code:      "AAAA",
		ServerID:  server.ID,
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestTokenService(servers, tokens, now)
	// First draw collides with the live AAAA, the redraw yields BBBB.
	svc.randInt = scriptedRand(0, 0, 0, 0, 1, 1, 1, 1)

	minted, err := svc.Mint(context.Background(), server.Token, "arena", "l1")
	require.NoError(t, err)
	assert.Equal(t, "BBBB", minted.Code)
}

func TestGenerateReusesExpiredCode(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{tokens: []*models.FastToken{{
		ID:        uuid.New(),
		Code:      "AAAA",
		ServerID:  server.ID,
		CreatedAt: now.Add(-21 * time.Minute),
	}}}
	svc := newTestTokenService(servers, tokens, now)
	svc.randInt = scriptedRand(0)

	// The old AAAA fell out of the validity window, so the code is free.
	minted, err := svc.Mint(context.Background(), server.Token, "arena", "l1")
	require.NoError(t, err)
	assert.Equal(t, "AAAA", minted.Code)
}

func TestGenerateGivesUpWhenCodeSpaceSaturated(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{tokens: []*models.FastToken{{
		ID:        uuid.New(),
		Code:      "AAAA",
		ServerID:  server.ID,
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestTokenService(servers, tokens, now)
	// Every draw produces the already-taken AAAA.
	svc.randInt = scriptedRand(0)

	_, err := svc.Mint(context.Background(), server.Token, "arena", "l1")
	assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
	// The failed generation must not have persisted anything.
	assert.Len(t, tokens.tokens, 1)
}

func TestLiveCodesNeverCollide(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{}
	svc := newTestTokenService(servers, tokens, now)

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		minted, err := svc.Mint(context.Background(), server.Token, "arena", "l1")
		require.NoError(t, err)
		_, dup := seen[minted.Code]
		require.False(t, dup, "code %s issued twice within the validity window", minted.Code)
		seen[minted.Code] = struct{}{}
	}
}

func TestResolveExpiredCodeIsNotFound(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "arena", "a.example/arena", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	tokens := &fakeTokenStore{tokens: []*models.FastToken{{
		ID:        uuid.New(),
		Code:      "XY42",
		ServerID:  server.ID,
		Game:      "arena",
		Lobby:     "l1",
		CreatedAt: now.Add(-20 * time.Minute),
	}}}
	svc := newTestTokenService(servers, tokens, now)

	// The row still exists, only its age disqualifies it.
	_, err := svc.Resolve(context.Background(), "XY42")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, tokens.tokens, 1)
}

func TestResolveStaleGameBinding(t *testing.T) {
	now := time.Now()
	server := testServer("alpha", "racing", "a.example/racing", false, false, now)
	servers := &fakeServerStore{servers: []*models.Server{server}}
	// The code was minted for arena, but the server republished with racing
	// only.
	tokens := &fakeTokenStore{tokens: []*models.FastToken{{
		ID:        uuid.New(),
		Code:      "XY42",
		ServerID:  server.ID,
		Game:      "arena",
		Lobby:     "l1",
		CreatedAt: now.Add(-time.Minute),
	}}}
	svc := newTestTokenService(servers, tokens, now)

	resolved, err := svc.Resolve(context.Background(), "XY42")
	require.NoError(t, err)
	assert.Nil(t, resolved.GameURI)
	assert.Equal(t, server.Info.URI, resolved.APIURI)
	assert.Equal(t, "arena", resolved.Game)
}

func TestPruneRemovesOnlyExpiredTokens(t *testing.T) {
	now := time.Now()
	tokens := &fakeTokenStore{tokens: []*models.FastToken{
		{ID: uuid.New(), Code: "OLD1", CreatedAt: now.Add(-30 * time.Minute)},
		{ID: uuid.New(), Code: "OLD2", CreatedAt: now.Add(-21 * time.Minute)},
		{ID: uuid.New(), Code: "NEWW", CreatedAt: now.Add(-time.Minute)},
	}}
	svc := newTestTokenService(&fakeServerStore{}, tokens, now)

	removed, err := svc.Prune(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	require.Len(t, tokens.tokens, 1)
	assert.Equal(t, "NEWW", tokens.tokens[0].Code)
}
