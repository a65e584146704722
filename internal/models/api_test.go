package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAndParseID(t *testing.T) {
	id := uuid.New()
	encoded := EncodeID(id)
	assert.Len(t, encoded, 32)
	assert.NotContains(t, encoded, "-")

	parsed, err := ParseID(encoded)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	// The canonical dashed form parses to the same id.
	parsed, err = ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-an-id")
	assert.Error(t, err)
}

func TestAllowFallbackDefaultsToTrue(t *testing.T) {
	req := &NewRequest{Game: "arena"}
	assert.True(t, req.AllowFallback())

	no := false
	req.Fallback = &no
	assert.False(t, req.AllowFallback())
}

func TestNewGameServerWithoutPublishedState(t *testing.T) {
	now := time.Now()
	srv := &Server{ID: uuid.New(), LastSeen: now.Add(-10 * time.Second)}

	view := NewGameServer(srv, now)
	assert.Equal(t, EncodeID(srv.ID), view.ID)
	assert.InDelta(t, 10.0, view.LastSeenSec, 0.001)
	assert.Empty(t, view.Info.Games)
}
