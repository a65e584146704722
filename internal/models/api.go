package models

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// lastSeenLayout is the timestamp format used on the wire for last-seen.
const lastSeenLayout = "2006-01-02 15:04:05.999999999"

// EncodeID renders a server id the way it travels on the wire: 32 lowercase
// hex characters, no dashes.
func EncodeID(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

// ParseID parses a wire-format server id. Both the plain 32-hex and the
// dashed UUID forms are accepted.
func ParseID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GameServerInfo is the publish payload and the info section of registry
// views.
type GameServerInfo struct {
	Name        string            `json:"name"`
	URI         string            `json:"uri"`
	Developer   bool              `json:"developer"`
	Fallback    bool              `json:"fallback"`
	Full        bool              `json:"full"`
	Maintenance bool              `json:"maintenance"`
	MaxClients  *int              `json:"max-clients"`
	Games       []GameServerEntry `json:"games"`
}

// GameServerEntry is one hosted game inside a GameServerInfo.
type GameServerEntry struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	Rooms    int    `json:"rooms"`
	MaxRooms *int   `json:"max-rooms"`
	Clients  int    `json:"clients"`
}

// GameServer is the full registry view of one server.
type GameServer struct {
	ID          string         `json:"id"`
	LastSeen    string         `json:"last-seen"`
	LastSeenSec float64        `json:"last-seen-sec"`
	Info        GameServerInfo `json:"info"`
}

// NewGameServer builds the wire view of a server and its published state.
// now decides the reported last-seen age.
func NewGameServer(srv *Server, now time.Time) *GameServer {
	view := &GameServer{
		ID:          EncodeID(srv.ID),
		LastSeen:    srv.LastSeen.UTC().Format(lastSeenLayout),
		LastSeenSec: now.Sub(srv.LastSeen).Seconds(),
	}
	if srv.Info != nil {
		view.Info = GameServerInfo{
			Name:        srv.Info.Name,
			URI:         srv.Info.URI,
			Developer:   srv.Info.Developer,
			Fallback:    srv.Info.Fallback,
			Full:        srv.Info.Full,
			Maintenance: srv.Info.Maintenance,
			MaxClients:  srv.Info.MaxClients,
			Games:       make([]GameServerEntry, 0, len(srv.Info.Games)),
		}
		for _, game := range srv.Info.Games {
			view.Info.Games = append(view.Info.Games, GameServerEntry{
				Name:     game.Name,
				URI:      game.URI,
				Rooms:    game.Rooms,
				MaxRooms: game.MaxRooms,
				Clients:  game.Clients,
			})
		}
	}
	return view
}

// UpdateResponse acknowledges a publish with the server's wire id.
type UpdateResponse struct {
	ID string `json:"id"`
}

// NewRequest asks the matchmaker for a live server hosting a game.
type NewRequest struct {
	Game      string   `json:"game"`
	Developer bool     `json:"developer"`
	Fallback  *bool    `json:"fallback"`
	Ignore    []string `json:"ignore"`
}

// AllowFallback reports whether the request permits fallback tiers.
// Fallback defaults to true when the caller leaves it unset.
func (r *NewRequest) AllowFallback() bool {
	return r.Fallback == nil || *r.Fallback
}

// NewResponse is a successful matchmaking answer.
type NewResponse struct {
	ID      string `json:"id"`
	APIURI  string `json:"api-uri"`
	GameURI string `json:"game-uri"`
}

// FastTokenAddRequest mints a fast-join code for the calling server.
type FastTokenAddRequest struct {
	Game  string `json:"game"`
	Lobby string `json:"lobby"`
}

// FastTokenAddResponse carries the minted code.
type FastTokenAddResponse struct {
	Token string `json:"token"`
}

// FastTokenFetchResponse resolves a code to the owning server's current
// published URIs. GameURI is null when the server republished without the
// bound game since the code was minted.
type FastTokenFetchResponse struct {
	Server  string  `json:"server"`
	Game    string  `json:"game"`
	Lobby   string  `json:"lobby"`
	APIURI  string  `json:"api-uri"`
	GameURI *string `json:"game-uri"`
}
