package models

import (
	"time"

	"github.com/google/uuid"
)

// Server is the identity record of a publishing game backend. It is created
// the first time an unseen publish token shows up and reused for every
// republish with the same token.
type Server struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null"`
	LastSeen  time.Time `json:"last_seen" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Info *ServerInfo `json:"info,omitempty" gorm:"foreignKey:ServerID"`
}

// ServerInfo is the state a server most recently published. It is replaced
// wholesale on every publish, never patched field by field.
type ServerInfo struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ServerID    uuid.UUID `json:"server_id" gorm:"type:uuid;index;not null"`
	Name        string    `json:"name" gorm:"not null"`
	URI         string    `json:"uri" gorm:"not null"`
	Developer   bool      `json:"developer"`
	Fallback    bool      `json:"fallback"`
	Full        bool      `json:"full"`
	Maintenance bool      `json:"maintenance"`
	MaxClients  *int      `json:"max_clients"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Games []ServerGame `json:"games" gorm:"foreignKey:InfoID"`
}

// ServerGame is one room/game hosted by a published server state. Rows are
// owned by their ServerInfo and die with it on the next publish.
type ServerGame struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	InfoID    uuid.UUID `json:"info_id" gorm:"type:uuid;index;not null"`
	Name      string    `json:"name" gorm:"index;not null"`
	URI       string    `json:"uri" gorm:"not null"`
	Rooms     int       `json:"rooms"`
	MaxRooms  *int      `json:"max_rooms"`
	Clients   int       `json:"clients"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
