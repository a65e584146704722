package models

import (
	"time"

	"github.com/google/uuid"
)

// FastTokenValidity is how long a fast-join code stays resolvable. Expired
// rows are not deleted inline, lookups filter them out by age.
const FastTokenValidity = 20 * time.Minute

// FastToken binds a short human-typeable code to a (server, game, lobby)
// tuple. Codes are only unique among rows younger than FastTokenValidity.
type FastToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Code      string    `json:"code" gorm:"index;not null"`
	ServerID  uuid.UUID `json:"server_id" gorm:"type:uuid;index;not null"`
	Game      string    `json:"game" gorm:"not null"`
	Lobby     string    `json:"lobby" gorm:"not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
