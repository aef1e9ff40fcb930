package model

import (
	"time"

	"github.com/google/uuid"
)

// Signup 報名模型，一個 (event, user) 組合最多一筆
type Signup struct {
	ID        int       `json:"id" db:"id"`
	SignupID  uuid.UUID `json:"signup_id" db:"signup_id"`
	EventID   int       `json:"event_id" db:"event_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Paid      bool      `json:"paid" db:"paid"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Event *Event `json:"event,omitempty" db:"-"`
}
