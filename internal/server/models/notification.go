// Package models holds the gateway's persisted types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is one accepted gateway request. The gateway records it
// instead of sending mail.
type Notification struct {
	ID           uuid.UUID `json:"id"`
	Kind         string    `json:"kind"`
	Email        string    `json:"email"`
	Link         string    `json:"link"`
	IdentityName string    `json:"blockstackId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
