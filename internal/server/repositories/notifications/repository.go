// Package notifications persists the requests accepted by the development
// gateway so they can be inspected instead of delivered.
package notifications

import (
	"context"

	"github.com/atomist-global-seeds/blockstack-browser/internal/server/models"
)

// Repository stores and lists notifications.
type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	// List returns notifications oldest first, restricted to email when it
	// is non-empty, at most limit of them.
	List(ctx context.Context, email string, limit int) ([]models.Notification, error)
}
