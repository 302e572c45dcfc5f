package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/atomist-global-seeds/blockstack-browser/internal/dbx"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/models"
	"github.com/google/uuid"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create assigns an ID and a creation time when they are missing and
// inserts n.
func (r *SQLiteRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO notifications (id, kind, email, link, identity_name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID.String(), n.Kind, n.Email, n.Link, n.IdentityName, n.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, email string, limit int) ([]models.Notification, error) {
	query :=
		`SELECT id, kind, email, link, identity_name, created_at FROM notifications
		 WHERE (? = '' OR email = ?)
		 ORDER BY created_at, rowid
		 LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, email, email, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Notification, 0)
	for rows.Next() {
		var (
			n       models.Notification
			id      string
			created int64
		)
		if err := rows.Scan(&id, &n.Kind, &n.Email, &n.Link, &n.IdentityName, &created); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if n.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad notification id %q: %w", id, err)
		}
		n.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

var _ Repository = (*SQLiteRepository)(nil)
