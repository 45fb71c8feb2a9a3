// Package storage provides abstractions for persistent draw storage.
package storage

import (
	"context"
	"errors"

	"github.com/jkowalik/giftdraw/internal/models"
)

// ErrNotFound is returned when no draw matches the lookup. Callers should
// test with errors.Is; a fresh database simply has no draws yet.
var ErrNotFound = errors.New("storage: draw not found")

// Store defines the interface for draw storage operations. This abstraction
// allows swapping storage backends (SQLite, PostgreSQL, etc.) without
// changing the commands built on top.
type Store interface {
	// SaveDraw persists a new draw and returns the assigned ID.
	// The draw.ID field will be populated by the store.
	SaveDraw(ctx context.Context, draw *models.Draw) error

	// GetDraw retrieves a draw by its ID, including all assignments.
	// Returns ErrNotFound when the ID is unknown.
	GetDraw(ctx context.Context, drawID string) (*models.Draw, error)

	// LatestDraw retrieves the most recently created draw.
	// Returns ErrNotFound when the history is empty.
	LatestDraw(ctx context.Context) (*models.Draw, error)

	// Close releases any resources held by the store.
	Close() error
}
