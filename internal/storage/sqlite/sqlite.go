// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/jkowalik/giftdraw/internal/models"
	"github.com/jkowalik/giftdraw/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDraw persists a new draw and its assignments in one transaction.
func (s *SQLiteStore) SaveDraw(ctx context.Context, draw *models.Draw) error {
	// Generate ID and timestamp if not set
	if draw.ID == "" {
		draw.ID = uuid.New().String()
	}
	if draw.CreatedAt == 0 {
		draw.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	collectAll := 0
	if draw.CollectAll {
		collectAll = 1
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO draws (id, seed, attempts, collect_all, created_at) VALUES (?, ?, ?, ?, ?)",
		draw.ID, draw.Seed, draw.Attempts, collectAll, draw.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draw: %w", err)
	}

	for giver, receiver := range draw.Assignments {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO draw_assignments (draw_id, giver, receiver) VALUES (?, ?, ?)",
			draw.ID, giver, receiver,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDraw retrieves a draw by ID, including all assignments.
func (s *SQLiteStore) GetDraw(ctx context.Context, drawID string) (*models.Draw, error) {
	return s.queryDraw(ctx,
		"SELECT id, seed, attempts, collect_all, created_at FROM draws WHERE id = ?",
		drawID,
	)
}

// LatestDraw retrieves the most recently created draw. Ties on created_at
// (two draws within one second) resolve to the later insert.
func (s *SQLiteStore) LatestDraw(ctx context.Context) (*models.Draw, error) {
	return s.queryDraw(ctx,
		"SELECT id, seed, attempts, collect_all, created_at FROM draws ORDER BY created_at DESC, rowid DESC LIMIT 1",
	)
}

// queryDraw runs a single-row draw query and loads its assignments.
func (s *SQLiteStore) queryDraw(ctx context.Context, query string, args ...any) (*models.Draw, error) {
	draw := &models.Draw{}
	var collectAll int
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&draw.ID, &draw.Seed, &draw.Attempts, &collectAll, &draw.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw: %w", err)
	}
	draw.CollectAll = collectAll != 0

	rows, err := s.db.QueryContext(ctx,
		"SELECT giver, receiver FROM draw_assignments WHERE draw_id = ? ORDER BY giver",
		draw.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	defer rows.Close()

	draw.Assignments = make(map[string]string)
	for rows.Next() {
		var giver, receiver string
		if err := rows.Scan(&giver, &receiver); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		draw.Assignments[giver] = receiver
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assignments: %w", err)
	}

	return draw, nil
}
