package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const historySchema = `
	CREATE TABLE IF NOT EXISTS rotations (
		id TEXT PRIMARY KEY,
		feed TEXT NOT NULL,
		link TEXT NOT NULL,
		document TEXT NOT NULL,
		rotated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_rotations_feed ON rotations(feed);
	CREATE INDEX IF NOT EXISTS idx_rotations_rotated_at ON rotations(rotated_at);
`

// Rotation is one successful document update
type Rotation struct {
	ID       uuid.UUID
	Feed     string
	Link     string
	Document string
	At       time.Time
}

// History records rotations
type History struct {
	db  *Database
	now func() time.Time
}

// NewHistory creates the rotations table if needed and returns a History on db.
func NewHistory(ctx context.Context, db *Database) (*History, error) {
	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, historySchema)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &History{db: db, now: time.Now}, nil
}

// Record stores a rotation of feed to link in document and returns it.
func (h *History) Record(ctx context.Context, feed, link, document string) (Rotation, error) {
	rotation := Rotation{
		ID:       uuid.New(),
		Feed:     feed,
		Link:     link,
		Document: document,
		At:       h.now().UTC(),
	}

	err := h.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO rotations (id, feed, link, document, rotated_at) VALUES (?, ?, ?, ?, ?)`,
			rotation.ID.String(), rotation.Feed, rotation.Link, rotation.Document, rotation.At,
		)
		return err
	})
	if err != nil {
		return Rotation{}, fmt.Errorf("failed to record rotation: %w", err)
	}

	return rotation, nil
}

// Recent returns up to limit rotations, newest first. An empty feed matches
// every feed.
func (h *History) Recent(ctx context.Context, feed string, limit int) ([]Rotation, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `SELECT id, feed, link, document, rotated_at FROM rotations`
	args := []any{}
	if feed != "" {
		query += ` WHERE feed = ?`
		args = append(args, feed)
	}
	query += ` ORDER BY rotated_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := h.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rotations: %w", err)
	}
	defer rows.Close()

	var rotations []Rotation
	for rows.Next() {
		var (
			r  Rotation
			id string
		)
		if err := rows.Scan(&id, &r.Feed, &r.Link, &r.Document, &r.At); err != nil {
			return nil, fmt.Errorf("failed to scan rotation: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid rotation id %q: %w", id, err)
		}
		rotations = append(rotations, r)
	}

	return rotations, rows.Err()
}
