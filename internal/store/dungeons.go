package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/dungeonbuilder/internal/dungeon"
	"github.com/lawnchairsociety/dungeonbuilder/internal/export"
	"github.com/lawnchairsociety/dungeonbuilder/internal/logger"
)

// ErrNotFound is returned when no archived layout matches.
var ErrNotFound = errors.New("dungeon not found")

// ErrDuplicate is returned when a layout with the same fingerprint exists.
var ErrDuplicate = errors.New("dungeon already archived")

// Summary is one archived layout without its rows
type Summary struct {
	ID          int64     `json:"id"`
	Seed        int64     `json:"seed"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Fingerprint string    `json:"fingerprint"`
	RoomCount   int       `json:"room_count"`
	FloorCells  int       `json:"floor_cells"`
	Components  int       `json:"components"`
	CreatedAt   time.Time `json:"created_at"`
}

// SaveLayout archives l and returns its id. The grid is rebuilt to check the
// fingerprint and to count floor cells and components. If the fingerprint is
// already archived it returns the existing id with ErrDuplicate.
func (s *Store) SaveLayout(l *export.Layout) (int64, error) {
	g, err := l.Grid()
	if err != nil {
		return 0, err
	}
	fingerprint := dungeon.Fingerprint(g)
	floor := g.Count(dungeon.RoomFloor) + g.Count(dungeon.PassageFloor)
	components := len(dungeon.Components(g))

	if l.Fingerprint == "" {
		copied := *l
		copied.Fingerprint = fingerprint
		l = &copied
	}
	data, err := export.Encode(l)
	if err != nil {
		return 0, err
	}

	query := s.qb.BuildWithReturning(
		`INSERT INTO dungeons (seed, width, height, fingerprint, room_count, floor_cells, components, layout)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, "id")
	args := []any{l.Seed, l.Width, l.Height, fingerprint, len(l.Rooms), floor, components, string(data)}

	var id int64
	if s.dialect.SupportsLastInsertID() {
		var result sql.Result
		result, err = s.db.Exec(query, args...)
		if err == nil {
			id, err = result.LastInsertId()
		}
	} else {
		err = s.db.QueryRow(query, args...).Scan(&id)
	}

	if err != nil {
		if s.dialect.IsDuplicateKeyError(err) {
			existing, findErr := s.FindByFingerprint(fingerprint)
			if findErr != nil {
				return 0, fmt.Errorf("%w: %v", ErrDuplicate, findErr)
			}
			return existing, fmt.Errorf("%w: id %d", ErrDuplicate, existing)
		}
		return 0, fmt.Errorf("failed to save dungeon: %w", err)
	}

	logger.Debug("Dungeon archived", "id", id, "seed", l.Seed, "fingerprint", fingerprint)
	return id, nil
}

// GetLayout loads the archived layout with the given id.
func (s *Store) GetLayout(id int64) (*export.Layout, error) {
	var data string
	err := s.db.QueryRow(s.qb.Build("SELECT layout FROM dungeons WHERE id = ?"), id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load dungeon: %w", err)
	}

	l, err := export.Decode([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode dungeon %d: %w", id, err)
	}
	return l, nil
}

// FindByFingerprint returns the id of the layout with fingerprint fp.
func (s *Store) FindByFingerprint(fp string) (int64, error) {
	var id int64
	err := s.db.QueryRow(s.qb.Build("SELECT id FROM dungeons WHERE fingerprint = ?"), fp).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to find dungeon: %w", err)
	}
	return id, nil
}

// ListLayouts returns up to limit summaries, newest first. A limit of zero
// or less lists everything.
func (s *Store) ListLayouts(limit int) ([]Summary, error) {
	query := `SELECT id, seed, width, height, fingerprint, room_count, floor_cells, components, created_at
		FROM dungeons ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(s.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dungeons: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.ID, &sm.Seed, &sm.Width, &sm.Height, &sm.Fingerprint,
			&sm.RoomCount, &sm.FloorCells, &sm.Components, &sm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dungeon: %w", err)
		}
		summaries = append(summaries, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list dungeons: %w", err)
	}
	return summaries, nil
}

// DeleteLayout removes the layout with the given id.
func (s *Store) DeleteLayout(id int64) error {
	result, err := s.db.Exec(s.qb.Build("DELETE FROM dungeons WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete dungeon: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete dungeon: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of archived layouts.
func (s *Store) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM dungeons").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dungeons: %w", err)
	}
	return count, nil
}
