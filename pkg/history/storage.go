// Package history records completed reviews in SQLite and derives the
// review streak from them. It is the scheduling collaborator the review
// engine notifies when a session finishes.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harrisonrobin/tend/pkg/clock"
)

//go:embed schema.sql
var schemaSQL string

// Review is one completed review session.
type Review struct {
	ID          int64
	CompletedAt time.Time
	Deleted     int
	Rescheduled int
	Kept        int
}

// Storage handles SQLite operations for review history.
type Storage struct {
	db *sql.DB
}

// NewStorage opens (creating if needed) the history database at dbPath.
func NewStorage(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_fk=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Storage{db: db}, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// ReviewCompleted records a finished review. It satisfies the review
// engine's Notifier interface.
func (s *Storage) ReviewCompleted(completedAt time.Time, deleted, rescheduled, kept int) error {
	_, err := s.db.Exec(
		`INSERT INTO reviews (completed_at, deleted, rescheduled, kept) VALUES (?, ?, ?, ?)`,
		completedAt.Format(time.RFC3339), deleted, rescheduled, kept,
	)
	if err != nil {
		return fmt.Errorf("failed to record review: %w", err)
	}
	return nil
}

// Recent returns the most recent reviews, newest first.
func (s *Storage) Recent(limit int) ([]Review, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT id, completed_at, deleted, rescheduled, kept FROM reviews ORDER BY completed_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		var completedAt string
		if err := rows.Scan(&r.ID, &completedAt, &r.Deleted, &r.Rescheduled, &r.Kept); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		t, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at %q: %w", completedAt, err)
		}
		r.CompletedAt = t.Local()
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// LastReviewed returns the completion time of the most recent review.
// The second return is false when no review has ever been completed.
func (s *Storage) LastReviewed() (time.Time, bool, error) {
	var completedAt string
	err := s.db.QueryRow(`SELECT completed_at FROM reviews ORDER BY completed_at DESC LIMIT 1`).Scan(&completedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last-reviewed query failed: %w", err)
	}
	t, err := time.Parse(time.RFC3339, completedAt)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse completed_at %q: %w", completedAt, err)
	}
	return t.Local(), true, nil
}

// Streak counts consecutive calendar days with at least one completed
// review, ending today or yesterday relative to now. A day with several
// reviews counts once; a gap of one full day breaks the streak.
func (s *Storage) Streak(now time.Time) (int, error) {
	rows, err := s.db.Query(`SELECT completed_at FROM reviews ORDER BY completed_at DESC`)
	if err != nil {
		return 0, fmt.Errorf("streak query failed: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var completedAt string
		if err := rows.Scan(&completedAt); err != nil {
			return 0, fmt.Errorf("scan failed: %w", err)
		}
		t, err := time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return 0, fmt.Errorf("failed to parse completed_at %q: %w", completedAt, err)
		}
		// Bucket days in now's location so "same day" means the same
		// thing for stored rows and the caller's clock.
		day := clock.StartOfDay(t.In(now.Location()))
		if len(days) == 0 || !days[len(days)-1].Equal(day) {
			days = append(days, day)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(days) == 0 {
		return 0, nil
	}

	// The streak is alive if the latest review day is today or
	// yesterday; reviewing later today keeps it going either way.
	expect := clock.StartOfDay(now)
	if !days[0].Equal(expect) {
		expect = expect.AddDate(0, 0, -1)
		if !days[0].Equal(expect) {
			return 0, nil
		}
	}

	streak := 0
	for _, day := range days {
		if !day.Equal(expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak, nil
}
