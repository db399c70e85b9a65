// Package store persists tasks in a YAML manifest under the user's
// config directory. Writes are atomic (temp file + rename) so a crash
// never leaves a half-written task list behind.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/recurrence"
)

// ErrNotFound is returned when a task ID does not resolve.
var ErrNotFound = errors.New("task not found")

type manifest struct {
	Version   int          `yaml:"version"`
	UpdatedAt time.Time    `yaml:"updated_at"`
	Tasks     []model.Task `yaml:"tasks"`
}

// Store is a file-backed task store. Safe for use from a single process;
// the lock serializes mutations against the save path.
type Store struct {
	path string

	mu sync.Mutex
	m  manifest
}

// Open loads the manifest at path, or starts an empty one if the file
// does not exist yet. Tasks carrying malformed recurrence rules fail the
// load outright; bad rules are rejected at the boundary, never carried
// into the engine.
func Open(path string) (*Store, error) {
	s := &Store{path: path, m: manifest{Version: 1}}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read task manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.m); err != nil {
		return nil, fmt.Errorf("failed to parse task manifest: %w", err)
	}
	for i := range s.m.Tasks {
		if r := s.m.Tasks[i].Recurrence; r != nil {
			if err := r.Validate(); err != nil {
				return nil, fmt.Errorf("task %s: %w", s.m.Tasks[i].ID, err)
			}
		}
	}
	return s, nil
}

// Path returns the manifest location.
func (s *Store) Path() string { return s.path }

// FetchAll returns a snapshot of every task.
func (s *Store) FetchAll() ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, len(s.m.Tasks))
	copy(out, s.m.Tasks)
	return out, nil
}

// Create validates and persists a new task, assigning an ID and creation
// time when absent. The stored task is returned.
func (s *Store) Create(t model.Task) (model.Task, error) {
	if t.Title == "" {
		return model.Task{}, fmt.Errorf("task needs a title")
	}
	if t.Recurrence != nil {
		if err := t.Recurrence.Validate(); err != nil {
			return model.Task{}, err
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.m.Tasks = append(s.m.Tasks, t)
	if err := s.save(); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

// Delete removes a task by ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.m.Tasks {
		if s.m.Tasks[i].ID == id {
			s.m.Tasks = append(s.m.Tasks[:i], s.m.Tasks[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("delete %s: %w", id, ErrNotFound)
}

// Reschedule moves a task's due date. Any scheduled slot is cleared: the
// old slot is obsolete once the task has been deliberately re-dated, and
// a stale past slot would immediately re-classify the task as overdue.
func (s *Store) Reschedule(id string, due time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.find(id)
	if t == nil {
		return fmt.Errorf("reschedule %s: %w", id, ErrNotFound)
	}
	t.DueDate = &due
	t.ScheduledTime = nil
	return s.save()
}

// Complete finishes a task. A non-recurring task is marked completed. A
// recurring task regenerates instead: its due date advances to the
// rule's next occurrence and it stays pending. Calendar rules advance
// past the current due date (anchored there, so the repetition phase is
// preserved); after-completion rules advance from the completion instant
// itself. The updated task is returned.
func (s *Store) Complete(id string, now time.Time) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.find(id)
	if t == nil {
		return model.Task{}, fmt.Errorf("complete %s: %w", id, ErrNotFound)
	}

	if t.Recurrence == nil {
		t.Completed = true
		t.CompletedAt = &now
	} else {
		ref := clock.StartOfDay(now)
		if t.DueDate != nil {
			ref = *t.DueDate
		}
		var next time.Time
		if t.Recurrence.Unit == recurrence.AfterCompletion {
			next = t.Recurrence.NextOccurrence(now, now)
		} else {
			next = t.Recurrence.NextOccurrence(ref, ref)
		}
		t.DueDate = &next
		t.ScheduledTime = nil
		t.Completed = false
		t.CompletedAt = nil
	}

	if err := s.save(); err != nil {
		return model.Task{}, err
	}
	return *t, nil
}

func (s *Store) find(id string) *model.Task {
	for i := range s.m.Tasks {
		if s.m.Tasks[i].ID == id {
			return &s.m.Tasks[i]
		}
	}
	return nil
}

// save writes the manifest atomically. Caller holds the lock.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	s.m.UpdatedAt = time.Now()
	data, err := yaml.Marshal(&s.m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename manifest: %w", err)
	}
	return nil
}
