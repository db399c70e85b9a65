package model

import (
	"fmt"
	"time"

	"github.com/harrisonrobin/tend/pkg/recurrence"
)

// Priority is the explicit priority tier a user assigns to a task. It is
// distinct from Score, which is a derived ranking signal.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Tier returns the ordinal weight of the priority for ranking.
func (p Priority) Tier() int {
	switch p {
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ParsePriority maps a user-supplied string onto a Priority tier.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityNone, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	case "":
		return PriorityNone, nil
	default:
		return PriorityNone, fmt.Errorf("unknown priority %q (want none, medium, or high)", s)
	}
}

// Task is a single task record. The engine packages read and derive from
// tasks; only the store mutates them.
type Task struct {
	ID            string           `yaml:"id" json:"id"`
	Title         string           `yaml:"title" json:"title"`
	Project       string           `yaml:"project,omitempty" json:"project,omitempty"`
	Tags          []string         `yaml:"tags,omitempty" json:"tags,omitempty"`
	DueDate       *time.Time       `yaml:"due,omitempty" json:"due,omitempty"`
	ScheduledTime *time.Time       `yaml:"scheduled,omitempty" json:"scheduled,omitempty"`
	Completed     bool             `yaml:"completed,omitempty" json:"completed,omitempty"`
	Priority      Priority         `yaml:"priority,omitempty" json:"priority,omitempty"`
	Score         float64          `yaml:"score,omitempty" json:"score,omitempty"`
	Recurrence    *recurrence.Rule `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	CreatedAt     time.Time        `yaml:"created_at" json:"created_at"`
	CompletedAt   *time.Time       `yaml:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// EffectiveDate returns the instant the task is planned against: the
// scheduled slot when one exists, otherwise the due date, otherwise nil.
func (t *Task) EffectiveDate() *time.Time {
	if t.ScheduledTime != nil {
		return t.ScheduledTime
	}
	return t.DueDate
}

// Recurring reports whether the task regenerates on completion.
func (t *Task) Recurring() bool {
	return t.Recurrence != nil
}
