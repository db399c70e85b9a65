// Package review drives the periodic triage flow over incomplete and
// overdue tasks: a linear state machine from a celebration screen
// through per-task dispositions to a summary tally.
package review

import (
	"fmt"
	"log"
	"time"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/temporal"
)

// Disposition is the action applied to a single task during the
// incomplete and overdue steps.
type Disposition int

const (
	Delete Disposition = iota
	MoveToNextWeek
	RescheduleToTomorrow
	Keep
)

func (d Disposition) String() string {
	switch d {
	case Delete:
		return "delete"
	case MoveToNextWeek:
		return "move-to-next-week"
	case RescheduleToTomorrow:
		return "reschedule-to-tomorrow"
	case Keep:
		return "keep"
	default:
		return "unknown"
	}
}

// Store is the slice of the task store the review engine mutates
// through. Failures are logged and never block triage.
type Store interface {
	Delete(id string) error
	Reschedule(id string, due time.Time) error
}

// Notifier receives the completed-review signal for streak bookkeeping.
type Notifier interface {
	ReviewCompleted(completedAt time.Time, deleted, rescheduled, kept int) error
}

// Tally is the aggregate outcome of a session. Counters only ever grow
// while the session is alive. Because store failures do not roll them
// back, they are best-effort analytics rather than a durable ledger.
type Tally struct {
	Deleted     int
	Rescheduled int
	Kept        int
}

// Session is one run of the review flow. It owns working copies of the
// task subsets, seeded once at construction and never re-queried, so
// concurrent store changes cannot surprise a triage in progress. Working
// sets only shrink; a session is for a single caller and is simply
// discarded if abandoned.
type Session struct {
	clk      clock.Clock
	store    Store
	notifier Notifier

	step       Step
	incomplete []model.Task
	overdue    []model.Task
	upcoming   []model.Task

	tally     Tally
	completed bool
}

// NewSession seeds a session from a snapshot of the live task set.
// Completed tasks are ignored. The remainder is split by classification:
// overdue tasks, upcoming tasks (anything dated within the next week),
// and incomplete tasks (the undated, flexible rest).
func NewSession(tasks []model.Task, store Store, notifier Notifier, clk clock.Clock) *Session {
	s := &Session{
		clk:      clk,
		store:    store,
		notifier: notifier,
		step:     StepCelebrate,
	}
	now := clk.Now()
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		switch c := temporal.Classify(t, now); c.Urgency {
		case temporal.Overdue:
			s.overdue = append(s.overdue, t)
		case temporal.Flexible:
			s.incomplete = append(s.incomplete, t)
		default:
			s.upcoming = append(s.upcoming, t)
		}
	}
	return s
}

// Step returns the current step.
func (s *Session) Step() Step { return s.step }

// GoToNextStep advances one step; no-op at summary.
func (s *Session) GoToNextStep() { s.step = s.step.Next() }

// GoToPreviousStep retreats one step; no-op at celebrate.
func (s *Session) GoToPreviousStep() { s.step = s.step.Previous() }

// GoToStep jumps to an arbitrary step without touching the working sets.
func (s *Session) GoToStep(target Step) { s.step = target }

// IncompleteTasks returns the remaining incomplete working set.
func (s *Session) IncompleteTasks() []model.Task { return s.incomplete }

// OverdueTasks returns the remaining overdue working set.
func (s *Session) OverdueTasks() []model.Task { return s.overdue }

// UpcomingTasks returns the upcoming set. It is informational; no
// dispositions apply to it.
func (s *Session) UpcomingTasks() []model.Task { return s.upcoming }

// Tally returns the session counters so far.
func (s *Session) Tally() Tally { return s.tally }

// Completed reports whether CompleteReview has run.
func (s *Session) Completed() bool { return s.completed }

// Apply executes one disposition against a task in the current step's
// working set. Only the incomplete and overdue steps accept
// dispositions. Keep is asymmetric between them: an incomplete task
// keeps whatever date it has, while an overdue task is rescheduled to
// the start of today so it cannot re-trigger the same review state.
//
// Store failures are logged and swallowed: the task still leaves the
// working set and the counter still increments, so the user's action
// completes even when persistence needs a retry later.
func (s *Session) Apply(taskID string, d Disposition) error {
	var set *[]model.Task
	switch s.step {
	case StepIncomplete:
		set = &s.incomplete
	case StepOverdue:
		set = &s.overdue
	default:
		return fmt.Errorf("disposition %s not allowed in step %s", d, s.step)
	}

	idx := -1
	for i := range *set {
		if (*set)[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("task %s is not in the %s working set", taskID, s.step)
	}

	now := s.clk.Now()
	switch d {
	case Delete:
		if err := s.store.Delete(taskID); err != nil {
			log.Printf("review: delete task %s: %v", taskID, err)
		}
		s.tally.Deleted++
	case MoveToNextWeek:
		s.reschedule(taskID, now.AddDate(0, 0, 7))
		s.tally.Rescheduled++
	case RescheduleToTomorrow:
		s.reschedule(taskID, now.AddDate(0, 0, 1))
		s.tally.Rescheduled++
	case Keep:
		if s.step == StepOverdue {
			s.reschedule(taskID, s.clk.StartOfDay(now))
		}
		s.tally.Kept++
	default:
		return fmt.Errorf("unknown disposition %d", d)
	}

	*set = append((*set)[:idx], (*set)[idx+1:]...)
	return nil
}

// SkipIncomplete keeps every remaining incomplete task untouched and
// advances to the next step.
func (s *Session) SkipIncomplete() {
	if s.step != StepIncomplete {
		return
	}
	s.tally.Kept += len(s.incomplete)
	s.incomplete = nil
	s.GoToNextStep()
}

// SkipOverdue applies keep semantics to every remaining overdue task —
// each one is rescheduled to the start of today — and advances. No task
// leaves the review still dated in the past.
func (s *Session) SkipOverdue() {
	if s.step != StepOverdue {
		return
	}
	today := s.clk.StartOfDay(s.clk.Now())
	for _, t := range s.overdue {
		s.reschedule(t.ID, today)
		s.tally.Kept++
	}
	s.overdue = nil
	s.GoToNextStep()
}

// CompleteReview ends the session and notifies the scheduling
// collaborator exactly once; repeat calls are no-ops so a streak cannot
// be double-counted.
func (s *Session) CompleteReview() error {
	if s.completed {
		return nil
	}
	s.completed = true
	s.step = StepSummary
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.ReviewCompleted(s.clk.Now(), s.tally.Deleted, s.tally.Rescheduled, s.tally.Kept); err != nil {
		return fmt.Errorf("review completion notification failed: %w", err)
	}
	return nil
}

func (s *Session) reschedule(taskID string, due time.Time) {
	if err := s.store.Reschedule(taskID, due); err != nil {
		log.Printf("review: reschedule task %s: %v", taskID, err)
	}
}
