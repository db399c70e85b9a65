package review

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/tend/pkg/clock"
	"github.com/harrisonrobin/tend/pkg/model"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func ts(t time.Time) *time.Time { return &t }

type fakeStore struct {
	deleted     []string
	rescheduled map[string]time.Time

	failDelete     bool
	failReschedule bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{rescheduled: make(map[string]time.Time)}
}

func (f *fakeStore) Delete(id string) error {
	if f.failDelete {
		return errors.New("store unavailable")
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) Reschedule(id string, due time.Time) error {
	if f.failReschedule {
		return errors.New("store unavailable")
	}
	f.rescheduled[id] = due
	return nil
}

type fakeNotifier struct {
	calls int
	tally Tally
}

func (f *fakeNotifier) ReviewCompleted(_ time.Time, deleted, rescheduled, kept int) error {
	f.calls++
	f.tally = Tally{Deleted: deleted, Rescheduled: rescheduled, Kept: kept}
	return nil
}

// seedTasks builds 2 undated (incomplete), 3 overdue, 1 upcoming, and 1
// completed task.
func seedTasks() []model.Task {
	return []model.Task{
		{ID: "flex-1", Title: "someday"},
		{ID: "flex-2", Title: "maybe"},
		{ID: "over-1", Title: "late", DueDate: ts(now.AddDate(0, 0, -2))},
		{ID: "over-2", Title: "later", DueDate: ts(now.AddDate(0, 0, -5))},
		{ID: "over-3", Title: "latest", ScheduledTime: ts(now.Add(-time.Hour))},
		{ID: "up-1", Title: "soon", DueDate: ts(now.AddDate(0, 0, 2))},
		{ID: "done-1", Title: "finished", Completed: true},
	}
}

func newTestSession(store Store, notifier Notifier) *Session {
	return NewSession(seedTasks(), store, notifier, clock.Fixed{Instant: now})
}

func TestSessionSeeding(t *testing.T) {
	s := newTestSession(newFakeStore(), &fakeNotifier{})

	assert.Equal(t, StepCelebrate, s.Step())
	assert.Len(t, s.IncompleteTasks(), 2)
	assert.Len(t, s.OverdueTasks(), 3)
	assert.Len(t, s.UpcomingTasks(), 1)
}

func TestStepTransitions(t *testing.T) {
	s := newTestSession(newFakeStore(), &fakeNotifier{})

	s.GoToPreviousStep()
	assert.Equal(t, StepCelebrate, s.Step(), "previous at the initial step is a no-op")

	s.GoToNextStep()
	assert.Equal(t, StepIncomplete, s.Step())

	s.GoToStep(StepSummary)
	assert.Equal(t, StepSummary, s.Step())

	s.GoToNextStep()
	assert.Equal(t, StepSummary, s.Step(), "next at the terminal step is a no-op")

	s.GoToStep(StepOverdue)
	assert.Len(t, s.OverdueTasks(), 3, "jumping does not reset working sets")
}

func TestDispositionsOnlyInTriageSteps(t *testing.T) {
	s := newTestSession(newFakeStore(), &fakeNotifier{})

	err := s.Apply("over-1", Delete)
	assert.Error(t, err, "celebrate step accepts no dispositions")

	s.GoToStep(StepOverdue)
	assert.Error(t, s.Apply("flex-1", Keep), "task from another working set is rejected")
	assert.NoError(t, s.Apply("over-1", Keep))
}

func TestOverdueTriageScenario(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(store, &fakeNotifier{})
	s.GoToStep(StepOverdue)

	require.NoError(t, s.Apply("over-1", Delete))
	require.NoError(t, s.Apply("over-2", RescheduleToTomorrow))
	require.NoError(t, s.Apply("over-3", Keep))

	tally := s.Tally()
	assert.Equal(t, 1, tally.Deleted)
	assert.Equal(t, 1, tally.Rescheduled)
	assert.Equal(t, 1, tally.Kept)
	assert.Empty(t, s.OverdueTasks())

	assert.Equal(t, []string{"over-1"}, store.deleted)
	assert.Equal(t, now.AddDate(0, 0, 1), store.rescheduled["over-2"])
	assert.Equal(t, clock.StartOfDay(now), store.rescheduled["over-3"],
		"keep in the overdue step reschedules to the start of today")
}

func TestKeepInIncompleteStepLeavesDateAlone(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(store, &fakeNotifier{})
	s.GoToStep(StepIncomplete)

	require.NoError(t, s.Apply("flex-1", Keep))
	require.NoError(t, s.Apply("flex-2", MoveToNextWeek))

	assert.Empty(t, store.deleted)
	assert.NotContains(t, store.rescheduled, "flex-1", "keep on an incomplete task issues no mutation")
	assert.Equal(t, now.AddDate(0, 0, 7), store.rescheduled["flex-2"])
	assert.Empty(t, s.IncompleteTasks())
	assert.Equal(t, Tally{Rescheduled: 1, Kept: 1}, s.Tally())
}

func TestSkipOverdueReschedulesEverythingToToday(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(store, &fakeNotifier{})
	s.GoToStep(StepOverdue)

	s.SkipOverdue()

	assert.Empty(t, s.OverdueTasks())
	assert.Equal(t, StepUpcoming, s.Step())
	today := clock.StartOfDay(now)
	for _, id := range []string{"over-1", "over-2", "over-3"} {
		assert.Equal(t, today, store.rescheduled[id], "%s must leave the review dated today", id)
	}
	assert.Equal(t, 3, s.Tally().Kept)
}

func TestSkipIncompleteTouchesNothing(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(store, &fakeNotifier{})
	s.GoToStep(StepIncomplete)

	s.SkipIncomplete()

	assert.Empty(t, s.IncompleteTasks())
	assert.Equal(t, StepOverdue, s.Step())
	assert.Empty(t, store.rescheduled)
	assert.Empty(t, store.deleted)
	assert.Equal(t, 2, s.Tally().Kept)
}

func TestEveryTaskGetsExactlyOneDisposition(t *testing.T) {
	store := newFakeStore()
	s := newTestSession(store, &fakeNotifier{})

	initial := len(s.IncompleteTasks()) + len(s.OverdueTasks())

	s.GoToStep(StepIncomplete)
	require.NoError(t, s.Apply("flex-1", Delete))
	s.SkipIncomplete()
	require.NoError(t, s.Apply("over-1", RescheduleToTomorrow))
	s.SkipOverdue()

	tally := s.Tally()
	assert.Equal(t, initial, tally.Deleted+tally.Rescheduled+tally.Kept)
}

func TestStoreFailuresDoNotBlockTriage(t *testing.T) {
	store := newFakeStore()
	store.failDelete = true
	store.failReschedule = true

	s := newTestSession(store, &fakeNotifier{})
	s.GoToStep(StepOverdue)

	require.NoError(t, s.Apply("over-1", Delete), "a failed delete must not surface")
	require.NoError(t, s.Apply("over-2", RescheduleToTomorrow), "a failed reschedule must not surface")

	assert.Len(t, s.OverdueTasks(), 1, "the tasks still leave the working set")
	tally := s.Tally()
	assert.Equal(t, 1, tally.Deleted)
	assert.Equal(t, 1, tally.Rescheduled)
}

func TestCompleteReviewNotifiesOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	s := newTestSession(newFakeStore(), notifier)

	s.GoToStep(StepIncomplete)
	s.SkipIncomplete()
	s.SkipOverdue()

	require.NoError(t, s.CompleteReview())
	require.NoError(t, s.CompleteReview(), "second call is a no-op")

	assert.Equal(t, 1, notifier.calls, "the streak must not be double-counted")
	assert.Equal(t, StepSummary, s.Step())
	assert.True(t, s.Completed())
	assert.Equal(t, Tally{Kept: 5}, notifier.tally)
}

func TestEmptySessionIsValid(t *testing.T) {
	s := NewSession(nil, newFakeStore(), &fakeNotifier{}, clock.Fixed{Instant: now})

	assert.Empty(t, s.IncompleteTasks())
	assert.Empty(t, s.OverdueTasks())
	assert.Empty(t, s.UpcomingTasks())

	s.GoToStep(StepIncomplete)
	s.SkipIncomplete()
	s.SkipOverdue()
	require.NoError(t, s.CompleteReview())
	assert.Equal(t, Tally{}, s.Tally())
}
