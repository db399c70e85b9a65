package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrisonrobin/tend/pkg/model"
	"github.com/harrisonrobin/tend/pkg/recurrence"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tasks.yaml"))
	require.NoError(t, err)
	return st
}

func TestCreateAssignsIdentity(t *testing.T) {
	st := tempStore(t)

	created, err := st.Create(model.Task{Title: "Buy milk", Project: "Groceries"})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateRejectsInvalidRule(t *testing.T) {
	st := tempStore(t)

	_, err := st.Create(model.Task{
		Title:      "Broken",
		Recurrence: &recurrence.Rule{Unit: recurrence.Daily, Interval: 0},
	})
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	st, err := Open(path)
	require.NoError(t, err)

	due := time.Date(2025, 3, 12, 18, 0, 0, 0, time.UTC)
	created, err := st.Create(model.Task{
		Title:    "Water plants",
		DueDate:  &due,
		Priority: model.PriorityMedium,
		Tags:     []string{"home"},
	})
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	tasks, err := reopened.FetchAll()
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	assert.Equal(t, created.ID, tasks[0].ID)
	assert.Equal(t, "Water plants", tasks[0].Title)
	assert.Equal(t, model.PriorityMedium, tasks[0].Priority)
	require.NotNil(t, tasks[0].DueDate)
	assert.True(t, tasks[0].DueDate.Equal(due))
}

func TestOpenRejectsMalformedRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	data := `version: 1
tasks:
  - id: bad
    title: Broken
    created_at: 2025-03-10T09:00:00Z
    recurrence:
      unit: month
      interval: 1
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	_, err := Open(path)
	assert.ErrorIs(t, err, recurrence.ErrInvalidRule)
}

func TestDelete(t *testing.T) {
	st := tempStore(t)
	created, err := st.Create(model.Task{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, st.Delete(created.ID))
	tasks, err := st.FetchAll()
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, st.Delete("nope"), ErrNotFound)
}

func TestRescheduleClearsStaleSlot(t *testing.T) {
	st := tempStore(t)
	slot := time.Date(2025, 3, 9, 15, 0, 0, 0, time.UTC)
	created, err := st.Create(model.Task{Title: "Call dentist", ScheduledTime: &slot})
	require.NoError(t, err)

	newDue := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.Reschedule(created.ID, newDue))

	tasks, err := st.FetchAll()
	require.NoError(t, err)
	require.NotNil(t, tasks[0].DueDate)
	assert.True(t, tasks[0].DueDate.Equal(newDue))
	assert.Nil(t, tasks[0].ScheduledTime, "the old slot must not linger and re-trigger overdue")
}

func TestCompleteNonRecurring(t *testing.T) {
	st := tempStore(t)
	created, err := st.Create(model.Task{Title: "One-off"})
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	updated, err := st.Complete(created.ID, now)
	require.NoError(t, err)

	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, updated.CompletedAt.Equal(now))
}

func TestCompleteRecurringRegenerates(t *testing.T) {
	st := tempStore(t)
	rule, err := recurrence.NewDaily(3)
	require.NoError(t, err)

	due := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	created, err := st.Create(model.Task{Title: "Stretch", DueDate: &due, Recurrence: rule})
	require.NoError(t, err)

	updated, err := st.Complete(created.ID, due.Add(2*time.Hour))
	require.NoError(t, err)

	assert.False(t, updated.Completed, "a recurring task stays pending")
	assert.Nil(t, updated.CompletedAt)
	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(due.AddDate(0, 0, 3)), "due date advances one interval")
}

func TestCompleteAfterCompletionRule(t *testing.T) {
	st := tempStore(t)
	rule, err := recurrence.NewAfterCompletion(3)
	require.NoError(t, err)

	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	created, err := st.Create(model.Task{Title: "Mow lawn", DueDate: &due, Recurrence: rule})
	require.NoError(t, err)

	// Completed well past the due date; the next instance counts from
	// the completion, not the calendar.
	completedAt := time.Date(2025, 3, 10, 16, 0, 0, 0, time.UTC)
	updated, err := st.Complete(created.ID, completedAt)
	require.NoError(t, err)

	require.NotNil(t, updated.DueDate)
	assert.True(t, updated.DueDate.Equal(completedAt.AddDate(0, 0, 3)))
}

func TestFetchAllReturnsSnapshot(t *testing.T) {
	st := tempStore(t)
	_, err := st.Create(model.Task{Title: "Original"})
	require.NoError(t, err)

	tasks, err := st.FetchAll()
	require.NoError(t, err)
	tasks[0].Title = "Mutated"

	again, err := st.FetchAll()
	require.NoError(t, err)
	assert.Equal(t, "Original", again[0].Title)
}
