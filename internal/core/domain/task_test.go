package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referenceTime = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestTask(t *testing.T, mutate ...func(*TaskParams)) Task {
	t.Helper()

	title, err := NewTitle("Buy milk")
	require.NoError(t, err)

	params := TaskParams{
		Title:     title,
		CreatedAt: referenceTime,
	}

	for _, m := range mutate {
		m(&params)
	}

	task, err := NewTask(params)
	require.NoError(t, err)

	return task
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func TestNewTask(t *testing.T) {
	t.Run("should default priority to medium", func(t *testing.T) {
		task := newTestTask(t)

		assert.Equal(t, PriorityMedium, task.Priority())
		assert.False(t, task.Completed())

		_, hasID := task.ID()
		assert.False(t, hasID)

		_, hasDue := task.DueDate()
		assert.False(t, hasDue)
	})

	t.Run("should reject a due date before creation", func(t *testing.T) {
		title, _ := NewTitle("Buy milk")

		_, err := NewTask(TaskParams{
			Title:     title,
			CreatedAt: referenceTime,
			DueDate:   timePtr(referenceTime.Add(-time.Minute)),
		})

		assert.ErrorIs(t, err, ErrDueDateBeforeCreation)
		assert.ErrorIs(t, err, ErrValidation)

		var invariantErr *InvariantError
		require.ErrorAs(t, err, &invariantErr)
		assert.Equal(t, "due_date", invariantErr.Field)
	})

	t.Run("should accept a due date equal to creation", func(t *testing.T) {
		task := newTestTask(t, func(p *TaskParams) { p.DueDate = timePtr(referenceTime) })

		due, ok := task.DueDate()
		assert.True(t, ok)
		assert.True(t, due.Equal(referenceTime))
	})

	t.Run("should reject a blank title", func(t *testing.T) {
		_, err := NewTask(TaskParams{CreatedAt: referenceTime})

		assert.ErrorIs(t, err, ErrInvalidTitle)
	})

	t.Run("should reject an unknown priority", func(t *testing.T) {
		title, _ := NewTitle("Buy milk")

		_, err := NewTask(TaskParams{Title: title, CreatedAt: referenceTime, Priority: "urgent"})

		assert.ErrorIs(t, err, ErrInvalidPriority)
	})

	t.Run("should not share the due date pointer with the caller", func(t *testing.T) {
		due := referenceTime.Add(time.Hour)
		task := newTestTask(t, func(p *TaskParams) { p.DueDate = &due })

		due = due.Add(time.Hour)

		stored, _ := task.DueDate()
		assert.True(t, stored.Equal(referenceTime.Add(time.Hour)))
	})
}

func TestTask_Toggle(t *testing.T) {
	t.Run("should flip the completed flag without touching the receiver", func(t *testing.T) {
		task := newTestTask(t)
		toggled := task.Toggle()

		assert.True(t, toggled.Completed())
		assert.False(t, task.Completed())
	})

	t.Run("should be self-inverse", func(t *testing.T) {
		for _, completed := range []bool{true, false} {
			task := newTestTask(t, func(p *TaskParams) { p.Completed = completed })

			assert.Equal(t, completed, task.Toggle().Toggle().Completed())
		}
	})
}

func TestTask_Complete(t *testing.T) {
	t.Run("should complete an active task", func(t *testing.T) {
		task := newTestTask(t)
		require.True(t, task.CanBeCompleted())

		completed, err := task.Complete()

		require.NoError(t, err)
		assert.True(t, completed.Completed())
		assert.False(t, completed.CanBeCompleted())
		assert.False(t, task.Completed())
	})

	t.Run("should fail on an already completed task", func(t *testing.T) {
		task := newTestTask(t, func(p *TaskParams) { p.Completed = true })

		_, err := task.Complete()

		assert.ErrorIs(t, err, ErrAlreadyCompleted)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestTask_Updates(t *testing.T) {
	id := MustParseID("65a1f0c2e4b0a1b2c3d4e5f6")
	original := newTestTask(t, func(p *TaskParams) {
		p.Priority = PriorityLow
		p.DueDate = timePtr(referenceTime.Add(48 * time.Hour))
	}).WithID(id)

	t.Run("WithTitle should only replace the title", func(t *testing.T) {
		title, _ := NewTitle("Buy bread")
		updated := original.WithTitle(title)

		assert.Equal(t, "Buy bread", updated.Title().String())
		assert.Equal(t, "Buy milk", original.Title().String())
		assert.Equal(t, original.Priority(), updated.Priority())
		assert.True(t, updated.Equals(original))
	})

	t.Run("WithPriority should only replace the priority", func(t *testing.T) {
		updated := original.WithPriority(PriorityHigh)

		assert.Equal(t, PriorityHigh, updated.Priority())
		assert.Equal(t, PriorityLow, original.Priority())
		assert.Equal(t, original.Title(), updated.Title())
	})

	t.Run("WithDueDate(nil) should clear the due date", func(t *testing.T) {
		updated := original.WithDueDate(nil)

		_, hasDue := updated.DueDate()
		assert.False(t, hasDue)

		_, originalHasDue := original.DueDate()
		assert.True(t, originalHasDue)
	})
}

func TestTask_IsOverdue(t *testing.T) {
	now := referenceTime.Add(8 * 24 * time.Hour)

	tests := []struct {
		name     string
		mutate   func(*TaskParams)
		expected bool
	}{
		{"no due date and older than seven days", func(p *TaskParams) {}, true},
		{"no due date and exactly seven days old", func(p *TaskParams) { p.CreatedAt = now.Add(-OverdueAfter) }, false},
		{"no due date and recent", func(p *TaskParams) { p.CreatedAt = now.Add(-time.Hour) }, false},
		{"due date in the past", func(p *TaskParams) { p.DueDate = timePtr(now.Add(-time.Minute)) }, true},
		{"due date in the future", func(p *TaskParams) { p.DueDate = timePtr(now.Add(time.Minute)) }, false},
		{"completed with past due date", func(p *TaskParams) {
			p.Completed = true
			p.DueDate = timePtr(now.Add(-time.Minute))
		}, false},
		{"completed and old", func(p *TaskParams) { p.Completed = true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTestTask(t, tt.mutate)

			assert.Equal(t, tt.expected, task.IsOverdue(now))
		})
	}

	t.Run("should stop being overdue once completed", func(t *testing.T) {
		task := newTestTask(t)
		require.True(t, task.IsOverdue(now))

		completed, err := task.Complete()
		require.NoError(t, err)

		assert.False(t, completed.IsOverdue(now))
	})
}

func TestTask_Equals(t *testing.T) {
	a := newTestTask(t)
	b := newTestTask(t)

	assert.False(t, a.Equals(b), "tasks without id are never equal")
	assert.False(t, a.Equals(a), "a task without id is not equal to itself")

	id := MustParseID("65a1f0c2e4b0a1b2c3d4e5f6")
	title, _ := NewTitle("Different title")

	assert.True(t, a.WithID(id).Equals(b.WithTitle(title).WithID(id)))
	assert.False(t, a.WithID(id).Equals(b))
}

func TestRehydrateTask(t *testing.T) {
	title, _ := NewTitle("Stored task")
	id := MustParseID("0123456789abcdef0123456789abcdef")

	task, err := RehydrateTask(id, TaskParams{
		Title:     title,
		Completed: true,
		CreatedAt: referenceTime,
		Priority:  PriorityHigh,
	})

	require.NoError(t, err)

	storedID, ok := task.ID()
	require.True(t, ok)
	assert.Equal(t, IDFormatHex32, storedID.Format())
	assert.True(t, task.Completed())
	assert.Equal(t, PriorityHigh, task.Priority())
}

func TestComputeStats(t *testing.T) {
	now := referenceTime.Add(8 * 24 * time.Hour)

	tasks := []Task{
		newTestTask(t),
		newTestTask(t, func(p *TaskParams) { p.Completed = true; p.Priority = PriorityHigh }),
		newTestTask(t, func(p *TaskParams) { p.Priority = PriorityHigh; p.DueDate = timePtr(now.Add(time.Hour)) }),
	}

	stats := ComputeStats(tasks, now)

	assert.Equal(t, TaskStats{Total: 3, Active: 2, Completed: 1, Overdue: 1, HighPriority: 2}, stats)
	assert.Equal(t, TaskStats{}, ComputeStats(nil, now))
}
