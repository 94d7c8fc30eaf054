package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/mapper"
	"taskapp/internal/core/model/response"
	"taskapp/pkg/test/factory"
)

func TestToRecord(t *testing.T) {
	id := domain.MustParseID("0123456789abcdef0123456789abcdef")
	task := factory.NewTask(map[string]any{"Title": "Buy milk", "Priority": "high", "DueInDays": 2}).WithID(id)

	record := mapper.ToRecord(task)

	assert.Equal(t, id.String(), record.ID)
	assert.Equal(t, "Buy milk", record.Title)
	assert.Equal(t, "high", record.Priority)
	assert.False(t, record.Completed)
	assert.Equal(t, "2025-01-15T09:30:00Z", record.CreatedAt)
	require.NotNil(t, record.DueDate)
	assert.Equal(t, "2025-01-17T09:30:00Z", *record.DueDate)
}

func TestToRecord_AbsentOptionalFields(t *testing.T) {
	record := mapper.ToRecord(factory.NewTask())

	assert.Empty(t, record.ID)
	assert.Nil(t, record.DueDate)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		task domain.Task
	}{
		{
			name: "should keep all fields",
			task: factory.NewTask(map[string]any{"Title": "Full", "Priority": "low", "Completed": true, "DueInDays": 5}).
				WithID(domain.MustParseID("65a1b2c3d4e5f60718293a4b")),
		},
		{
			name: "should keep absent due date absent",
			task: factory.NewTask(map[string]any{"Title": "No due"}).
				WithID(domain.MustParseID("0123456789abcdef0123456789abcdef")),
		},
		{
			name: "should keep absent id absent",
			task: factory.NewTask(map[string]any{"Title": "No id"}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back, err := mapper.FromRecord(mapper.ToRecord(tt.task))
			require.NoError(t, err)

			wantID, wantHasID := tt.task.ID()
			gotID, gotHasID := back.ID()
			assert.Equal(t, wantHasID, gotHasID)
			assert.Equal(t, wantID.String(), gotID.String())
			assert.Equal(t, wantID.Format(), gotID.Format())

			assert.Equal(t, tt.task.Title(), back.Title())
			assert.Equal(t, tt.task.Completed(), back.Completed())
			assert.Equal(t, tt.task.Priority(), back.Priority())
			assert.True(t, tt.task.CreatedAt().Equal(back.CreatedAt()))

			wantDue, wantHasDue := tt.task.DueDate()
			gotDue, gotHasDue := back.DueDate()
			assert.Equal(t, wantHasDue, gotHasDue)
			assert.True(t, wantDue.Equal(gotDue))
		})
	}
}

func TestFromRecord_Invalid(t *testing.T) {
	valid := response.TaskRecord{Title: "Valid", Priority: "medium", CreatedAt: "2025-01-15T09:30:00Z"}

	tests := []struct {
		name   string
		mutate func(*response.TaskRecord)
		target error
	}{
		{"should reject short title", func(r *response.TaskRecord) { r.Title = "x" }, domain.ErrInvalidTitle},
		{"should reject unknown priority", func(r *response.TaskRecord) { r.Priority = "urgent" }, domain.ErrInvalidPriority},
		{"should reject bad created_at", func(r *response.TaskRecord) { r.CreatedAt = "yesterday" }, domain.ErrValidation},
		{"should reject bad id", func(r *response.TaskRecord) { r.ID = "nope" }, domain.ErrInvalidID},
		{"should reject due before creation", func(r *response.TaskRecord) {
			due := "2025-01-01T00:00:00Z"
			r.DueDate = &due
		}, domain.ErrDueDateBeforeCreation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			tt.mutate(&record)

			_, err := mapper.FromRecord(record)

			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestToRecords(t *testing.T) {
	records := mapper.ToRecords([]domain.Task{factory.NewTask(), factory.NewTask(map[string]any{"Title": "Other"})})

	require.Len(t, records, 2)
	assert.Equal(t, "Other", records[1].Title)
	assert.NotNil(t, mapper.ToRecords(nil))
}
