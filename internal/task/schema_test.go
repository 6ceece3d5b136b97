package task_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasktracker/internal/task"
)

func TestDecodeInput(t *testing.T) {
	known := task.Categories("Errands")

	in, err := task.DecodeInput([]byte(`{"title":"Write report","priority":"High","dueDate":"2024-05-01","category":"errands"}`), known)

	require.NoError(t, err)
	assert.Equal(t, task.Input{
		Title:    "Write report",
		Priority: task.PriorityHigh,
		DueDate:  task.NewDate(2024, 5, 1),
		Category: "Errands",
	}, in)
}

func TestDecodeInput_Defaults(t *testing.T) {
	for _, body := range []string{
		`{"title":"x"}`,
		`{"title":"x","priority":"","dueDate":"","category":""}`,
		`{"title":"x","dueDate":null}`,
	} {
		in, err := task.DecodeInput([]byte(body), nil)
		require.NoError(t, err, body)
		assert.Equal(t, task.PriorityMedium, in.Priority, body)
		assert.Equal(t, task.CategoryGeneral, in.Category, body)
		assert.True(t, in.DueDate.IsZero(), body)
	}
}

func TestDecodeInput_BlankTitlePassesThrough(t *testing.T) {
	in, err := task.DecodeInput([]byte(`{"title":"   "}`), nil)
	require.NoError(t, err)

	_, _, err = task.New().Add(in)
	assert.ErrorIs(t, err, task.ErrEmptyTitle)
}

func TestDecodeInput_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed", `{"title":`, ""},
		{"missing title", `{"priority":"High"}`, ""},
		{"title not string", `{"title":5}`, "title"},
		{"unknown priority", `{"title":"x","priority":"Urgent"}`, "priority"},
		{"bad date", `{"title":"x","dueDate":"2024-13-01"}`, "dueDate"},
		{"date not string", `{"title":"x","dueDate":20240501}`, "dueDate"},
		{"extra field", `{"title":"x","owner":"me"}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := task.DecodeInput([]byte(tt.body), nil)

			require.Error(t, err)
			var ve *task.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestDecodeInput_PriorityIgnoresCase(t *testing.T) {
	for body, want := range map[string]task.Priority{
		`{"title":"x","priority":"high"}`:     task.PriorityHigh,
		`{"title":"x","priority":"LOW"}`:      task.PriorityLow,
		`{"title":"x","priority":" medium "}`: task.PriorityMedium,
	} {
		in, err := task.DecodeInput([]byte(body), nil)
		require.NoError(t, err, body)
		assert.Equal(t, want, in.Priority, body)
	}
}

func TestDecodeInput_UnknownPriority(t *testing.T) {
	_, err := task.DecodeInput([]byte(`{"title":"x","priority":"Urgent"}`), nil)

	assert.ErrorIs(t, err, task.ErrUnknownPriority)
}

func TestDecodeInput_InvalidDate(t *testing.T) {
	for _, date := range []string{"2024-02-30", "2023-02-29", "15/03/2024", "2024-5-1"} {
		_, err := task.DecodeInput([]byte(`{"title":"x","dueDate":"`+date+`"}`), nil)

		require.ErrorIs(t, err, task.ErrInvalidDate, date)
		var ve *task.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "dueDate", ve.Field, date)
	}
}

func TestDecodeInput_LongValues(t *testing.T) {
	title := strings.Repeat("a", 600)
	category := strings.Repeat("c", 65)

	in, err := task.DecodeInput([]byte(`{"title":"`+title+`","category":"`+category+`"}`), nil)
	require.NoError(t, err)
	assert.Equal(t, title, in.Title)
	assert.Equal(t, task.Category(category), in.Category)

	_, added, err := task.New().Add(in)
	require.NoError(t, err)
	assert.Equal(t, title, added.Title)
}

func TestInputSchemaIsEmbedded(t *testing.T) {
	assert.Contains(t, task.InputSchema(), `"required": ["title"]`)
}
