package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todo/internal/models"
)

var now = time.Date(2024, time.May, 10, 15, 30, 0, 0, time.Local)

func TestParseDueDate(t *testing.T) {
	testCases := []struct {
		in   string
		want models.Date
	}{
		{"2024-06-01", models.Day(2024, time.June, 1)},
		{"01/06/2024", models.Day(2024, time.June, 1)},
		{"tomorrow", models.Day(2024, time.May, 11)},
		{"Today", models.Day(2024, time.May, 10)},
		{"3 days", models.Day(2024, time.May, 13)},
		{"2w", models.Day(2024, time.May, 24)},
		{"1 week", models.Day(2024, time.May, 17)},
	}
	for _, tc := range testCases {
		got, err := ParseDueDate(tc.in, now)
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got.Time), "%s: got %s want %s", tc.in, got, tc.want)
	}
}

func TestParseDueDateRejects(t *testing.T) {
	for _, in := range []string{"", "31/02/2024", "13/13/2024", "0 days", "400 days", "someday"} {
		_, err := ParseDueDate(in, now)
		assert.Error(t, err, in)
	}
}

func TestValidateNewDue(t *testing.T) {
	assert.NoError(t, ValidateNewDue(models.Day(2024, time.May, 11), now))
	assert.NoError(t, ValidateNewDue(models.Day(2025, time.January, 1), now))
	assert.ErrorIs(t, ValidateNewDue(models.Day(2024, time.May, 10), now), ErrDueTooEarly)
	assert.Error(t, ValidateNewDue(models.Date{}, now))
}

func TestFormatDueDate(t *testing.T) {
	assert.Contains(t, FormatDueDate(models.Day(2024, time.May, 9), now), "OVERDUE")
	assert.Contains(t, FormatDueDate(models.Day(2024, time.May, 10), now), "Due today")
	assert.Contains(t, FormatDueDate(models.Day(2024, time.May, 11), now), "Due tomorrow")
	assert.Contains(t, FormatDueDate(models.Day(2024, time.May, 14), now), "in 4 days")
	assert.Equal(t, "", FormatDueDate(models.Date{}, now))
	assert.Equal(t, -1, DaysUntil(models.Day(2024, time.May, 9), now))
}

func TestParseTitle(t *testing.T) {
	parsed := ParseTitle("Buy milk +high due:tomorrow", now)
	assert.Empty(t, parsed.Errors)
	assert.Equal(t, "Buy milk", parsed.Task)
	assert.Equal(t, models.PriorityHigh, parsed.Priority)
	assert.True(t, parsed.DueDate.Equal(models.Day(2024, time.May, 11).Time))

	parsed = ParseTitle("Call C+ team", now)
	assert.Equal(t, "Call C+ team", parsed.Task)
	assert.Empty(t, parsed.Priority)
	assert.True(t, parsed.DueDate.IsZero())

	parsed = ParseTitle("Write report +urgent due:never", now)
	assert.Equal(t, "Write report", parsed.Task)
	assert.Len(t, parsed.Errors, 2)
}
