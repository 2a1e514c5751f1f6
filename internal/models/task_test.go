package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	testCases := []struct {
		in   string
		want Priority
	}{
		{"low", PriorityLow},
		{" HIGH ", PriorityHigh},
		{"medium", PriorityNormal},
		{"2", PriorityNormal},
		{"3", PriorityHigh},
	}
	for _, tc := range testCases {
		got, err := ParsePriority(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}

func TestPriorityRankAndCycle(t *testing.T) {
	assert.Less(t, PriorityLow.Rank(), PriorityNormal.Rank())
	assert.Less(t, PriorityNormal.Rank(), PriorityHigh.Rank())
	assert.Equal(t, -1, Priority("urgent").Rank())
	assert.False(t, Priority("").Valid())

	assert.Equal(t, PriorityNormal, PriorityLow.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
	assert.Equal(t, []Priority{PriorityLow, PriorityNormal, PriorityHigh}, Priorities())
}

func TestDateAcceptsBothLayouts(t *testing.T) {
	short, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, Day(2024, time.March, 1), short)

	var long Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T10:30:00Z"`), &long))
	assert.Equal(t, Day(2024, time.March, 1), long)

	// written east of UTC, read back anywhere: same calendar day
	tokyo := time.FixedZone("JST", 9*60*60)
	stored, err := json.Marshal(Date{time.Date(2024, time.June, 1, 0, 0, 0, 0, tokyo)})
	require.NoError(t, err)
	var reloaded Date
	require.NoError(t, json.Unmarshal(stored, &reloaded))
	assert.Equal(t, Day(2024, time.June, 1), reloaded)
	assert.Equal(t, "2024-06-01", reloaded.String())

	_, err = ParseDate("next week")
	assert.Error(t, err)
}

func TestTaskWireFormat(t *testing.T) {
	task := Task{
		Task:     "Buy milk",
		Priority: PriorityHigh,
		DueDate:  Day(2024, time.January, 1),
		TaskID:   "abc",
	}
	b, err := json.Marshal(task)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.Equal(t, "Buy milk", fields["task"])
	assert.Equal(t, "high", fields["priority"])
	assert.Equal(t, "abc", fields["taskId"])
	assert.Equal(t, false, fields["completed"])
	assert.Equal(t, false, fields["showCardButtons"])

	var back Task
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, task, back)
}

func TestOptionalFlagsDefaultToFalse(t *testing.T) {
	var task Task
	err := json.Unmarshal([]byte(`{"task":"x","priority":"low","dueDate":"2024-01-01","taskId":"k"}`), &task)
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.False(t, task.ShowCardButtons)
	assert.True(t, task.Editable())
}

func TestSetCompleted(t *testing.T) {
	var task Task
	for i := 0; i < 3; i++ {
		task.SetCompleted(true)
		assert.True(t, task.Completed)
		assert.True(t, task.ShowCardButtons)
		assert.Equal(t, "done", task.Status())

		task.SetCompleted(false)
		assert.False(t, task.Completed)
		assert.False(t, task.ShowCardButtons)
	}
}
