package model_test

import (
	"testing"
	"time"

	"hall/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func slot(t *testing.T, start, end string) model.Interval {
	t.Helper()

	startTime, err := time.Parse(time.RFC3339, start)
	assert.NoError(t, err)

	endTime, err := time.Parse(time.RFC3339, end)
	assert.NoError(t, err)

	return model.Interval{Start: startTime, End: endTime}
}

func TestIntervalOverlaps(t *testing.T) {
	base := slot(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")

	testCases := []struct {
		name     string
		other    model.Interval
		expected bool
	}{
		{
			name:     "partial overlap from the right",
			other:    slot(t, "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z"),
			expected: true,
		},
		{
			name:     "partial overlap from the left",
			other:    slot(t, "2024-01-01T09:30:00Z", "2024-01-01T10:30:00Z"),
			expected: true,
		},
		{
			name:     "contained",
			other:    slot(t, "2024-01-01T10:15:00Z", "2024-01-01T10:45:00Z"),
			expected: true,
		},
		{
			name:     "containing",
			other:    slot(t, "2024-01-01T09:00:00Z", "2024-01-01T12:00:00Z"),
			expected: true,
		},
		{
			name:     "identical",
			other:    slot(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			expected: true,
		},
		{
			name:     "touching at the end is not an overlap",
			other:    slot(t, "2024-01-01T11:00:00Z", "2024-01-01T12:00:00Z"),
			expected: false,
		},
		{
			name:     "touching at the start is not an overlap",
			other:    slot(t, "2024-01-01T09:00:00Z", "2024-01-01T10:00:00Z"),
			expected: false,
		},
		{
			name:     "fully before",
			other:    slot(t, "2024-01-01T08:00:00Z", "2024-01-01T09:00:00Z"),
			expected: false,
		},
		{
			name:     "fully after",
			other:    slot(t, "2024-01-01T12:00:00Z", "2024-01-01T13:00:00Z"),
			expected: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, base.Overlaps(testCase.other))
			assert.Equal(t, testCase.expected, testCase.other.Overlaps(base), "overlap must be symmetric")
		})
	}
}

func TestIntervalValid(t *testing.T) {
	assert.True(t, slot(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z").Valid())
	assert.False(t, slot(t, "2024-01-01T11:00:00Z", "2024-01-01T10:00:00Z").Valid())
	assert.False(t, slot(t, "2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z").Valid(), "empty interval is invalid")
}
