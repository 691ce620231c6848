package conflict_test

import (
	"context"
	"testing"
	"time"

	otelMock "hall/infras/otel/mocks"
	"hall/internal/domains/booking/conflict"
	"hall/internal/domains/booking/mocks"
	"hall/internal/domains/booking/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func interval(t *testing.T, start, end string) model.Interval {
	t.Helper()

	startTime, err := time.Parse(time.RFC3339, start)
	require.NoError(t, err)

	endTime, err := time.Parse(time.RFC3339, end)
	require.NoError(t, err)

	return model.Interval{Start: startTime, End: endTime}
}

func booking(id string, slot model.Interval, status model.Status) model.Booking {
	return model.Booking{
		ID:        id,
		RoomID:    "room-5",
		StartTime: slot.Start,
		EndTime:   slot.End,
		Status:    status,
	}
}

func TestHasConflict(t *testing.T) {
	existing := interval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")

	testCases := []struct {
		name      string
		candidate model.Interval
		stored    []model.Booking
		excludeID string
		expected  bool
	}{
		{
			name:      "overlapping confirmed booking conflicts",
			candidate: interval(t, "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z"),
			stored:    []model.Booking{booking("b-1", existing, model.StatusConfirmed)},
			expected:  true,
		},
		{
			name:      "overlapping pending booking conflicts",
			candidate: interval(t, "2024-01-01T10:30:00Z", "2024-01-01T11:30:00Z"),
			stored:    []model.Booking{booking("b-1", existing, model.StatusPending)},
			expected:  true,
		},
		{
			name:      "boundary touch is not a conflict",
			candidate: interval(t, "2024-01-01T11:00:00Z", "2024-01-01T12:00:00Z"),
			stored:    []model.Booking{booking("b-1", existing, model.StatusConfirmed)},
			expected:  false,
		},
		{
			name:      "no bookings means no conflict",
			candidate: interval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			stored:    []model.Booking{},
			expected:  false,
		},
		{
			name:      "excluded booking is skipped",
			candidate: interval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			stored:    []model.Booking{booking("b-1", existing, model.StatusConfirmed)},
			excludeID: "b-1",
			expected:  false,
		},
		{
			name:      "cancelled booking does not block",
			candidate: interval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z"),
			stored:    []model.Booking{booking("b-1", existing, model.StatusCancelled)},
			expected:  false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockBooking(ctrl)
			checker := conflict.New(repo, otelMock.NewOtel())

			repo.EXPECT().
				FindBlocking(gomock.Any(), "room-5", testCase.candidate, testCase.excludeID).
				Return(testCase.stored, nil)

			conflicting, err := checker.HasConflict(context.Background(), "room-5", testCase.candidate, testCase.excludeID)
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, conflicting)
		})
	}
}

func TestHasConflictRepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockBooking(ctrl)
	checker := conflict.New(repo, otelMock.NewOtel())

	candidate := interval(t, "2024-01-01T10:00:00Z", "2024-01-01T11:00:00Z")

	repo.EXPECT().
		FindBlocking(gomock.Any(), "room-5", candidate, "").
		Return(nil, errors.New("connection reset"))

	_, err := checker.HasConflict(context.Background(), "room-5", candidate, "")
	require.Error(t, err)
}
