package dto_test

import (
	"net/http"
	"testing"
	"time"

	"hall/internal/domains/booking/model"
	"hall/internal/domains/booking/model/dto"
	"hall/shared/failure"
	gModel "hall/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBookingRequestToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "a3bbcd3a-3f6a-44b5-a9ae-745a5ac03ee1",
		StartTime: "2024-01-01T10:00:00Z",
		EndTime:   "2024-01-01T11:00:00Z",
		Purpose:   "weekly sync",
	}

	booking, err := req.ToModel("user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, req.RoomID, booking.RoomID)
	assert.Equal(t, "user-1", booking.UserID)
	assert.Equal(t, model.StatusPending, booking.Status)
	assert.Equal(t, "weekly sync", booking.Purpose)
	assert.Equal(t, time.Hour, booking.Interval().Duration())
	assert.Equal(t, "user-1", booking.CreatedBy)
}

func TestCreateBookingRequestToModelStatusOverride(t *testing.T) {
	req := dto.CreateBookingRequest{
		RoomID:    "a3bbcd3a-3f6a-44b5-a9ae-745a5ac03ee1",
		StartTime: "2024-01-01T10:00:00Z",
		EndTime:   "2024-01-01T11:00:00Z",
		Status:    "confirmed",
	}

	booking, err := req.ToModel("user-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, booking.Status)
}

func TestCreateBookingRequestToModelInvalidTimes(t *testing.T) {
	testCases := []struct {
		name      string
		startTime string
		endTime   string
	}{
		{"malformed start", "not-a-time", "2024-01-01T11:00:00Z"},
		{"malformed end", "2024-01-01T10:00:00Z", "eleven"},
		{"start after end", "2024-01-01T11:00:00Z", "2024-01-01T10:00:00Z"},
		{"empty range", "2024-01-01T10:00:00Z", "2024-01-01T10:00:00Z"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			req := dto.CreateBookingRequest{
				RoomID:    "a3bbcd3a-3f6a-44b5-a9ae-745a5ac03ee1",
				StartTime: testCase.startTime,
				EndTime:   testCase.endTime,
			}

			_, err := req.ToModel("user-1")
			require.Error(t, err)
			assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
		})
	}
}

func currentBooking(t *testing.T) model.Booking {
	t.Helper()

	startTime, err := time.Parse(time.RFC3339, "2024-01-01T10:00:00Z")
	require.NoError(t, err)

	return model.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		UserID:    "user-1",
		StartTime: startTime,
		EndTime:   startTime.Add(time.Hour),
		Status:    model.StatusPending,
		Purpose:   "standup",
		Metadata:  gModel.Metadata{CreatedBy: "user-1", ModifiedBy: "user-1"},
	}
}

func TestUpdateBookingRequestApply(t *testing.T) {
	current := currentBooking(t)

	patch := dto.UpdateBookingRequest{
		StartTime: "2024-01-01T14:00:00Z",
		EndTime:   "2024-01-01T15:00:00Z",
		Status:    "confirmed",
	}

	next, err := patch.Apply(current)
	require.NoError(t, err)

	assert.Equal(t, model.StatusConfirmed, next.Status)
	assert.Equal(t, "standup", next.Purpose, "unset fields keep current values")
	assert.Equal(t, "2024-01-01T14:00:00Z", next.StartTime.UTC().Format(time.RFC3339))
	assert.True(t, patch.ChangesSlot())
}

func TestUpdateBookingRequestApplyRejectsInvalidTransition(t *testing.T) {
	current := currentBooking(t)
	current.Status = model.StatusCompleted

	patch := dto.UpdateBookingRequest{Status: "cancelled"}

	_, err := patch.Apply(current)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
}

func TestUpdateBookingRequestApplyRejectsInvertedRange(t *testing.T) {
	current := currentBooking(t)

	patch := dto.UpdateBookingRequest{StartTime: "2024-01-01T16:00:00Z"}

	// New start falls after the unchanged end.
	_, err := patch.Apply(current)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
}

func TestUpdateBookingRequestChangesSlot(t *testing.T) {
	assert.False(t, (&dto.UpdateBookingRequest{Purpose: "retro"}).ChangesSlot())
	assert.False(t, (&dto.UpdateBookingRequest{Status: "confirmed"}).ChangesSlot())
	assert.True(t, (&dto.UpdateBookingRequest{RoomID: "room-2"}).ChangesSlot())
	assert.True(t, (&dto.UpdateBookingRequest{EndTime: "2024-01-01T12:00:00Z"}).ChangesSlot())
}
