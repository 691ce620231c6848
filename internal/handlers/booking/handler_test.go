package booking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	otelMock "hall/infras/otel/mocks"
	"hall/internal/domains/booking/mocks"
	"hall/internal/domains/booking/model/dto"
	"hall/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerFixture struct {
	service *mocks.MockReservation
	router  *chi.Mux
}

func newHandlerFixture(t *testing.T) handlerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	service := mocks.NewMockReservation(ctrl)

	handler := New(service, otelMock.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", func(r chi.Router) {
		handler.Router(r)
	})

	return handlerFixture{service: service, router: router}
}

func (f handlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, reader)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)

	return recorder
}

func TestCreateBooking(t *testing.T) {
	createBody := `{
		"room_id": "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
		"start_time": "2026-09-01T10:00:00Z",
		"end_time": "2026-09-01T11:00:00Z",
		"purpose": "sprint planning"
	}`

	t.Run("returns 201 with the created booking", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		created := dto.BookingResponse{
			ID:        "b0000000-0000-4000-8000-000000000001",
			RoomID:    "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
			UserID:    "u-1",
			StartTime: "2026-09-01T10:00:00Z",
			EndTime:   "2026-09-01T11:00:00Z",
			Status:    "pending",
			Purpose:   "sprint planning",
		}

		fixture.service.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(created, nil)

		recorder := fixture.do(http.MethodPost, "/v1/bookings", createBody)

		require.Equal(t, http.StatusCreated, recorder.Code)

		var payload struct {
			Data dto.BookingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		assert.Equal(t, created.ID, payload.Data.ID)
		assert.Equal(t, created.Status, payload.Data.Status)
	})

	t.Run("returns 400 on malformed JSON", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		recorder := fixture.do(http.MethodPost, "/v1/bookings", `{"room_id":`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("returns 422 with field detail when required fields are missing", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		recorder := fixture.do(http.MethodPost, "/v1/bookings", `{"purpose":"no room or times"}`)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var payload struct {
			Fields map[string]string `json:"fields"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		assert.Contains(t, payload.Fields, "room_id")
	})

	t.Run("passes service failure codes through", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		fixture.service.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			Return(dto.BookingResponse{}, failure.Conflict("room is already booked for the requested time range"))

		recorder := fixture.do(http.MethodPost, "/v1/bookings", createBody)

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})
}

func TestUpdateBooking(t *testing.T) {
	t.Run("returns 200 with the updated booking", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		updated := dto.BookingResponse{
			ID:     "b0000000-0000-4000-8000-000000000001",
			Status: "confirmed",
		}

		fixture.service.EXPECT().
			Update(gomock.Any(), gomock.Any(), updated.ID).
			Return(updated, nil)

		recorder := fixture.do(http.MethodPatch, "/v1/bookings/"+updated.ID, `{"status":"confirmed"}`)

		require.Equal(t, http.StatusOK, recorder.Code)

		var payload struct {
			Data dto.BookingResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))
		assert.Equal(t, "confirmed", payload.Data.Status)
	})

	t.Run("returns 422 when the transition is rejected", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		fixture.service.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dto.BookingResponse{}, failure.Unprocessable("booking status cannot change from completed to pending"))

		recorder := fixture.do(http.MethodPatch, "/v1/bookings/b-1", `{"status":"pending"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("returns 204 on success", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		fixture.service.EXPECT().
			Cancel(gomock.Any(), "b-1").
			Return(nil)

		recorder := fixture.do(http.MethodDelete, "/v1/bookings/b-1", "")

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("returns 404 for an unknown booking", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		fixture.service.EXPECT().
			Cancel(gomock.Any(), "missing").
			Return(failure.NotFound("booking"))

		recorder := fixture.do(http.MethodDelete, "/v1/bookings/missing", "")

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestGetBookings(t *testing.T) {
	t.Run("forwards query filters to the service", func(t *testing.T) {
		fixture := newHandlerFixture(t)

		fixture.service.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil)

		recorder := fixture.do(http.MethodGet, "/v1/bookings?room_id=6ba7b810-9dad-41d1-80b4-00c04fd430c8&status=confirmed", "")

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
