package service_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"hall/config"
	otelMocks "hall/infras/otel/mocks"
	"hall/internal/domains/booking/conflict"
	"hall/internal/domains/booking/mocks"
	"hall/internal/domains/booking/model"
	"hall/internal/domains/booking/model/dto"
	"hall/internal/domains/booking/service"
	"hall/internal/external/roomdir"
	roomdirMocks "hall/internal/external/roomdir/mocks"
	cacheMocks "hall/shared/cache/mocks"
	"hall/shared/constant"
	gDto "hall/shared/dto"
	"hall/shared/failure"
	"hall/shared/lock"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeBookingStore is an in-memory repository.Booking used to exercise the
// real conflict checker and the real per-room lock together.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings []model.Booking
}

func (f *fakeBookingStore) Insert(_ context.Context, booking model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.bookings {
		if existing.ID == booking.ID {
			return failure.Conflict("booking already exists")
		}
	}

	f.bookings = append(f.bookings, booking)

	return nil
}

func (f *fakeBookingStore) FindBlocking(_ context.Context, roomID string, candidate model.Interval, excludeID string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var blocking []model.Booking

	for _, booking := range f.bookings {
		if booking.RoomID != roomID || booking.ID == excludeID || !booking.Blocking() {
			continue
		}

		if booking.StartTime.Before(candidate.End) && candidate.Start.Before(booking.EndTime) {
			blocking = append(blocking, booking)
		}
	}

	return blocking, nil
}

func (f *fakeBookingStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, args := filter.GetWhereClause()
	id, _ := args["id"].(string)

	for _, booking := range f.bookings {
		if booking.ID == id {
			return booking, nil
		}
	}

	return model.Booking{}, nil
}

func (f *fakeBookingStore) GetAll(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup, _ ...string) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]model.Booking{}, f.bookings...), nil
}

func (f *fakeBookingStore) Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error) {
	booking, err := f.Get(ctx, filter)

	return booking.ID != "", err
}

func (f *fakeBookingStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.bookings), nil
}

func (f *fakeBookingStore) Update(_ context.Context, req map[string]any, filter gDto.FilterGroup) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, args := filter.GetWhereClause()
	id, _ := args["id"].(string)

	for i := range f.bookings {
		if f.bookings[i].ID != id {
			continue
		}

		if status, ok := req[model.FieldStatus].(string); ok {
			f.bookings[i].Status = model.Status(status)
		}

		if startTime, ok := req[model.FieldStartTime].(time.Time); ok {
			f.bookings[i].StartTime = startTime
		}

		if endTime, ok := req[model.FieldEndTime].(time.Time); ok {
			f.bookings[i].EndTime = endTime
		}
	}

	return nil
}

func (f *fakeBookingStore) activeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0

	for _, booking := range f.bookings {
		if booking.Blocking() {
			count++
		}
	}

	return count
}

func newConcurrencyService(t *testing.T, store *fakeBookingStore) service.Reservation {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Booking.LockWaitMS = 5000
	cfg.Cache.TTL = 60

	rooms := roomdirMocks.NewMockDirectory(ctrl)
	rooms.EXPECT().GetRoom(gomock.Any(), gomock.Any()).Return(roomdir.Room{ID: "room-7", IsActive: true}, nil).AnyTimes()

	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cacheMock := cacheMocks.NewMockRedisCache(ctrl)
	cacheMock.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	cacheMock.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cacheMock.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cacheMock.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	noopOtel := otelMocks.NewOtel()

	return service.New(
		store,
		conflict.New(store, noopOtel),
		rooms,
		lock.NewKeyedMutex(cfg, noopOtel),
		publisher,
		cfg,
		cacheMock,
		noopOtel,
	)
}

func TestConcurrentCreatesSameSlotExactlyOneWins(t *testing.T) {
	store := &fakeBookingStore{}
	svc := newConcurrencyService(t, store)

	const workers = 16

	req := dto.CreateBookingRequest{
		RoomID:    "room-7",
		StartTime: "2024-01-02T09:00:00Z",
		EndTime:   "2024-01-02T10:00:00Z",
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(userContext("user-1", constant.RoleUser), req)

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err == nil:
				successes++
			case failure.GetCode(err) == http.StatusConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, 1, successes, "exactly one of the conflicting creates may win")
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, store.activeCount())
}

func TestConcurrentCreatesDifferentRoomsAllWin(t *testing.T) {
	store := &fakeBookingStore{}
	svc := newConcurrencyService(t, store)

	rooms := []string{"room-a", "room-b", "room-c", "room-d"}

	var wg sync.WaitGroup

	for _, roomID := range rooms {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Create(userContext("user-1", constant.RoleUser), dto.CreateBookingRequest{
				RoomID:    roomID,
				StartTime: "2024-01-02T09:00:00Z",
				EndTime:   "2024-01-02T10:00:00Z",
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	assert.Equal(t, len(rooms), store.activeCount())
}

func TestCancellationFreesSlot(t *testing.T) {
	store := &fakeBookingStore{}
	svc := newConcurrencyService(t, store)

	ctx := userContext("user-1", constant.RoleUser)

	req := dto.CreateBookingRequest{
		RoomID:    "room-7",
		StartTime: "2024-01-03T09:00:00Z",
		EndTime:   "2024-01-03T10:00:00Z",
	}

	first, err := svc.Create(ctx, req)
	require.NoError(t, err)

	// Same slot is taken while the first booking is active.
	_, err = svc.Create(ctx, req)
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	require.NoError(t, svc.Cancel(ctx, first.ID))

	// Cancelling freed the slot for a fresh reservation.
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)
}
