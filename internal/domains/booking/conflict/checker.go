package conflict

//go:generate go run go.uber.org/mock/mockgen -source=./checker.go -destination=../mocks/checker_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hall/infras/otel"
	"hall/internal/domains/booking/model"
	"hall/internal/domains/booking/repository"
	"hall/shared/constant"
)

// Checker decides whether a candidate time range collides with a booking
// that still holds its slot on the same room. It only reads; serialization
// around check-then-write belongs to the caller.
type Checker interface {
	HasConflict(ctx context.Context, roomID string, candidate model.Interval, excludeID string) (bool, error)
}

type checkerImpl struct {
	bookingRepository repository.Booking
	otel              otel.Otel
}

func New(bookingRepository repository.Booking, otl otel.Otel) Checker {
	return &checkerImpl{
		bookingRepository: bookingRepository,
		otel:              otl,
	}
}

// HasConflict fetches the room's blocking bookings in a coarse time window
// around the candidate and applies the exact half-open overlap predicate,
// skipping excludeID so an update never conflicts with itself.
func (c *checkerImpl) HasConflict(ctx context.Context, roomID string, candidate model.Interval, excludeID string) (conflicting bool, err error) {
	ctx, scope := c.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ConflictChecker.HasConflict")
	defer scope.End()
	defer scope.TraceIfError(err)

	bookings, err := c.bookingRepository.FindBlocking(ctx, roomID, candidate, excludeID)
	if err != nil {
		return false, fmt.Errorf("checking conflicts for room %s: %w", roomID, err)
	}

	for _, booking := range bookings {
		if booking.ID == excludeID || !booking.Blocking() {
			continue
		}

		if candidate.Overlaps(booking.Interval()) {
			scope.SetAttribute("conflict.booking_id", booking.ID)

			return true, nil
		}
	}

	return false, nil
}
