package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hall/infras/otel"
	"hall/infras/postgres"
	"hall/internal/domains/booking/model"
	"hall/shared/constant"
	gDto "hall/shared/dto"
	"hall/shared/failure"
	gRepo "hall/shared/repository"

	"github.com/lib/pq"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	FindBlocking(ctx context.Context, roomID string, candidate model.Interval, excludeID string) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Insert persists a booking and maps a unique violation to a Conflict failure.
func (repo *repositoryImpl) Insert(ctx context.Context, booking model.Booking) error {
	err := repo.Repository.Insert(ctx, booking)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
			return failure.Conflict("booking already exists")
		}

		return err
	}

	return nil
}

// FindBlocking fetches the bookings of a room that still hold their slot and
// could overlap the candidate range. The time filter is a coarse window on
// the half-open interval; exact overlap filtering happens in the conflict
// checker.
func (repo *repositoryImpl) FindBlocking(ctx context.Context, roomID string, candidate model.Interval, excludeID string) ([]model.Booking, error) {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorNotEq,
			Value:    model.StatusCancelled.String(),
		},
		gDto.Filter{
			ArgName:  "candidate_end",
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorLess,
			Value:    candidate.End,
		},
		gDto.Filter{
			ArgName:  "candidate_start",
			Field:    model.FieldEndTime,
			Operator: gDto.FilterOperatorGreater,
			Value:    candidate.Start,
		},
	}

	if excludeID != "" {
		filters = append(filters, gDto.Filter{
			ArgName:  "exclude_id",
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
		})
	}

	bookings, err := repo.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	})
	if err != nil {
		return nil, fmt.Errorf("finding blocking bookings for room %s: %w", roomID, err)
	}

	return bookings, nil
}
