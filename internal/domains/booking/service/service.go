package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hall/config"
	"hall/infras/otel"
	"hall/internal/domains/booking/conflict"
	"hall/internal/domains/booking/event"
	"hall/internal/domains/booking/model"
	"hall/internal/domains/booking/model/dto"
	"hall/internal/domains/booking/repository"
	"hall/internal/external/roomdir"
	"hall/shared"
	"hall/shared/cache"
	"hall/shared/constant"
	gDto "hall/shared/dto"
	"hall/shared/failure"
	"hall/shared/lock"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetBooking    = "booking:get"
	cacheGetAllBooking = "booking:gets"
	cacheCountBooking  = "booking:count"
)

// Reservation owns the booking lifecycle. Create and slot-changing updates
// run their conflict check and write under a per-room lock, so only one
// check-then-write sequence executes at a time for any given room.
type Reservation interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
}

type serviceImpl struct {
	repo      repository.Booking
	checker   conflict.Checker
	rooms     roomdir.Directory
	locker    lock.Locker
	publisher event.Publisher
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(
	repo repository.Booking,
	checker conflict.Checker,
	rooms roomdir.Directory,
	locker lock.Locker,
	publisher event.Publisher,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		checker:   checker,
		rooms:     rooms,
		locker:    locker,
		publisher: publisher,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing caller identity") // nolint:wrapcheck
	}

	booking, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	// Resolve the room before taking any lock: an unknown or unreachable
	// directory aborts the operation with nothing written and nothing held.
	if _, err = s.rooms.GetRoom(ctx, booking.RoomID); err != nil {
		return res, err
	}

	release, err := s.locker.Acquire(ctx, booking.RoomID)
	if err != nil {
		return res, err
	}
	defer release()

	conflicting, err := s.checker.HasConflict(ctx, booking.RoomID, booking.Interval(), constant.Empty)
	if err != nil {
		log.Error().Err(err).Msg("failed to run conflict check")

		return res, fmt.Errorf("failed to run conflict check: %w", err)
	}

	if conflicting {
		return res, failure.Conflict("room is already booked for the requested time range") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	s.afterWrite(ctx, booking.ID, event.NewBookingEvent(event.TypeBookingCreated, booking))

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.Count(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return res, failure.Unauthorized("missing caller identity") // nolint:wrapcheck
	}

	return s.GetAll(ctx, params, gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldUserID,
				Operator: gDto.FilterOperatorEq,
				Value:    user,
				Table:    model.TableName,
			},
		},
	})
}

func (s *serviceImpl) Count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountBooking, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetBooking, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return res, nil
	}

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return res, failure.NotFound("booking") // nolint:wrapcheck
	}

	res.FromModel(booking)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBookingRequest, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req == (dto.UpdateBookingRequest{}) {
		return res, failure.BadRequestFromString("update request cannot be empty") // nolint:wrapcheck
	}

	user, err := s.authorize(ctx)
	if err != nil {
		return res, err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if current.ID == constant.Empty {
		return res, failure.NotFound("booking") // nolint:wrapcheck
	}

	if err = s.guardOwnership(ctx, current, user); err != nil {
		return res, err
	}

	next, err := req.Apply(current)
	if err != nil {
		return res, err
	}

	if req.ChangesSlot() {
		if next.RoomID != current.RoomID {
			if _, err = s.rooms.GetRoom(ctx, next.RoomID); err != nil {
				return res, err
			}
		}

		// Same discipline as Create, against the booking's (possibly new)
		// room. The update never conflicts with its own stored range.
		release, lockErr := s.locker.Acquire(ctx, next.RoomID)
		if lockErr != nil {
			return res, lockErr
		}
		defer release()

		conflicting, checkErr := s.checker.HasConflict(ctx, next.RoomID, next.Interval(), current.ID)
		if checkErr != nil {
			log.Error().Err(checkErr).Msg("failed to run conflict check")

			return res, fmt.Errorf("failed to run conflict check: %w", checkErr)
		}

		if conflicting {
			return res, failure.Conflict("room is already booked for the requested time range") // nolint:wrapcheck
		}
	}

	updatedFields := shared.TransformFields(req, user)
	if req.StartTime != constant.Empty {
		updatedFields[model.FieldStartTime] = next.StartTime
	}

	if req.EndTime != constant.Empty {
		updatedFields[model.FieldEndTime] = next.EndTime
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update booking")

		return res, fmt.Errorf("failed to update booking: %w", err)
	}

	s.afterWrite(ctx, id, event.NewBookingEvent(event.TypeBookingUpdated, next))

	next.ModifiedBy = user
	res.FromModel(next)

	return res, nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reservation.Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.authorize(ctx)
	if err != nil {
		return err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	current, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return fmt.Errorf("failed to get booking: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound("booking") // nolint:wrapcheck
	}

	if err = s.guardOwnership(ctx, current, user); err != nil {
		return err
	}

	// Cancelling twice is a no-op, not an error.
	if current.Status == model.StatusCancelled {
		return nil
	}

	if !current.Status.CanTransition(model.StatusCancelled) {
		return failure.Unprocessable("booking status cannot change from " + current.Status.String() + " to " + model.StatusCancelled.String()) // nolint:wrapcheck
	}

	cancelled := shared.TransformFields(struct{}{}, user)
	cancelled[model.FieldStatus] = model.StatusCancelled.String()

	if err = s.repo.Update(ctx, cancelled, filter); err != nil {
		log.Error().Err(err).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	current.Status = model.StatusCancelled
	s.afterWrite(ctx, id, event.NewBookingEvent(event.TypeBookingCancelled, current))

	return nil
}

func (s *serviceImpl) authorize(ctx context.Context) (string, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		return constant.Empty, failure.Unauthorized("missing caller identity") // nolint:wrapcheck
	}

	return user, nil
}

// guardOwnership allows writes only by the booking owner or an elevated role.
func (s *serviceImpl) guardOwnership(ctx context.Context, booking model.Booking, user string) error {
	if booking.UserID == user {
		return nil
	}

	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)
	if role == constant.RoleAdmin || role == constant.RoleSuperAdmin {
		return nil
	}

	return failure.ResourceRestrictedError // nolint:wrapcheck
}

// afterWrite invalidates derived caches and publishes the lifecycle event off
// the request path.
func (s *serviceImpl) afterWrite(ctx context.Context, id string, evt event.BookingEvent) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllBooking)
		shared.InvalidateCaches(c, s.cache, cacheCountBooking)

		if err := s.publisher.Publish(c, evt); err != nil {
			log.Error().Err(err).Str("type", evt.Type).Msg("failed to publish booking event")
		}
	}()
}
