package dto

import (
	"time"

	"hall/internal/domains/booking/model"
	"hall/shared"
	"hall/shared/constant"
	gDto "hall/shared/dto"
	"hall/shared/failure"
	gModel "hall/shared/model"
	"hall/shared/timezone"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	RoomID    string `json:"room_id"    validate:"required,uuid4"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time"   validate:"required"`
	Purpose   string `json:"purpose"    validate:"omitempty,max=500"`
	Status    string `json:"status"     validate:"omitempty,oneof=pending confirmed"`
}

func (c *CreateBookingRequest) ToModel(userID string) (model.Booking, error) {
	startTime, err := time.Parse(constant.DateFormat, c.StartTime)
	if err != nil {
		return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
			"start_time": "must be a valid RFC3339 timestamp",
		})
	}

	endTime, err := time.Parse(constant.DateFormat, c.EndTime)
	if err != nil {
		return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
			"end_time": "must be a valid RFC3339 timestamp",
		})
	}

	slot := model.Interval{Start: startTime, End: endTime}
	if !slot.Valid() {
		return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
			"start_time": "must be before end_time",
		})
	}

	status := model.StatusPending
	if c.Status != "" {
		status = model.Status(c.Status)
	}

	return model.Booking{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		UserID:    userID,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    status,
		Purpose:   c.Purpose,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  userID,
			ModifiedBy: userID,
		},
	}, nil
}

type UpdateBookingRequest struct {
	RoomID    string `db:"room_id"    json:"room_id"    validate:"omitempty,uuid4"`
	StartTime string `json:"start_time"                 validate:"omitempty"`
	EndTime   string `json:"end_time"                   validate:"omitempty"`
	Purpose   string `db:"purpose"    json:"purpose"    validate:"omitempty,max=500"`
	Status    string `db:"status"     json:"status"     validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

// ChangesSlot reports whether the patch touches the room or the time range,
// which forces a fresh conflict check.
func (u *UpdateBookingRequest) ChangesSlot() bool {
	return u.RoomID != "" || u.StartTime != "" || u.EndTime != ""
}

// Apply merges the patch onto an existing booking and returns the resulting
// record. Unset fields keep the current values.
func (u *UpdateBookingRequest) Apply(current model.Booking) (model.Booking, error) {
	next := current

	if u.RoomID != "" {
		next.RoomID = u.RoomID
	}

	if u.StartTime != "" {
		startTime, err := time.Parse(constant.DateFormat, u.StartTime)
		if err != nil {
			return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
				"start_time": "must be a valid RFC3339 timestamp",
			})
		}

		next.StartTime = startTime
	}

	if u.EndTime != "" {
		endTime, err := time.Parse(constant.DateFormat, u.EndTime)
		if err != nil {
			return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
				"end_time": "must be a valid RFC3339 timestamp",
			})
		}

		next.EndTime = endTime
	}

	if u.ChangesSlot() && !next.Interval().Valid() {
		return model.Booking{}, failure.UnprocessableFromFields("invalid booking time", map[string]string{
			"start_time": "must be before end_time",
		})
	}

	if u.Purpose != "" {
		next.Purpose = u.Purpose
	}

	if u.Status != "" {
		target := model.Status(u.Status)
		if !current.Status.CanTransition(target) {
			return model.Booking{}, failure.Unprocessable("booking status cannot change from " + current.Status.String() + " to " + target.String())
		}

		next.Status = target
	}

	return next, nil
}

type BookingResponse struct {
	ID        string `json:"id"`
	RoomID    string `json:"room_id"`
	UserID    string `json:"user_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
	Purpose   string `json:"purpose"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.UserID = mod.UserID
	r.StartTime = timezone.Format(mod.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(mod.EndTime, constant.DateFormat)
	r.Status = mod.Status.String()
	r.Purpose = mod.Purpose
	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
