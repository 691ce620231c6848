package model

import (
	"time"

	"hall/shared/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldStatus    = "status"
	FieldPurpose   = "purpose"
)

type Booking struct {
	ID        string    `db:"id"`
	RoomID    string    `db:"room_id"`
	UserID    string    `db:"user_id"`
	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`
	Status    Status    `db:"status"`
	Purpose   string    `db:"purpose"`
	model.Metadata
}

// Interval returns the half-open time slot [StartTime, EndTime) held by the
// booking.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// Blocking reports whether the booking still holds its slot for conflict
// purposes. A cancelled booking releases its slot.
func (b *Booking) Blocking() bool {
	return b.Status.Blocking()
}
