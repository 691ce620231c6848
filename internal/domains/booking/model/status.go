package model

// Status is the lifecycle state of a booking.
//
//	pending ──▶ confirmed ──▶ completed
//	   │            │
//	   └────────────┴───────▶ cancelled
//
// Cancelled and completed are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

func (s Status) Valid() bool {
	_, ok := transitions[s]

	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0 && s.Valid()
}

// CanTransition reports whether moving from s to target is allowed. A
// transition to the current status is a no-op and always allowed.
func (s Status) CanTransition(target Status) bool {
	if s == target {
		return true
	}

	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}

	return false
}

// Blocking reports whether a booking in this status still occupies its room
// slot. Only cancellation frees the slot.
func (s Status) Blocking() bool {
	return s.Valid() && s != StatusCancelled
}

func (s Status) String() string {
	return string(s)
}
