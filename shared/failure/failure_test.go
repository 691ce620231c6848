package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hall/shared/failure"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{
		Code:    http.StatusBadRequest,
		Message: "test error message",
	}

	if f.Error() != "test error message" {
		t.Errorf("expected error message to be 'test error message', got %s", f.Error())
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "BadRequestFromString", err: failure.BadRequestFromString("bad"), code: http.StatusBadRequest},
		{name: "Unprocessable", err: failure.Unprocessable("start must be before end"), code: http.StatusUnprocessableEntity},
		{name: "Unauthorized", err: failure.Unauthorized("no token"), code: http.StatusUnauthorized},
		{name: "NotFound", err: failure.NotFound("booking not found"), code: http.StatusNotFound},
		{name: "Conflict", err: failure.Conflict("time slot is already booked"), code: http.StatusConflict},
		{name: "ServiceUnavailable", err: failure.ServiceUnavailable("room directory unreachable"), code: http.StatusServiceUnavailable},
		{name: "Forbidden", err: failure.Forbidden("not yours"), code: http.StatusForbidden},
		{name: "InternalError", err: failure.InternalError(errors.New("boom")), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(tt.err); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

func TestUnprocessableFromFields(t *testing.T) {
	err := failure.UnprocessableFromFields("validation failed", map[string]string{
		"start_time": "must be before end_time",
	})

	var fail *failure.Failure
	if !errors.As(err, &fail) {
		t.Fatal("expected *failure.Failure")
	}

	if fail.Fields["start_time"] != "must be before end_time" {
		t.Errorf("unexpected fields: %v", fail.Fields)
	}
}

func TestGetCode_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("creating booking: %w", failure.Conflict("overlap"))

	if got := failure.GetCode(wrapped); got != http.StatusConflict {
		t.Errorf("expected %d through wrapping, got %d", http.StatusConflict, got)
	}
}

func TestGetCode_UnknownError(t *testing.T) {
	if got := failure.GetCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("expected fallback 500, got %d", got)
	}
}

func TestIs(t *testing.T) {
	if !failure.Is(failure.Conflict("overlap"), http.StatusConflict) {
		t.Error("expected Is to match conflict code")
	}

	if failure.Is(failure.NotFound("x"), http.StatusConflict) {
		t.Error("expected Is to reject mismatched code")
	}
}
