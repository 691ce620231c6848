package shared_test

import (
	"reflect"
	"testing"
	"time"

	"hall/shared"
	"hall/shared/constant"
	"hall/shared/dto"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{name: "zero total", total: 0, limit: 10, expected: 1},
		{name: "zero limit", total: 10, limit: 0, expected: 1},
		{name: "exact division", total: 20, limit: 10, expected: 2},
		{name: "with remainder", total: 21, limit: 10, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.CalculateTotalPage(tt.total, tt.limit); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestTransformFields(t *testing.T) {
	type patch struct {
		Purpose string    `db:"purpose"`
		Status  string    `db:"status"`
		Start   time.Time `db:"start_time"`
		Skipped string
	}

	p := patch{
		Purpose: "weekly sync",
		Status:  "confirmed",
	}

	fields := shared.TransformFields(p, "user-1")

	if fields["purpose"] != "weekly sync" {
		t.Errorf("expected purpose to be set, got %v", fields["purpose"])
	}

	if fields["status"] != "confirmed" {
		t.Errorf("expected status to be set, got %v", fields["status"])
	}

	if _, ok := fields["start_time"]; ok {
		t.Error("expected zero time to be skipped")
	}

	if fields[constant.FieldModifiedBy] != "user-1" {
		t.Errorf("expected modified_by to be stamped, got %v", fields[constant.FieldModifiedBy])
	}

	if _, ok := fields[constant.FieldModifiedAt]; !ok {
		t.Error("expected modified_at to be stamped")
	}
}

func TestFilterByID(t *testing.T) {
	group := shared.FilterByID("abc", "id", "bookings")

	expected := dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    "id",
				Value:    "abc",
				Operator: dto.FilterOperatorEq,
				Table:    "bookings",
			},
		},
	}

	if !reflect.DeepEqual(group, expected) {
		t.Errorf("expected %+v, got %+v", expected, group)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("booking", "get", "abc"); got != "booking:get:abc" {
		t.Errorf("expected 'booking:get:abc', got %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "start_time", SortDir: "ASC"}

	groupA := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "room-1"},
		},
	}
	groupB := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Operator: dto.FilterOperatorEq, Value: "room-2"},
		},
	}

	keyA := shared.BuildCacheKeyWithQuery("booking:gets", params, groupA)
	keyB := shared.BuildCacheKeyWithQuery("booking:gets", params, groupB)

	if keyA == keyB {
		t.Error("expected distinct filters to produce distinct cache keys")
	}

	if keyA != shared.BuildCacheKeyWithQuery("booking:gets", params, groupA) {
		t.Error("expected cache key derivation to be deterministic")
	}
}
