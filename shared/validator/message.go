package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var (
	messages = map[string]string{
		"required": "{field} is required",
		"gte":      "{field} must be greater than or equal to {param}",
		"lte":      "{field} must be less than or equal to {param}",
		"oneof":    "{field} must be one of {param}",
		"max":      "{field} must be less than or equal to {param}",
		"min":      "{field} must be greater than or equal to {param}",
		"email":    "{field} must be a valid email address",
		"uuid":     "{field} must be a valid UUID",
	}
)

// fields maps each rule violation to a per-field message, keyed by the
// struct field's JSON-ish name.
func fields(err error) map[string]string {
	var valErrors val.ValidationErrors

	out := map[string]string{}

	if !errors.As(err, &valErrors) {
		out["request"] = err.Error()

		return out
	}

	for _, valErr := range valErrors {
		field := toSnake(valErr.Field())

		msg := messages[valErr.Tag()]
		if msg == "" {
			out[field] = valErr.Error()

			continue
		}

		msg = strings.ReplaceAll(msg, "{field}", field)
		msg = strings.ReplaceAll(msg, "{param}", valErr.Param())

		out[field] = msg
	}

	return out
}

// toSnake converts an exported field name to snake_case, keeping runs of
// uppercase letters together so RoomID becomes room_id.
func toSnake(name string) string {
	var b strings.Builder

	runes := []rune(name)

	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			prevLower := i > 0 && runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'

			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}

			b.WriteRune(r - 'A' + 'a')

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
