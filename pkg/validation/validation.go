// Package validation carries field-keyed validation failures from the
// services to the HTTP layer.
package validation

import "fmt"

// FieldErrors maps a field path, such as "name" or "0.amount", to the
// human-readable reason the value was rejected. It is returned whole so a
// client can correct every failing field in one round trip.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e))
}

// Add records a failure for the field unless one is already present.
func (e FieldErrors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// AddIndexed records a failure for a list element, keyed "{index}.{field}".
func (e FieldErrors) AddIndexed(index int, field, message string) {
	e.Add(fmt.Sprintf("%d.%s", index, field), message)
}

// Any reports whether at least one field failed.
func (e FieldErrors) Any() bool { return len(e) > 0 }
