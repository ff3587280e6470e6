// pkg/core/errors.go
package core

import "fmt"

// MalformedEventError reports an event that lacks a required field or
// carries a non-numeric value where an integer is required.
type MalformedEventError struct {
	Line   int
	Raw    string
	Field  string
	Reason string
	Err    error
}

func (e *MalformedEventError) Error() string {
	return fmt.Sprintf("malformed event at line %d: %s %s: %q", e.Line, e.Field, e.Reason, e.Raw)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// UnresolvedCountryError reports an entity that never had a spawn event
// assigning it a country.
type UnresolvedCountryError struct {
	Entity EntityID
	Role   string // "attacker" or "victim"
}

func (e *UnresolvedCountryError) Error() string {
	return fmt.Sprintf("no country recorded for %s %d", e.Role, e.Entity)
}
