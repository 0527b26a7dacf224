// Package validation holds small request-shape checks shared by DTOs.
// Anything with business meaning (cross-company references, role rules)
// belongs to the service layer, not here.
package validation

import (
	"net/mail"

	"github.com/google/uuid"
)

// ValidEmail reports whether s parses as an address.
func ValidEmail(s string) bool {
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

// ValidUUID reports whether s parses as a UUID.
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// OneOf reports whether v is one of the allowed values.
func OneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
