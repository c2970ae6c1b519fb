package util

import (
	"regexp"

	"github.com/oklog/ulid/v2"
)

var ulidPattern = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)

// NewULID generates a new ULID string.
// ulid.Make is monotonic within the same millisecond, so ids generated in
// sequence sort in generation order.
func NewULID() string {
	return ulid.Make().String()
}

// IsValidULID reports whether s is a canonical (upper-case Crockford base32) ULID.
func IsValidULID(s string) bool {
	return ulidPattern.MatchString(s)
}
