package pkg

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is a shape check only: something@something.tld, no whitespace.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// AnyEmpty reports whether any of values is empty after trimming spaces.
func AnyEmpty(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
