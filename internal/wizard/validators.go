package wizard

import (
	"regexp"
	"strings"
)

// A minimal structural check: something@something.something with no
// whitespace or extra '@'. The class mirrors the browser's \s, which is
// wider than RE2's ASCII-only \s.
var emailPattern = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func IsNonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
