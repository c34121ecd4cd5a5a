package utils

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 32
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// NormalizeUsername lowercases and trims an admin username. Usernames are
// stored and looked up in this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// ValidateUsername checks a normalized admin username: 3-32 characters of
// lowercase letters, digits, underscores and hyphens, starting with a letter
// or digit.
func ValidateUsername(username string) error {
	switch {
	case len(username) < MinUsernameLength:
		return fmt.Errorf("username must be at least %d characters", MinUsernameLength)
	case len(username) > MaxUsernameLength:
		return fmt.Errorf("username must be at most %d characters", MaxUsernameLength)
	case !usernameRegex.MatchString(username):
		return fmt.Errorf("username may only contain lowercase letters, digits, underscores and hyphens, and must start with a letter or digit")
	}
	return nil
}
