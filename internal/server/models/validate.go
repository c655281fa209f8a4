package models

import (
	"strings"
	"unicode/utf8"
)

// MinNameLength is counted in characters, not bytes.
const MinNameLength = 4

// ValidationErrors maps a field name ("name", "email") to its message.
type ValidationErrors map[string]string

// NormalizeInput trims surrounding whitespace from submitted fields.
func NormalizeInput(name, email string) (string, string) {
	return strings.TrimSpace(name), strings.TrimSpace(email)
}

// ValidateUserInput checks that both fields are present and the name is
// long enough. The name check does not depend on the email.
func ValidateUserInput(name, email string) ValidationErrors {
	errs := ValidationErrors{}
	switch {
	case name == "":
		errs["name"] = "Name is required"
	case utf8.RuneCountInString(name) < MinNameLength:
		errs["name"] = "Name must be at least 4 characters long"
	}
	if email == "" {
		errs["email"] = "Email is required"
	}
	return errs
}
