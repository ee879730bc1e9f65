package errors

import (
	"slices"
	"strings"
	"unicode"
)

// maxNameLength bounds participant IDs and peer names.
const maxNameLength = 256

// ValidateParticipantID validates a participant identifier as submitted
// through a form or file. The ID is expected to be trimmed already.
//
// The rules are deliberately loose since names are free text:
//   - No empty IDs
//   - No control characters (including null bytes and newlines)
//   - Maximum length of 256 characters
func ValidateParticipantID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidParticipant, "participant ID cannot be empty")
	}
	if err := validateName(id); err != "" {
		return New(ErrCodeInvalidParticipant, "participant ID %s", err)
	}
	return nil
}

// ValidatePeerName validates a single preferred-peer name. Peer names follow
// the same rules as participant IDs but report ErrCodeInvalidInput.
func ValidatePeerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "peer name cannot be empty")
	}
	if err := validateName(name); err != "" {
		return New(ErrCodeInvalidInput, "peer name %q %s", name, err)
	}
	return nil
}

func validateName(s string) string {
	if len(s) > maxNameLength {
		return "too long (max 256 characters)"
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return "contains invalid control characters"
		}
	}
	return ""
}

// ValidateFormat checks that format is one of the allowed values
// (case-insensitive).
func ValidateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, strings.ToLower(format)) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "invalid format: %s (must be one of %s)", format, strings.Join(allowed, ", "))
}
