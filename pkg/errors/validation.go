package errors

import (
	"strings"
	"unicode"
)

// ValidateComponentKey validates a component key before it is stored in a
// flow's components table. Keys index the deserialization side-table, so
// they must be simple printable identifiers.
//
// The validation rules are intentionally conservative:
//   - No empty keys
//   - No control characters
//   - No commas or parentheses (reserved by the flow-name grammar)
//   - Maximum length of 256 characters
func ValidateComponentKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidKey, "component key cannot be empty")
	}

	if len(key) > 256 {
		return New(ErrCodeInvalidKey, "component key too long (max 256 characters)")
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidKey, "component key contains invalid control characters")
		}
	}

	// Reserved by the derived-name grammar: Class(key=sub,key2=sub2)
	if strings.ContainsAny(key, ",()=") {
		return New(ErrCodeInvalidKey, "component key contains reserved characters: %q", key)
	}

	return nil
}
