// Package validation provides centralized input validation logic.
//
// Command construction is pure data; required-field presence and path safety
// are checked here at dispatch and composite-expansion time.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/releasekit/sitepub/errors"
)

// Require checks that a required command field is present (non-empty).
// Returns ErrInvalidCommand with the field name if it is missing.
func Require(op, field, value string) error {
	if value == "" {
		return errors.NewError(op, errors.ErrInvalidCommand).
			WithMessage(fmt.Sprintf("%s is required", field))
	}
	return nil
}

// RequireKey checks that an object key is present and free of control characters.
// S3 accepts nearly any UTF-8 key; control characters are never legitimate in
// published release artifacts and always indicate a construction bug.
func RequireKey(op, field, key string) error {
	if err := Require(op, field, key); err != nil {
		return err
	}
	if hasControlCharacters(key) {
		return errors.NewError(op, errors.ErrInvalidCommand).
			WithKey(key).
			WithMessage(fmt.Sprintf("%s cannot contain control characters", field))
	}
	return nil
}

// SecureRelativePath resolves rel against base, rejecting any path that would
// escape base. This prevents path traversal through hostile key names in
// remote listings: the operation fails rather than write outside base.
func SecureRelativePath(op, base, rel string) (string, error) {
	if rel == "" {
		return "", errors.NewError(op, errors.ErrInvalidCommand).
			WithMessage("relative path is empty")
	}
	if filepath.IsAbs(rel) {
		return "", errors.NewError(op, errors.ErrInvalidCommand).
			WithMessage(fmt.Sprintf("path %q is absolute", rel))
	}
	cleaned := filepath.Clean(rel)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", errors.NewError(op, errors.ErrInvalidCommand).
			WithMessage(fmt.Sprintf("path %q escapes the target directory", rel))
	}
	return filepath.Join(base, cleaned), nil
}

// hasControlCharacters checks for control characters in the key
func hasControlCharacters(key string) bool {
	for _, char := range key {
		if unicode.IsControl(char) {
			return true
		}
	}
	return false
}
