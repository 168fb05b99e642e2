package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIDLength bounds node and template identifiers.
const maxIDLength = 128

// ValidateID validates a room graph node or template identifier.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - Maximum length of 128 characters
//
// Identifiers end up in cache keys, DOT output and URLs, so anything that
// would need escaping in those places is rejected.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains whitespace or control characters", kind, id)
		}
	}

	if strings.ContainsAny(id, `"\/`) {
		return New(ErrCodeInvalidInput, "%s id %q contains invalid characters", kind, id)
	}

	return nil
}

// ValidateLevelFilename validates a level descriptor filename.
// Only .toml and .json descriptors are understood.
func ValidateLevelFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidLevel, "level filename cannot be empty")
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml", ".json":
		return nil
	default:
		return New(ErrCodeInvalidLevel, "unsupported level file %q (want .toml or .json)", filepath.Base(filename))
	}
}

// ValidatePath validates an output path supplied by a user.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
