package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateIndex checks that i addresses an element of a sequence of length n.
func ValidateIndex(what string, i, n int) error {
	if i < 0 || i >= n {
		return New(ErrCodeIndexOutOfRange, "%s index %d out of range [0, %d)", what, i, n)
	}
	return nil
}

// ValidateScrub checks that pos is a scrub position for n layers.
// Unlike layer indices, n itself is valid and means "all layers".
func ValidateScrub(pos, n int) error {
	if pos < 0 || pos > n {
		return New(ErrCodeIndexOutOfRange, "scrub position %d out of range [0, %d]", pos, n)
	}
	return nil
}

// ValidatePath validates a model or gcode path supplied by an operator or
// a remote client.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateExtension checks path against a set of allowed extensions.
// Matching is case-insensitive ("part.STL" is a valid ".stl" file).
func ValidateExtension(path string, allowed ...string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, a := range allowed {
		if ext == a {
			return nil
		}
	}
	return New(ErrCodeInvalidPath, "unsupported file type %q (want one of %s)", ext, strings.Join(allowed, ", "))
}
