package errors

import (
	"strings"
	"unicode"
)

// maxOriginIDLength bounds origin identifiers accepted from files and requests.
const maxOriginIDLength = 128

// ValidateOriginID validates an origin identifier from a catalog record,
// a selection file or a request body.
//
// The rules are conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No surrounding whitespace
//   - Maximum length of 128 characters
func ValidateOriginID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "origin id cannot be empty")
	}

	if len(id) > maxOriginIDLength {
		return New(ErrCodeInvalidInput, "origin id too long (max %d characters)", maxOriginIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "origin id contains invalid control characters")
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "origin id %q has surrounding whitespace", id)
	}

	return nil
}

// ValidateCatalogPath validates a catalog or selection file path given on
// the command line or in the configuration file.
func ValidateCatalogPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	return nil
}
