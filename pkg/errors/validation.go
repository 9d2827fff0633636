package errors

import (
	"path"
	"strings"
	"unicode"
)

// ValidateArchivePath validates a member path inside an OOXML package
// (for example a relationship target such as "../media/image1.png" once it
// has been resolved against its part directory).
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths
//   - Must not escape the package root after cleaning
//   - No backslashes
func ValidateArchivePath(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPath, "archive path cannot be empty")
	}

	const maxPathLength = 500
	if len(p) > maxPathLength {
		return New(ErrCodeInvalidPath, "archive path too long (max %d characters)", maxPathLength)
	}

	for _, r := range p {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "archive path contains invalid characters")
		}
	}

	if strings.HasPrefix(p, "/") {
		return New(ErrCodeInvalidPath, "archive path must be relative (cannot start with /)")
	}

	if strings.Contains(p, "\\") {
		return New(ErrCodeInvalidPath, "archive path cannot contain backslashes")
	}

	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return New(ErrCodeInvalidPath, "archive path escapes the package root: %q", p)
	}

	return nil
}

// ValidateOutputName validates a generated file name before it is written
// into an output directory. It must be a plain basename.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPath, "file name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPath, "file name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidPath, "file name cannot be %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "file name contains invalid control characters")
		}
	}
	return nil
}
