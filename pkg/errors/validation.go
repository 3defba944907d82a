package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateUploadFilename validates the client-supplied name of an uploaded
// roster. It must be a plain basename: uploads are written into a shared
// directory and the name must not escape it.
func ValidateUploadFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidInput, "upload filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidInput, "upload filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "upload filename contains invalid control characters")
		}
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "upload filename cannot contain path separators")
	}

	if filename == "." || filename == ".." {
		return New(ErrCodeInvalidInput, "upload filename cannot be %q", filename)
	}

	if ext := strings.ToLower(filepath.Ext(filename)); ext != ".csv" {
		return New(ErrCodeInvalidInput, "upload must be a .csv file, got %q", filename)
	}

	return nil
}

// ValidateDir validates a directory setting before it is created or cleaned.
// Cleaning wipes the directory contents, so the filesystem root and empty
// paths are refused.
func ValidateDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "directory cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "directory contains invalid characters")
		}
	}

	clean := filepath.Clean(path)
	if clean == string(filepath.Separator) || clean == "." {
		return New(ErrCodeInvalidPath, "refusing to use %q as a working directory", path)
	}

	return nil
}
