package util

import (
	"errors"
	"strings"
)

var errInvalidFileName = errors.New("invalid file name")

const maxFileNameLen = 255

// SanitizeFileName normalizes a user-supplied file name so it is safe to embed
// in a storage key: path separators become underscores, traversal sequences and
// control bytes are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") || strings.ContainsRune(name, 0) {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" || len(s) > maxFileNameLen {
		return "", errInvalidFileName
	}
	return s, nil
}
