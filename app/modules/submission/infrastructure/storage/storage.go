// Package submissionstorage stores uploaded submission files.
package submissionstorage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrInvalidKey is returned for object keys that escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// Object is a stored file.
type Object struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// Storage uploads and deletes objects by key.
type Storage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (*Object, error)
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds the key of a submission file:
// <competition>/<phase>/<registration>/<field><ext>.
func ObjectKey(competition, phase, registrationID, field, ext string) string {
	return path.Join(strings.ToLower(competition), phase, registrationID, field+ext)
}

func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
