package assets

import (
	"context"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidPayload is returned when an inline image payload is empty or not decodable.
	ErrInvalidPayload = errors.New("invalid image payload")
	// ErrSourceNotFound is returned when a thumbnail source does not resolve to a stored file.
	ErrSourceNotFound = errors.New("source image not found")
)

// Store persists inline-encoded images and keeps derived thumbnails alongside
// them. Paths returned and accepted are relative (uploads/<namespace>/<name>).
type Store interface {
	// SaveBase64 decodes a base64 or data-URI image payload and stores it
	// under the given namespace, returning the relative path.
	SaveBase64(ctx context.Context, payload, namespace string) (string, error)
	// Thumbnail derives a reduced-size copy of sourcePath into the
	// namespace's thumbnails sub-directory.
	Thumbnail(ctx context.Context, sourcePath, namespace string) (string, error)
	// Remove deletes a stored file. Removing a missing path is not an error.
	Remove(ctx context.Context, path string) error
	// PublicURL resolves a stored path to a fully-qualified URL, or "" when
	// the underlying file no longer exists.
	PublicURL(ctx context.Context, path string) string
}

var dataURIPrefix = regexp.MustCompile(`^data:image/(\w+);base64,`)

// decodePayload strips an optional data-URI prefix and decodes the base64 body.
// The extension is taken from the media type, defaulting to png.
func decodePayload(payload string) ([]byte, string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, "", ErrInvalidPayload
	}
	ext := "png"
	if m := dataURIPrefix.FindStringSubmatch(payload); m != nil {
		ext = strings.ToLower(m[1])
		if ext == "jpg" {
			ext = "jpeg"
		}
		payload = payload[len(m[0]):]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", ErrInvalidPayload
	}
	if len(data) == 0 {
		return nil, "", ErrInvalidPayload
	}
	return data, ext, nil
}

// publicURL joins the configured base with a relative path, normalizing any
// backslashes left over from platform-specific joins.
func publicURL(base, rel string) string {
	return base + strings.ReplaceAll(rel, "\\", "/")
}
