package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const uploadsRoot = "uploads"

// Local stores assets on the local filesystem under <dir>/uploads.
type Local struct {
	dir        string
	baseURL    string
	thumbWidth int
}

func NewLocal(dir, baseURL string, thumbWidth int) *Local {
	if thumbWidth <= 0 {
		thumbWidth = 200
	}
	return &Local{dir: dir, baseURL: baseURL, thumbWidth: thumbWidth}
}

func (l *Local) abs(rel string) string {
	return filepath.Join(l.dir, filepath.FromSlash(rel))
}

func (l *Local) SaveBase64(_ context.Context, payload, namespace string) (string, error) {
	data, ext, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + "." + ext
	rel := path.Join(uploadsRoot, namespace, name)
	if err := os.MkdirAll(filepath.Dir(l.abs(rel)), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(l.abs(rel), data, 0o644); err != nil {
		return "", err
	}
	return rel, nil
}

func (l *Local) Thumbnail(_ context.Context, sourcePath, namespace string) (string, error) {
	src := l.abs(sourcePath)
	img, err := imaging.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrSourceNotFound
		}
		return "", fmt.Errorf("decode %s: %w", sourcePath, err)
	}
	thumb := imaging.Resize(img, l.thumbWidth, 0, imaging.Lanczos)

	rel := path.Join(uploadsRoot, namespace, "thumbnails", path.Base(sourcePath))
	if err := os.MkdirAll(filepath.Dir(l.abs(rel)), 0o755); err != nil {
		return "", err
	}
	if err := imaging.Save(thumb, l.abs(rel)); err != nil {
		return "", err
	}
	return rel, nil
}

func (l *Local) Remove(_ context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := os.Remove(l.abs(p)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL checks the file still exists before building the URL so that
// stale references resolve to nothing instead of dead links.
func (l *Local) PublicURL(_ context.Context, p string) string {
	if p == "" {
		return ""
	}
	if _, err := os.Stat(l.abs(p)); err != nil {
		return ""
	}
	return publicURL(l.baseURL, p)
}

var _ Store = (*Local)(nil)
