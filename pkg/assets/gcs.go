package assets

import (
	"bytes"
	"context"
	"errors"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// GCS stores assets as objects in a Google Cloud Storage bucket using the
// same relative-path contract as the local backend.
type GCS struct {
	client     *storage.Client
	bucket     string
	baseURL    string
	thumbWidth int
}

func NewGCS(client *storage.Client, bucket, baseURL string, thumbWidth int) *GCS {
	if thumbWidth <= 0 {
		thumbWidth = 200
	}
	return &GCS{client: client, bucket: bucket, baseURL: baseURL, thumbWidth: thumbWidth}
}

func (g *GCS) write(ctx context.Context, rel, contentType string, data []byte) error {
	w := g.client.Bucket(g.bucket).Object(rel).NewWriter(ctx)
	w.ContentType = contentType
	w.ChunkSize = 0 // small files, skip chunking
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *GCS) SaveBase64(ctx context.Context, payload, namespace string) (string, error) {
	data, ext, err := decodePayload(payload)
	if err != nil {
		return "", err
	}
	rel := path.Join(uploadsRoot, namespace, uuid.NewString()+"."+ext)
	if err := g.write(ctx, rel, "image/"+ext, data); err != nil {
		return "", err
	}
	return rel, nil
}

func (g *GCS) Thumbnail(ctx context.Context, sourcePath, namespace string) (string, error) {
	r, err := g.client.Bucket(g.bucket).Object(sourcePath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return "", ErrSourceNotFound
		}
		return "", err
	}
	defer func() { _ = r.Close() }()

	img, err := imaging.Decode(r)
	if err != nil {
		return "", err
	}
	thumb := imaging.Resize(img, g.thumbWidth, 0, imaging.Lanczos)

	var buf bytes.Buffer
	format, err := imaging.FormatFromFilename(sourcePath)
	if err != nil {
		format = imaging.PNG
	}
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return "", err
	}
	rel := path.Join(uploadsRoot, namespace, "thumbnails", path.Base(sourcePath))
	if err := g.write(ctx, rel, r.Attrs.ContentType, buf.Bytes()); err != nil {
		return "", err
	}
	return rel, nil
}

func (g *GCS) Remove(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	err := g.client.Bucket(g.bucket).Object(p).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

func (g *GCS) PublicURL(ctx context.Context, p string) string {
	if p == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := g.client.Bucket(g.bucket).Object(p).Attrs(ctx); err != nil {
		return ""
	}
	return publicURL(g.baseURL, p)
}

var _ Store = (*GCS)(nil)
