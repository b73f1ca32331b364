package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBase64 renders a small solid image and returns its base64-encoded PNG bytes.
func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestLocalSaveBase64(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8080/", 50)
	ctx := context.Background()

	rel, err := store.SaveBase64(ctx, pngBase64(t, 4, 4), "product_images")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "uploads/product_images/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.NoError(t, err)
}

func TestLocalSaveBase64StripsDataURI(t *testing.T) {
	store := NewLocal(t.TempDir(), "http://localhost:8080/", 50)

	rel, err := store.SaveBase64(context.Background(), "data:image/png;base64,"+pngBase64(t, 2, 2), "category_images")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".png"))
}

func TestLocalSaveBase64JPGMapsToJPEG(t *testing.T) {
	store := NewLocal(t.TempDir(), "http://localhost:8080/", 50)

	// extension comes from the declared media type, not the bytes
	rel, err := store.SaveBase64(context.Background(), "data:image/jpg;base64,"+pngBase64(t, 2, 2), "brand_images")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".jpeg"))
}

func TestLocalSaveBase64InvalidPayload(t *testing.T) {
	store := NewLocal(t.TempDir(), "http://localhost:8080/", 50)
	ctx := context.Background()

	_, err := store.SaveBase64(ctx, "", "product_images")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	_, err = store.SaveBase64(ctx, "!!not base64!!", "product_images")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestLocalThumbnail(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8080/", 8)
	ctx := context.Background()

	rel, err := store.SaveBase64(ctx, pngBase64(t, 32, 32), "category_images")
	require.NoError(t, err)

	thumb, err := store.Thumbnail(ctx, rel, "category_images")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(thumb, "uploads/category_images/thumbnails/"))

	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(thumb)))
	require.NoError(t, err)
	defer f.Close()
	img, _, err := image.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestLocalThumbnailMissingSource(t *testing.T) {
	store := NewLocal(t.TempDir(), "http://localhost:8080/", 50)

	_, err := store.Thumbnail(context.Background(), "uploads/category_images/missing.png", "category_images")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestLocalRemoveIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	store := NewLocal(dir, "http://localhost:8080/", 50)
	ctx := context.Background()

	rel, err := store.SaveBase64(ctx, pngBase64(t, 2, 2), "product_images")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, rel))
	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(rel)))
	assert.True(t, os.IsNotExist(err))

	// removing again is not an error
	assert.NoError(t, store.Remove(ctx, rel))
	assert.NoError(t, store.Remove(ctx, ""))
}

func TestLocalPublicURL(t *testing.T) {
	store := NewLocal(t.TempDir(), "http://localhost:8080/", 50)
	ctx := context.Background()

	rel, err := store.SaveBase64(ctx, pngBase64(t, 2, 2), "product_images")
	require.NoError(t, err)

	url := store.PublicURL(ctx, rel)
	assert.Equal(t, "http://localhost:8080/"+rel, url)

	// stale reference resolves to nothing
	require.NoError(t, store.Remove(ctx, rel))
	assert.Empty(t, store.PublicURL(ctx, rel))
	assert.Empty(t, store.PublicURL(ctx, ""))
}

func TestPublicURLNormalizesBackslashes(t *testing.T) {
	assert.Equal(t, "http://x/uploads/a/b.png", publicURL("http://x/", `uploads\a\b.png`))
}
