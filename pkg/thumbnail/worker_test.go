package thumbnail

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memFiles map[uint]*models.File

func (m memFiles) GetOwnedFile(_ context.Context, id, userID uint) (*models.File, error) {
	f, ok := m[id]
	if !ok || f.UserID != userID {
		return nil, store.ErrNotFound
	}
	return f, nil
}

func writeImage(t *testing.T, path string, w, h int, asJPEG bool) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err)
	return img, format
}

func TestHandleRendersVariants(t *testing.T) {
	dir := t.TempDir()
	png1 := filepath.Join(dir, "a")
	jpg1 := filepath.Join(dir, "b")
	writeImage(t, png1, 1000, 600, false)
	writeImage(t, jpg1, 800, 400, true)

	files := memFiles{
		1: {ID: 1, UserID: 7, Type: "image", LocalPath: png1},
		2: {ID: 2, UserID: 7, Type: "image", LocalPath: jpg1},
	}
	w := NewWorker(files, blob.NewLocalStore(), nil, log.NewDiscardLogger())

	require.NoError(t, w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1}))
	require.NoError(t, w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 2}))

	for _, tc := range []struct {
		path   string
		width  int
		height int
		format string
	}{
		{png1 + "_500", 500, 300, "png"},
		{png1 + "_250", 250, 150, "png"},
		{png1 + "_100", 100, 60, "png"},
		{jpg1 + "_500", 500, 250, "jpeg"},
		{jpg1 + "_100", 100, 50, "jpeg"},
	} {
		img, format := decodeFile(t, tc.path)
		assert.Equal(t, tc.format, format, tc.path)
		assert.Equal(t, tc.width, img.Bounds().Dx(), tc.path)
		assert.Equal(t, tc.height, img.Bounds().Dy(), tc.path)
	}
}

func TestHandleRejectsBadJobs(t *testing.T) {
	dir := t.TempDir()
	files := memFiles{
		1: {ID: 1, UserID: 7, Type: "image", LocalPath: filepath.Join(dir, "missing")},
	}
	w := NewWorker(files, blob.NewLocalStore(), []int{10}, log.NewDiscardLogger())
	ctx := context.Background()

	assert.ErrorIs(t, w.Handle(ctx, queue.Job{UserID: 7}), ErrMissingFileID)
	assert.ErrorIs(t, w.Handle(ctx, queue.Job{FileID: 1}), ErrMissingUserID)
	assert.ErrorIs(t, w.Handle(ctx, queue.Job{UserID: 8, FileID: 1}), ErrFileNotFound)
	assert.ErrorIs(t, w.Handle(ctx, queue.Job{UserID: 7, FileID: 2}), ErrFileNotFound)
	assert.ErrorIs(t, w.Handle(ctx, queue.Job{UserID: 7, FileID: 1}), ErrFileNotFound)
}

func TestHandleSkipsNonImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	files := memFiles{1: {ID: 1, UserID: 7, Type: "file", LocalPath: path}}
	w := NewWorker(files, blob.NewLocalStore(), []int{10}, log.NewDiscardLogger())

	require.NoError(t, w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1}))
	_, err := os.Stat(path + "_10")
	assert.True(t, os.IsNotExist(err))
}

func TestHandleRejectsUndecodableImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "junk")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))

	files := memFiles{1: {ID: 1, UserID: 7, Type: "image", LocalPath: path}}
	w := NewWorker(files, blob.NewLocalStore(), []int{10}, log.NewDiscardLogger())

	err := w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFileNotFound)
}

// hugePNG returns a valid PNG header declaring width x height with no pixel
// data behind it.
func hugePNG(t *testing.T, width, height uint32) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))))
	data := buf.Bytes()

	// IHDR follows the 8 byte signature: length, type, 13 data bytes, crc.
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestHandleRefusesOversizedImages(t *testing.T) {
	dir := t.TempDir()

	t.Run("declared dimensions", func(t *testing.T) {
		path := filepath.Join(dir, "bomb")
		require.NoError(t, os.WriteFile(path, hugePNG(t, 100000, 100000), 0o600))

		files := memFiles{1: {ID: 1, UserID: 7, Type: "image", LocalPath: path}}
		w := NewWorker(files, blob.NewLocalStore(), []int{10}, log.NewDiscardLogger())

		err := w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1})
		assert.ErrorIs(t, err, ErrImageTooLarge)

		_, err = os.Stat(path + "_10")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("configured limit", func(t *testing.T) {
		path := filepath.Join(dir, "wide.png")
		writeImage(t, path, 40, 20, false)

		files := memFiles{1: {ID: 1, UserID: 7, Type: "image", LocalPath: path}}
		w := NewWorker(files, blob.NewLocalStore(), []int{10}, log.NewDiscardLogger()).WithMaxPixels(799)
		assert.ErrorIs(t, w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1}), ErrImageTooLarge)

		w.WithMaxPixels(800)
		require.NoError(t, w.Handle(context.Background(), queue.Job{UserID: 7, FileID: 1}))
	})
}

func TestScaleKeepsAspectRatio(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 300, 3))
	dst := Scale(src, 100)
	assert.Equal(t, 100, dst.Bounds().Dx())
	assert.Equal(t, 1, dst.Bounds().Dy())

	dst = Scale(image.NewRGBA(image.Rect(0, 0, 1000, 1)), 10)
	assert.Equal(t, 1, dst.Bounds().Dy())
}
