// Package thumbnail renders width-bounded variants of uploaded images.
package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strconv"

	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/metrics"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
	ErrImageTooLarge = errors.New("Image too large")
)

// DefaultMaxPixels bounds the declared size of an image before it is decoded.
const DefaultMaxPixels = 40_000_000

// DefaultWidths are the variants rendered when none are configured.
var DefaultWidths = []int{500, 250, 100}

type FileStore interface {
	GetOwnedFile(ctx context.Context, id, userID uint) (*models.File, error)
}

type Worker struct {
	files     FileStore
	blobs     blob.Store
	widths    []int
	maxPixels int
	logger    log.LoggerService
}

func NewWorker(files FileStore, blobs blob.Store, widths []int, logger log.LoggerService) *Worker {
	if len(widths) == 0 {
		widths = DefaultWidths
	}
	return &Worker{files: files, blobs: blobs, widths: widths, maxPixels: DefaultMaxPixels, logger: logger}
}

// WithMaxPixels changes the largest width times height the worker decodes.
func (w *Worker) WithMaxPixels(n int) *Worker {
	if n > 0 {
		w.maxPixels = n
	}
	return w
}

// Handle processes one job. Jobs for records that are not images are
// skipped without error.
func (w *Worker) Handle(ctx context.Context, job queue.Job) error {
	err := w.handle(ctx, job)
	switch {
	case errors.Is(err, errSkipped):
		metrics.RecordThumbnail(metrics.ResultSkipped)
		return nil
	case err != nil:
		metrics.RecordThumbnail(metrics.ResultFailed)
		return err
	}
	metrics.RecordThumbnail(metrics.ResultDone)
	return nil
}

var errSkipped = errors.New("not an image")

func (w *Worker) handle(ctx context.Context, job queue.Job) error {
	if job.FileID == 0 {
		return ErrMissingFileID
	}
	if job.UserID == 0 {
		return ErrMissingUserID
	}

	file, err := w.files.GetOwnedFile(ctx, job.FileID, job.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load file %d: %w", job.FileID, err)
	}
	if file.Type != "image" {
		return errSkipped
	}

	src, format, err := w.decode(ctx, file.LocalPath)
	if err != nil {
		return err
	}

	for _, width := range w.widths {
		data, err := encode(Scale(src, width), format)
		if err != nil {
			return fmt.Errorf("failed to encode %dpx variant of file %d: %w", width, file.ID, err)
		}

		path := file.LocalPath + "_" + strconv.Itoa(width)
		if err := w.blobs.Write(ctx, path, data); err != nil {
			return fmt.Errorf("failed to store %dpx variant of file %d: %w", width, file.ID, err)
		}
	}

	w.logger.Debug("Rendered %d variants for file %d", len(w.widths), file.ID)
	return nil
}

func (w *Worker) decode(ctx context.Context, path string) (image.Image, string, error) {
	rc, err := w.blobs.Open(ctx, path)
	if errors.Is(err, blob.ErrNotExist) {
		return nil, "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > w.maxPixels/cfg.Height {
		return nil, "", fmt.Errorf("%s is %dx%d: %w", path, cfg.Width, cfg.Height, ErrImageTooLarge)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, format, nil
}

// Scale resizes src to width keeping its aspect ratio.
func Scale(src image.Image, width int) image.Image {
	b := src.Bounds()
	height := b.Dy() * width / max(b.Dx(), 1)
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// encode writes img in its source format. Formats without an encoder are
// written as PNG.
func encode(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = png.Encode(&buf, img)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
