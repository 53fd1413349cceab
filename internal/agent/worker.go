package agent

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/Abdorithm/alx-files-manager/pkg/thumbnail"
)

// RunWorker consumes processing jobs and renders thumbnails until
// interrupted.
func RunWorker(ctx context.Context, cfg *config.BaseServerConfig) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := log.NewLoggerService("worker", cfg.Log)
	if closer, ok := logger.(io.Closer); ok {
		defer closer.Close()
	}

	metadata, err := openMetadataStore(ctx, cfg.Metadata)
	if err != nil {
		return err
	}
	defer metadata.Close()

	blobs, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	client, err := openRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	stream := queue.NewRedisStream(client, streamConfig(cfg.Queue), logger.Named("queue"))
	worker := thumbnail.NewWorker(metadata, blobs, cfg.Thumbnail.Widths, logger.Named("thumbnail")).
		WithMaxPixels(cfg.Thumbnail.MaxPixels)

	if pending, err := stream.Pending(ctx); err == nil && pending > 0 {
		logger.Warn("%d jobs are unacknowledged, those idle for over %s will be claimed", pending, cfg.Queue.ClaimIdle)
	}

	logger.Info("Consuming '%s' as '%s/%s'", cfg.Queue.Stream, cfg.Queue.Group, cfg.Queue.Consumer)
	if err := stream.Consume(ctx, worker.Handle); err != nil {
		return err
	}

	logger.Info("Worker stopped")
	return nil
}
