package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Abdorithm/alx-files-manager/internal/api"
	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"github.com/Abdorithm/alx-files-manager/internal/server"
	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/files"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/mwantia/fabric/pkg/container"
	"github.com/redis/go-redis/v9"
)

// FilesManagerAgent hosts the HTTP API and owns the lifecycle of every
// backend it connects to.
type FilesManagerAgent struct {
	mutex sync.RWMutex
	wait  sync.WaitGroup

	cfg *config.BaseServerConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	metadata   *store.SQLiteStore
	redis      *redis.Client
	dispatcher *queue.Dispatcher
	server     *server.Server
}

func NewAgent(cfg *config.BaseServerConfig) *FilesManagerAgent {
	return &FilesManagerAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("filesmanager", cfg.Log),
	}
}

func (fma *FilesManagerAgent) setupServices(ctx context.Context) error {
	var err error

	fma.log.Debug("Opening metadata store at '%s'...", fma.cfg.Metadata.SQLite.Path)
	if fma.metadata, err = openMetadataStore(ctx, fma.cfg.Metadata); err != nil {
		return err
	}

	fma.log.Debug("Opening '%s' blob store...", fma.cfg.Storage.Type)
	blobs, err := openBlobStore(ctx, fma.cfg.Storage)
	if err != nil {
		return err
	}

	fma.log.Debug("Connecting to redis at '%s'...", fma.cfg.Redis.Address)
	if fma.redis, err = openRedis(ctx, fma.cfg.Redis); err != nil {
		return err
	}

	tokens := auth.NewTokenStore(fma.redis, config.Duration(fma.cfg.Auth.TokenTTL, 24*time.Hour))

	var verifier *auth.JWTVerifier
	if fma.cfg.Auth.JWTSecret != "" {
		verifier = auth.NewJWTVerifier(fma.cfg.Auth.JWTSecret)
	}
	resolver := auth.NewResolver(fma.metadata, tokens, verifier)

	stream := queue.NewRedisStream(fma.redis, streamConfig(fma.cfg.Queue), fma.log.Named("queue"))
	fma.dispatcher = queue.NewDispatcher(stream, fma.cfg.Queue.Buffer, fma.log.Named("dispatcher"))

	errs := container.Errors{}

	fma.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](fma.sc,
		container.With[log.LoggerService](),
		container.WithInstance(fma.log)))

	fma.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.SQLiteStore](fma.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(fma.metadata)))

	fma.log.Debug("Registering 'BlobStore'...")
	switch b := blobs.(type) {
	case *blob.S3Store:
		errs.Add(container.Register[blob.S3Store](fma.sc,
			container.With[blob.Store](),
			container.WithInstance(b)))
	case *blob.LocalStore:
		errs.Add(container.Register[blob.LocalStore](fma.sc,
			container.With[blob.Store](),
			container.WithInstance(b)))
	}

	fma.log.Debug("Registering 'Resolver'...")
	errs.Add(container.Register[auth.Resolver](fma.sc,
		container.With[files.Resolver](),
		container.WithInstance(resolver)))

	fma.log.Debug("Registering 'JobSink'...")
	errs.Add(container.Register[queue.Dispatcher](fma.sc,
		container.With[files.JobSink](),
		container.WithInstance(fma.dispatcher)))

	if err := errs.Errors(); err != nil {
		return err
	}

	handler, err := fma.newRouter(ctx, tokens)
	if err != nil {
		return err
	}
	fma.server = server.New(fma.cfg.HTTP, handler, fma.log.Named("http"))

	return nil
}

// newRouter assembles the API from the registered services.
func (fma *FilesManagerAgent) newRouter(ctx context.Context, tokens *auth.TokenStore) (http.Handler, error) {
	metadata, err := resolve[store.MetadataStore](ctx, fma.sc)
	if err != nil {
		return nil, err
	}
	blobs, err := resolve[blob.Store](ctx, fma.sc)
	if err != nil {
		return nil, err
	}
	resolver, err := resolve[files.Resolver](ctx, fma.sc)
	if err != nil {
		return nil, err
	}
	sink, err := resolve[files.JobSink](ctx, fma.sc)
	if err != nil {
		return nil, err
	}

	manager := files.New(files.Config{FolderPath: fma.cfg.Storage.FolderPath},
		metadata, blobs, sink, resolver, fma.log.Named("files"))

	return api.NewRouter(api.Options{
		Files:       manager,
		Accounts:    auth.NewAccounts(metadata, tokens),
		Resolver:    resolver,
		Redis:       tokens,
		Database:    api.PingFunc(metadata.Health),
		Counter:     metadata,
		Logger:      fma.log.Named("api"),
		MaxBodySize: fma.cfg.HTTP.MaxBodySize,
	}), nil
}

func (fma *FilesManagerAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fma.mutex.Lock()

	if err := fma.setupServices(ctx); err != nil {
		fma.mutex.Unlock()
		fma.release()
		return err
	}

	// The dispatcher outlives the signal so buffered jobs still drain.
	dispatch, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	fma.wait.Add(1)
	go func() {
		defer fma.wait.Done()
		fma.dispatcher.Run(dispatch)
	}()

	errc, err := fma.server.Start()
	if err != nil {
		fma.mutex.Unlock()
		stopDispatch()
		fma.wait.Wait()
		fma.release()
		return err
	}

	fma.mutex.Unlock()

	var serveErr error
	select {
	case <-ctx.Done():
		fma.log.Info("Received shutdown signal")
	case serveErr = <-errc:
	}

	timeout := config.Duration(fma.cfg.ShutdownTimeout, 60*time.Second)
	shutdown, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := fma.server.Shutdown(shutdown); err != nil {
		fma.log.Error("%v", err)
	}

	if err := fma.dispatcher.Close(shutdown); err != nil {
		fma.log.Warn("Queue dispatcher did not drain: %v", err)
	}
	stopDispatch()

	fma.wait.Wait()

	cleanupErr := fma.sc.Cleanup(shutdown)
	fma.release()

	if cleanupErr != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", cleanupErr)
	}
	return serveErr
}

// release closes backend connections in reverse order of opening.
func (fma *FilesManagerAgent) release() {
	if fma.redis != nil {
		if err := fma.redis.Close(); err != nil {
			fma.log.Warn("Failed to close redis client: %v", err)
		}
	}
	if fma.metadata != nil {
		if err := fma.metadata.Close(); err != nil {
			fma.log.Warn("Failed to close metadata store: %v", err)
		}
	}
	if closer, ok := fma.log.(io.Closer); ok {
		closer.Close()
	}
}
