package agent

import (
	"context"
	"fmt"
	"reflect"

	config "github.com/Abdorithm/alx-files-manager/internal/config/server"
	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/mwantia/fabric/pkg/container"
	"github.com/redis/go-redis/v9"
)

// openMetadataStore opens, checks and migrates the metadata database.
func openMetadataStore(ctx context.Context, cfg config.MetadataServerConfig) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.SQLite.Path})
	if err != nil {
		return nil, err
	}

	if err := st.Connect(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to connect metadata store: %w", err)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to migrate metadata store: %w", err)
	}

	return st, nil
}

func openBlobStore(ctx context.Context, cfg config.StorageServerConfig) (blob.Store, error) {
	switch cfg.Type {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return blob.NewLocalStore(), nil
	}
}

func openRedis(ctx context.Context, cfg config.RedisServerConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Address, err)
	}
	return client, nil
}

func streamConfig(cfg config.QueueServerConfig) queue.StreamConfig {
	return queue.StreamConfig{
		Stream:    cfg.Stream,
		Group:     cfg.Group,
		Consumer:  cfg.Consumer,
		Block:     config.Duration(cfg.Block, 0),
		ClaimIdle: config.Duration(cfg.ClaimIdle, 0),
	}
}

// resolve looks a registered service up by its interface type.
func resolve[T any](ctx context.Context, sc *container.ServiceContainer) (T, error) {
	var zero T
	typ := reflect.TypeOf((*T)(nil)).Elem()

	ok, resolved := sc.ResolveByType(ctx, typ)
	if !ok {
		return zero, fmt.Errorf("no service registered for %s", typ)
	}

	svc, ok := resolved.(T)
	if !ok {
		return zero, fmt.Errorf("registered service is not a %s", typ)
	}
	return svc, nil
}
