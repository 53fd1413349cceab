package store

import (
	"context"
	"errors"

	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
)

var (
	// ErrNotFound is returned by point lookups that match no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("record already exists")
)

// FieldIsPublic is the only file column UpdateFileField accepts.
const FieldIsPublic = "is_public"

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CountUsers(ctx context.Context) (int64, error)

	// File operations
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, id uint) (*models.File, error)
	GetOwnedFile(ctx context.Context, id, userID uint) (*models.File, error)
	ListFiles(ctx context.Context, filter models.FileFilter, limit, offset int) ([]models.File, error)
	UpdateFileField(ctx context.Context, id uint, field string, value any) error
	CountFiles(ctx context.Context) (int64, error)
}
