package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Abdorithm/alx-files-manager/pkg/db/migrations"
	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed metadata store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Connect configures the pool and verifies the database is reachable
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate applies pending schema migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := migrations.NewMigrator(s.db).Migrate(ctx)
	return err
}

func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// User operations

func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *SQLiteStore) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// File operations

func (s *SQLiteStore) CreateFile(ctx context.Context, file *models.File) error {
	return s.db.WithContext(ctx).Create(file).Error
}

func (s *SQLiteStore) GetFile(ctx context.Context, id uint) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (s *SQLiteStore) GetOwnedFile(ctx context.Context, id, userID uint) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&file).Error
	if err != nil {
		return nil, translate(err)
	}
	return &file, nil
}

func (s *SQLiteStore) ListFiles(ctx context.Context, filter models.FileFilter, limit, offset int) ([]models.File, error) {
	files := []models.File{}
	query := s.db.WithContext(ctx).
		Where("user_id = ?", filter.UserID).
		Order("id ASC")

	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&files).Error
	return files, err
}

func (s *SQLiteStore) UpdateFileField(ctx context.Context, id uint, field string, value any) error {
	if field != FieldIsPublic {
		return fmt.Errorf("field %q cannot be updated", field)
	}

	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", id).
		Update(field, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) CountFiles(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.File{}).Count(&count).Error
	return count, err
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
