package migrations

import (
	"context"
	"fmt"

	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"gorm.io/gorm"
)

// Migration represents a single schema step
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// migrationHistory tracks applied migrations
type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// MigrationStatus reports whether a known migration has been applied
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
}

type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Migrate applies every pending migration in version order and returns
// the versions it applied.
func (m *Migrator) Migrate(ctx context.Context) ([]int, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var done []int
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		if err := m.runMigration(ctx, migration); err != nil {
			return done, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		done = append(done, migration.Version)
	}

	return done, nil
}

// Rollback reverts the most recently applied migration and returns its version.
func (m *Migrator) Rollback(ctx context.Context) (int, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return 0, err
	}

	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return 0, fmt.Errorf("no migrations to rollback: %w", err)
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			migration = &m.migrations[i]
			break
		}
	}
	if migration == nil {
		return 0, fmt.Errorf("migration %d not found", last.Version)
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		return tx.Delete(&last).Error
	})
	if err != nil {
		return 0, err
	}

	return last.Version, nil
}

func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		statuses = append(statuses, MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
			Applied:     applied[migration.Version],
		})
	}

	return statuses, nil
}

func (m *Migrator) ensureHistory(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return fmt.Errorf("failed to create migration history table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	if err := m.ensureHistory(ctx); err != nil {
		return nil, err
	}

	var applied []migrationHistory
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	versions := make(map[int]bool, len(applied))
	for _, a := range applied {
		versions[a.Version] = true
	}
	return versions, nil
}

func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		return tx.Create(&migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}).Error
	})
}

func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.User{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.User{})
			},
		},
		{
			Version:     2,
			Description: "Create files table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.File{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable(&models.File{})
			},
		},
	}
}
