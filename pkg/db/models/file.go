package models

import (
	"time"
)

// File is the persisted form of a folder, file or image record.
// LocalPath is empty for folders and is never serialized.
type File struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"type:text;not null"`
	Type     string `gorm:"type:text;not null"`
	ParentID uint   `gorm:"not null;default:0;index:idx_owner_parent"`
	UserID   uint   `gorm:"not null;index:idx_owner_parent"`
	IsPublic bool   `gorm:"not null;default:false"`

	LocalPath string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FileFilter narrows a file listing. A nil ParentID matches every parent.
type FileFilter struct {
	UserID   uint
	ParentID *uint
}
