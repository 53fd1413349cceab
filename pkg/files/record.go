// Package files implements the file manager: creation, lookup, listing,
// visibility and content delivery of folder, file and image records.
package files

import (
	"fmt"

	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
)

type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

func ParseKind(s string) (Kind, bool) {
	switch k := Kind(s); k {
	case KindFolder, KindFile, KindImage:
		return k, true
	}
	return "", false
}

// RootID is the parent of top level records.
const RootID uint = 0

// Projection is the caller-visible view of a record.
type Projection struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Kind     Kind   `json:"kind"`
	ParentID uint   `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	OwnerID  uint   `json:"ownerId"`
}

// Record is one of Folder, *File or *Image.
type Record interface {
	Projection() Projection
	record()
}

// Stored is a record with bytes in the blob store. Folders never satisfy it.
type Stored interface {
	Record
	LocalPath() string
}

type Folder struct {
	p Projection
}

func (f Folder) Projection() Projection { return f.p }
func (Folder) record()                  {}

type File struct {
	p         Projection
	localPath string
}

func (f *File) Projection() Projection { return f.p }
func (f *File) LocalPath() string      { return f.localPath }
func (*File) record()                  {}

// Image is a file whose bytes may have thumbnail variants next to them.
type Image struct {
	File
}

// VariantPath names the thumbnail variant of the image for size.
func (i *Image) VariantPath(size string) string {
	return i.localPath + "_" + size
}

func fromModel(m *models.File) (Record, error) {
	p := Projection{
		ID:       m.ID,
		Name:     m.Name,
		Kind:     Kind(m.Type),
		ParentID: m.ParentID,
		IsPublic: m.IsPublic,
		OwnerID:  m.UserID,
	}

	switch p.Kind {
	case KindFolder:
		return Folder{p: p}, nil
	case KindFile:
		return &File{p: p, localPath: m.LocalPath}, nil
	case KindImage:
		return &Image{File{p: p, localPath: m.LocalPath}}, nil
	}
	return nil, fmt.Errorf("record %d has unknown kind %q", m.ID, m.Type)
}
