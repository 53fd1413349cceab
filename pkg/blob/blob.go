// Package blob stores uploaded file content addressed by path.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned by Open when nothing is stored at the path.
var ErrNotExist = errors.New("blob does not exist")

// Store is a path-addressed byte store. Paths are the record localPath
// values composed by the file manager from the storage root.
type Store interface {
	// EnsureDir creates dir and its parents; an existing dir is not an error.
	EnsureDir(ctx context.Context, dir string) error
	Exists(ctx context.Context, path string) (bool, error)
	Write(ctx context.Context, path string, data []byte) error
	// Open returns the content at path. Callers must close the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}
