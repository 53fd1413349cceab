package files

import (
	"bytes"
	"io"
	"mime"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLimit matches the header size mimetype inspects by default.
const sniffLimit = 3072

// Content is an open content stream. Callers must close it.
type Content struct {
	io.ReadCloser
	ContentType string
	Name        string
}

// ContentType infers the type from the name extension and falls back to
// sniffing the leading bytes of r. The returned reader yields all of r.
// On error r is closed.
func ContentType(name string, r io.ReadCloser) (string, io.ReadCloser, error) {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct, r, nil
	}

	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		r.Close()
		return "", nil, err
	}
	head = head[:n]

	return mimetype.Detect(head).String(), &joinedReader{
		Reader: io.MultiReader(bytes.NewReader(head), r),
		closer: r,
	}, nil
}

type joinedReader struct {
	io.Reader
	closer io.Closer
}

func (j *joinedReader) Close() error {
	return j.closer.Close()
}
