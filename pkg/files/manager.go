package files

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Abdorithm/alx-files-manager/pkg/auth"
	"github.com/Abdorithm/alx-files-manager/pkg/blob"
	"github.com/Abdorithm/alx-files-manager/pkg/db/models"
	"github.com/Abdorithm/alx-files-manager/pkg/db/store"
	"github.com/Abdorithm/alx-files-manager/pkg/log"
	"github.com/Abdorithm/alx-files-manager/pkg/metrics"
	"github.com/Abdorithm/alx-files-manager/pkg/queue"
	"github.com/google/uuid"
)

// PageSize is the fixed number of records per listing page.
const PageSize = 20

// Store is the metadata persistence the manager needs.
type Store interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, id uint) (*models.File, error)
	GetOwnedFile(ctx context.Context, id, userID uint) (*models.File, error)
	ListFiles(ctx context.Context, filter models.FileFilter, limit, offset int) ([]models.File, error)
	UpdateFileField(ctx context.Context, id uint, field string, value any) error
}

type Resolver interface {
	Resolve(ctx context.Context, cred auth.Credential) (*auth.Principal, error)
}

// JobSink accepts processing jobs without blocking.
type JobSink interface {
	Enqueue(ctx context.Context, job queue.Job) error
}

type Config struct {
	// FolderPath is the storage root new content is written under.
	FolderPath string
}

// Manager is stateless between calls; every collaborator is injected.
type Manager struct {
	root     string
	store    Store
	blobs    blob.Store
	sink     JobSink
	resolver Resolver
	logger   log.LoggerService
}

func New(cfg Config, st Store, blobs blob.Store, sink JobSink, resolver Resolver, logger log.LoggerService) *Manager {
	root := cfg.FolderPath
	if root == "" {
		root = "/tmp/files_manager"
	}
	return &Manager{
		root:     root,
		store:    st,
		blobs:    blobs,
		sink:     sink,
		resolver: resolver,
		logger:   logger,
	}
}

type UploadInput struct {
	Name     string
	Kind     string
	ParentID string
	IsPublic bool
	Data     string
}

// Upload creates a folder, file or image record. Content is written before
// the metadata row so a row never points at missing bytes.
func (m *Manager) Upload(ctx context.Context, cred auth.Credential, in UploadInput) (Projection, error) {
	principal, err := m.authenticate(ctx, cred)
	if err != nil {
		return Projection{}, err
	}

	if in.Name == "" {
		return Projection{}, ErrMissingName
	}
	kind, ok := ParseKind(in.Kind)
	if !ok {
		return Projection{}, ErrMissingType
	}
	if kind != KindFolder && in.Data == "" {
		return Projection{}, ErrMissingData
	}

	parentID, err := m.checkParent(ctx, in.ParentID)
	if err != nil {
		return Projection{}, err
	}

	row := &models.File{
		Name:     in.Name,
		Type:     string(kind),
		ParentID: parentID,
		UserID:   principal.ID,
		IsPublic: in.IsPublic,
	}

	var size int
	if kind != KindFolder {
		data, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return Projection{}, ErrInvalidData
		}
		size = len(data)

		if err := m.blobs.EnsureDir(ctx, m.root); err != nil {
			return Projection{}, fmt.Errorf("failed to prepare storage root: %w", err)
		}

		row.LocalPath = filepath.Join(m.root, uuid.NewString())
		if err := m.blobs.Write(ctx, row.LocalPath, data); err != nil {
			return Projection{}, fmt.Errorf("failed to store content: %w", err)
		}
	}

	if err := m.store.CreateFile(ctx, row); err != nil {
		return Projection{}, fmt.Errorf("failed to create record: %w", err)
	}
	metrics.RecordUpload(string(kind), size)

	rec, err := fromModel(row)
	if err != nil {
		return Projection{}, err
	}

	if _, ok := rec.(*Image); ok {
		job := queue.Job{UserID: principal.ID, FileID: row.ID}
		if err := m.sink.Enqueue(ctx, job); err != nil {
			m.logger.Warn("Thumbnail job for file %d not queued: %v", row.ID, err)
		}
	}

	return rec.Projection(), nil
}

// Show returns one of the principal's own records.
func (m *Manager) Show(ctx context.Context, cred auth.Credential, id string) (Projection, error) {
	principal, err := m.authenticate(ctx, cred)
	if err != nil {
		return Projection{}, err
	}

	rec, err := m.owned(ctx, id, principal.ID)
	if err != nil {
		return Projection{}, err
	}
	return rec.Projection(), nil
}

// List pages through the principal's own records, optionally under one
// parent. Public records of other principals are never listed.
func (m *Manager) List(ctx context.Context, cred auth.Credential, parentID, page string) ([]Projection, error) {
	principal, err := m.authenticate(ctx, cred)
	if err != nil {
		return nil, err
	}

	filter := models.FileFilter{UserID: principal.ID}
	if parentID != "" {
		id, err := strconv.ParseUint(parentID, 10, 64)
		if err != nil {
			return nil, ErrInvalidParentID
		}
		pid := uint(id)
		filter.ParentID = &pid
	}

	n := parsePage(page)
	rows, err := m.store.ListFiles(ctx, filter, PageSize, (n-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	out := make([]Projection, 0, len(rows))
	for i := range rows {
		rec, err := fromModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rec.Projection())
	}
	return out, nil
}

func (m *Manager) Publish(ctx context.Context, cred auth.Credential, id string) (Projection, error) {
	return m.SetPublic(ctx, cred, id, true)
}

func (m *Manager) Unpublish(ctx context.Context, cred auth.Credential, id string) (Projection, error) {
	return m.SetPublic(ctx, cred, id, false)
}

// SetPublic sets the visibility of one of the principal's records and
// returns it as stored afterwards.
func (m *Manager) SetPublic(ctx context.Context, cred auth.Credential, id string, public bool) (Projection, error) {
	principal, err := m.authenticate(ctx, cred)
	if err != nil {
		return Projection{}, err
	}

	rec, err := m.owned(ctx, id, principal.ID)
	if err != nil {
		return Projection{}, err
	}

	recordID := rec.Projection().ID
	if err := m.store.UpdateFileField(ctx, recordID, store.FieldIsPublic, public); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Projection{}, ErrNotFound
		}
		return Projection{}, fmt.Errorf("failed to update record %d: %w", recordID, err)
	}

	updated, err := m.owned(ctx, id, principal.ID)
	if err != nil {
		return Projection{}, err
	}
	return updated.Projection(), nil
}

// Content opens the bytes of a record. Private records are served to their
// owner only; every denial reads as not found.
func (m *Manager) Content(ctx context.Context, cred auth.Credential, id, size string) (*Content, error) {
	recordID, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	principal, err := m.resolver.Resolve(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}

	row, err := m.store.GetFile(ctx, recordID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %d: %w", recordID, err)
	}

	rec, err := fromModel(row)
	if err != nil {
		return nil, err
	}

	p := rec.Projection()
	if !p.IsPublic && (principal == nil || principal.ID != p.OwnerID) {
		return nil, ErrNotFound
	}

	var path string
	switch r := rec.(type) {
	case *Image:
		path = r.LocalPath()
		if size != "" {
			if !validSize(size) {
				return nil, ErrNotFound
			}
			path = r.VariantPath(size)
		}
	case Stored:
		if size != "" {
			// Only images have rendered variants.
			return nil, ErrNotFound
		}
		path = r.LocalPath()
	default:
		return nil, ErrFolderContent
	}

	exists, err := m.blobs.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat content of record %d: %w", recordID, err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	rc, err := m.blobs.Open(ctx, path)
	if errors.Is(err, blob.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open content of record %d: %w", recordID, err)
	}

	ct, rc, err := ContentType(p.Name, rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read content of record %d: %w", recordID, err)
	}

	metrics.RecordContent(size)
	return &Content{ReadCloser: rc, ContentType: ct, Name: p.Name}, nil
}

func (m *Manager) authenticate(ctx context.Context, cred auth.Credential) (*auth.Principal, error) {
	principal, err := m.resolver.Resolve(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve principal: %w", err)
	}
	if principal == nil {
		return nil, ErrUnauthorized
	}
	return principal, nil
}

// checkParent returns the parent id for a new record. Empty and "0" mean
// the root.
func (m *Manager) checkParent(ctx context.Context, raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return RootID, nil
	}

	id, ok := parseID(raw)
	if !ok {
		return 0, ErrParentNotFound
	}

	parent, err := m.store.GetFile(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrParentNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load parent %d: %w", id, err)
	}
	if Kind(parent.Type) != KindFolder {
		return 0, ErrParentNotFolder
	}
	return parent.ID, nil
}

func (m *Manager) owned(ctx context.Context, id string, ownerID uint) (Record, error) {
	recordID, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	row, err := m.store.GetOwnedFile(ctx, recordID, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record %d: %w", recordID, err)
	}
	return fromModel(row)
}

func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// maxPage keeps the offset well inside int range.
const maxPage = 1 << 24

func parsePage(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return min(n, maxPage)
}

// validSize accepts a width in pixels. Anything else could lead the variant
// path outside the image's own names.
func validSize(size string) bool {
	if len(size) == 0 || len(size) > 5 {
		return false
	}
	for _, c := range size {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
