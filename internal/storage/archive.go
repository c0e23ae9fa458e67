package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/google/uuid"
)

// Archive status values.
const (
	ArchiveUploaded = "uploaded"
	ArchiveImported = "imported"
	ArchiveFailed   = "failed"
)

// Archive keeps the raw bytes of every imported file.
type Archive interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	List(limit int) ([]*models.FileInfo, error)
	Delete(id string) error
	SetStatus(id, status string) error
	GetFilePath(id string) (string, error)
}

// LocalArchive implements Archive on the local filesystem. Each file is
// stored under its id with a <id>.json metadata sidecar, so the index
// survives restarts.
type LocalArchive struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.FileInfo
}

// NewLocalArchive creates the upload directory if needed and loads the
// metadata of files already in it.
func NewLocalArchive(uploadDir string) (*LocalArchive, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	a := &LocalArchive{
		uploadDir: uploadDir,
		files:     make(map[string]*models.FileInfo),
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *LocalArchive) load() error {
	sidecars, err := filepath.Glob(filepath.Join(a.uploadDir, "*.json"))
	if err != nil {
		return fmt.Errorf("scanning upload directory: %w", err)
	}
	for _, path := range sidecars {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		var info models.FileInfo
		if err := json.Unmarshal(data, &info); err != nil {
			// Not ours.
			continue
		}
		if info.ID == "" || info.ID != strings.TrimSuffix(filepath.Base(path), ".json") {
			continue
		}
		a.files[info.ID] = &info
	}
	return nil
}

func (a *LocalArchive) writeMeta(info *models.FileInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.uploadDir, info.ID+".json"), data, 0644)
}

// Save copies r into the archive.
func (a *LocalArchive) Save(name string, r io.Reader) (*models.FileInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(a.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	size, err := io.Copy(io.MultiWriter(f, h), r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       filepath.Base(name),
		Size:       size,
		SHA256:     hex.EncodeToString(h.Sum(nil)),
		UploadedAt: time.Now(),
		Status:     ArchiveUploaded,
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.writeMeta(info); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing metadata: %w", err)
	}
	a.files[id] = info

	return info, nil
}

// Get retrieves file metadata by ID.
func (a *LocalArchive) Get(id string) (*models.FileInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	info, ok := a.files[id]
	if !ok {
		return nil, fmt.Errorf("file %s: %w", id, ErrNotFound)
	}

	return info, nil
}

// List returns the most recent files.
func (a *LocalArchive) List(limit int) ([]*models.FileInfo, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(a.files))
	for _, info := range a.files {
		list = append(list, info)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a file and its metadata.
func (a *LocalArchive) Delete(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.files[id]; !ok {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}

	for _, path := range []string{filepath.Join(a.uploadDir, id), filepath.Join(a.uploadDir, id+".json")} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting file: %w", err)
		}
	}

	delete(a.files, id)
	return nil
}

// SetStatus records the import outcome of a file.
func (a *LocalArchive) SetStatus(id, status string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, ok := a.files[id]
	if !ok {
		return fmt.Errorf("file %s: %w", id, ErrNotFound)
	}

	info.Status = status
	if status != ArchiveUploaded {
		now := time.Now()
		info.FinishedAt = &now
	}
	return a.writeMeta(info)
}

// GetFilePath returns the absolute path to a file.
func (a *LocalArchive) GetFilePath(id string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if _, ok := a.files[id]; !ok {
		return "", fmt.Errorf("file %s: %w", id, ErrNotFound)
	}

	return filepath.Join(a.uploadDir, id), nil
}
