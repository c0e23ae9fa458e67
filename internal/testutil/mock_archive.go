// Package testutil holds fakes and helpers shared by package tests.
package testutil

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/amimagid/ami-super-app/internal/models"
	"github.com/amimagid/ami-super-app/internal/storage"
)

// MockArchive implements storage.Archive in memory.
type MockArchive struct {
	mu       sync.RWMutex
	files    map[string]*models.FileInfo
	fileData map[string][]byte
	next     int

	// SaveErr, when set, is returned by Save.
	SaveErr error
}

func NewMockArchive() *MockArchive {
	return &MockArchive{
		files:    make(map[string]*models.FileInfo),
		fileData: make(map[string][]byte),
	}
}

var _ storage.Archive = (*MockArchive)(nil)

func (m *MockArchive) Save(name string, r io.Reader) (*models.FileInfo, error) {
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	info := &models.FileInfo{
		ID:         fmt.Sprintf("archive-%d", m.next),
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     storage.ArchiveUploaded,
	}
	m.files[info.ID] = info
	m.fileData[info.ID] = data
	cp := *info
	return &cp, nil
}

func (m *MockArchive) Get(id string) (*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, ok := m.files[id]
	if !ok {
		return nil, errors.New("file not found")
	}
	cp := *info
	return &cp, nil
}

func (m *MockArchive) List(limit int) ([]*models.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*models.FileInfo
	for _, info := range m.files {
		cp := *info
		out = append(out, &cp)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MockArchive) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[id]; !ok {
		return errors.New("file not found")
	}
	delete(m.files, id)
	delete(m.fileData, id)
	return nil
}

func (m *MockArchive) SetStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.files[id]
	if !ok {
		return errors.New("file not found")
	}
	info.Status = status
	return nil
}

func (m *MockArchive) GetFilePath(id string) (string, error) {
	return "/mock/archive/" + id, nil
}

// Data returns the stored bytes of a file.
func (m *MockArchive) Data(id string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fileData[id]
}

// Count returns the number of archived files.
func (m *MockArchive) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
