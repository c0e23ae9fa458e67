package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createTestArchive(t *testing.T) *LocalArchive {
	t.Helper()
	archive, err := NewLocalArchive(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create archive: %v", err)
	}
	return archive
}

func TestNewLocalArchive(t *testing.T) {
	t.Run("creates upload directory", func(t *testing.T) {
		uploadDir := filepath.Join(t.TempDir(), "uploads")

		if _, err := NewLocalArchive(uploadDir); err != nil {
			t.Fatalf("Failed to create archive: %v", err)
		}

		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})

	t.Run("reloads existing metadata", func(t *testing.T) {
		dir := t.TempDir()
		first, err := NewLocalArchive(dir)
		if err != nil {
			t.Fatalf("Failed to create archive: %v", err)
		}
		info, err := first.Save("log.csv", strings.NewReader("Date\n2024-01-01\n"))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if err := first.SetStatus(info.ID, ArchiveImported); err != nil {
			t.Fatalf("Failed to set status: %v", err)
		}

		second, err := NewLocalArchive(dir)
		if err != nil {
			t.Fatalf("Failed to reopen archive: %v", err)
		}
		got, err := second.Get(info.ID)
		if err != nil {
			t.Fatalf("Expected file to survive reopen: %v", err)
		}
		if got.Name != "log.csv" || got.Status != ArchiveImported || got.FinishedAt == nil {
			t.Errorf("Unexpected metadata after reopen: %+v", got)
		}
		if got.SHA256 != info.SHA256 {
			t.Errorf("Checksum changed after reopen: %s != %s", got.SHA256, info.SHA256)
		}
	})
}

func TestLocalArchive_Save(t *testing.T) {
	t.Run("saves file from reader", func(t *testing.T) {
		archive := createTestArchive(t)

		content := "Date,Weight (kg)\n2024-01-01,80\n"
		info, err := archive.Save("health.csv", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}

		if info.ID == "" {
			t.Error("Expected ID to be set")
		}
		if info.Name != "health.csv" {
			t.Errorf("Expected name 'health.csv', got %v", info.Name)
		}
		if info.Size != int64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), info.Size)
		}
		if info.Status != ArchiveUploaded {
			t.Errorf("Expected status 'uploaded', got %v", info.Status)
		}
		if len(info.SHA256) != 64 {
			t.Errorf("Expected hex sha256, got %q", info.SHA256)
		}

		data, err := os.ReadFile(filepath.Join(archive.uploadDir, info.ID))
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if string(data) != content {
			t.Errorf("Expected content %q, got %q", content, string(data))
		}
	})

	t.Run("strips directories from the name", func(t *testing.T) {
		archive := createTestArchive(t)

		info, err := archive.Save("../../etc/passwd", strings.NewReader(""))
		if err != nil {
			t.Fatalf("Failed to save file: %v", err)
		}
		if info.Name != "passwd" {
			t.Errorf("Expected name 'passwd', got %v", info.Name)
		}
	})
}

func TestLocalArchive_Get(t *testing.T) {
	archive := createTestArchive(t)

	_, err := archive.Get("non-existent-id")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestLocalArchive_List(t *testing.T) {
	t.Run("sorts by upload time descending and limits", func(t *testing.T) {
		archive := createTestArchive(t)

		ids := make([]string, 4)
		for i := range ids {
			info, err := archive.Save("file.csv", strings.NewReader("content"))
			if err != nil {
				t.Fatalf("Failed to save file: %v", err)
			}
			ids[i] = info.ID
			time.Sleep(10 * time.Millisecond)
		}

		files, err := archive.List(3)
		if err != nil {
			t.Fatalf("Failed to list files: %v", err)
		}
		if len(files) != 3 {
			t.Fatalf("Expected 3 files, got %d", len(files))
		}
		if files[0].ID != ids[3] {
			t.Error("Expected files to be sorted by time descending")
		}

		all, _ := archive.List(0)
		if len(all) != 4 {
			t.Errorf("Expected 4 files without limit, got %d", len(all))
		}
	})
}

func TestLocalArchive_Delete(t *testing.T) {
	archive := createTestArchive(t)

	info, err := archive.Save("test.csv", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	if err := archive.Delete(info.ID); err != nil {
		t.Fatalf("Failed to delete file: %v", err)
	}

	if _, err := archive.Get(info.ID); err == nil {
		t.Error("Expected error when getting deleted file")
	}
	for _, p := range []string{info.ID, info.ID + ".json"} {
		if _, err := os.Stat(filepath.Join(archive.uploadDir, p)); !os.IsNotExist(err) {
			t.Errorf("Expected %s to be removed", p)
		}
	}

	if err := archive.Delete("non-existent-id"); err == nil {
		t.Error("Expected error when deleting non-existent file")
	}
}

func TestLocalArchive_GetFilePath(t *testing.T) {
	archive := createTestArchive(t)

	info, err := archive.Save("test.csv", strings.NewReader("content"))
	if err != nil {
		t.Fatalf("Failed to save file: %v", err)
	}

	path, err := archive.GetFilePath(info.ID)
	if err != nil {
		t.Fatalf("Failed to get file path: %v", err)
	}
	if path != filepath.Join(archive.uploadDir, info.ID) {
		t.Errorf("Unexpected path %s", path)
	}

	if _, err := archive.GetFilePath("missing"); err == nil {
		t.Error("Expected error for non-existent file")
	}
}
