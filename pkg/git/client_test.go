package git

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestClient_Lock(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}

	lockPath := filepath.Join(tmpDir, ".folio.lock")
	if _, err := os.Stat(lockPath); os.IsNotExist(err) {
		t.Error("Lock file not created")
	}

	unlock()

	if _, err := os.Stat(lockPath); !os.IsNotExist(err) {
		t.Error("Lock file not removed after unlock")
	}
}

func TestClient_LockTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, ".custom.lock", nil)
	client.LockTimeout = 30 * time.Millisecond

	unlock, err := client.Lock()
	if err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	defer unlock()

	if _, err := client.Lock(); !errors.Is(err, ErrLockTimeout) {
		t.Errorf("expected ErrLockTimeout, got %v", err)
	}
}

func TestClient_Init(t *testing.T) {
	if !IsInstalled() {
		t.Skip("git not installed")
	}
	tmpDir := t.TempDir()
	client := NewClient(tmpDir, "", nil)

	if err := client.Init(); err != nil {
		t.Fatalf("Failed to init: %v", err)
	}
	if !client.IsRepo() {
		t.Error(".git directory not created")
	}
}

func TestFormatMessage(t *testing.T) {
	msg := FormatMessage(CommitTypeDocs, "content", "save hero", "")
	if !strings.HasPrefix(msg, "docs(content): save hero") {
		t.Errorf("unexpected header: %q", msg)
	}
	if !strings.HasSuffix(msg, Footer) {
		t.Errorf("missing footer: %q", msg)
	}

	msg = FormatMessage("", "", "tidy", " body ")
	if !strings.HasPrefix(msg, "chore: tidy\n\nbody\n\n") {
		t.Errorf("unexpected message: %q", msg)
	}
}
