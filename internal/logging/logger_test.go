package logging

import (
	"path/filepath"
	"testing"
)

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	logger, err := New(true, "")
	if err != nil {
		t.Fatalf("New(true) error = %v", err)
	}
	if logger == nil {
		t.Fatal("New(true) returned nil logger")
	}
}

func TestNewProductionWithFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "audit.log")
	logger, err := New(false, file)
	if err != nil {
		t.Fatalf("New(false, file) error = %v", err)
	}
	logger.Info("probe")
	if err := logger.Sync(); err != nil {
		t.Logf("sync: %v", err)
	}
}
