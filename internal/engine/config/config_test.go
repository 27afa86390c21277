package config

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestLoad_ValidFile(t *testing.T) {
	mockFS := NewMockFileSystem()
	path := ".mergescout/config.yaml"
	mockFS.Files[path] = []byte(`
version: 1
other_ref: develop
fetch: true
scan:
  metadata_window: 16
  marker_window: 512
`)

	loader := NewLoader(mockFS)
	cfg, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OtherRef != "develop" {
		t.Errorf("expected other_ref 'develop', got %q", cfg.OtherRef)
	}
	if !cfg.Fetch {
		t.Error("expected fetch true")
	}
	if cfg.Scan.MetadataWindow != 16 {
		t.Errorf("expected metadata_window 16, got %d", cfg.Scan.MetadataWindow)
	}
	if cfg.Scan.MarkerWindow != 512 {
		t.Errorf("expected marker_window 512, got %d", cfg.Scan.MarkerWindow)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	mockFS := NewMockFileSystem()
	loader := NewLoader(mockFS)

	cfg, err := loader.Load(context.Background(), ".mergescout/config.yaml")
	if err != nil {
		t.Fatalf("missing file should not error, got: %v", err)
	}

	if cfg.OtherRef != "" {
		t.Errorf("expected empty other_ref, got %q", cfg.OtherRef)
	}
	if cfg.Fetch {
		t.Error("expected fetch false by default")
	}
	if cfg.Scan.MetadataWindow != 0 || cfg.Scan.MarkerWindow != 0 {
		t.Errorf("expected zero scan windows, got %+v", cfg.Scan)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	mockFS := NewMockFileSystem()
	path := ".mergescout/config.yaml"
	mockFS.Files[path] = []byte("scan: [not a mapping")

	loader := NewLoader(mockFS)
	_, err := loader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !strings.Contains(err.Error(), "parsing") {
		t.Errorf("expected a parsing error, got: %v", err)
	}
}

func TestLoad_NegativeWindowsRejected(t *testing.T) {
	mockFS := NewMockFileSystem()
	path := ".mergescout/config.yaml"
	mockFS.Files[path] = []byte(`
scan:
  metadata_window: -1
  marker_window: -5
`)

	loader := NewLoader(mockFS)
	_, err := loader.Load(context.Background(), path)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	// Both problems are reported at once.
	if !strings.Contains(err.Error(), "metadata_window") || !strings.Contains(err.Error(), "marker_window") {
		t.Errorf("expected both windows in the error, got: %v", err)
	}
}

func TestLoad_ReadError(t *testing.T) {
	mockFS := NewMockFileSystem()
	path := ".mergescout/config.yaml"
	wantErr := errors.New("permission denied")
	mockFS.ReadErrors[path] = wantErr

	loader := NewLoader(mockFS)
	_, err := loader.Load(context.Background(), path)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the read error to be wrapped, got: %v", err)
	}
}
