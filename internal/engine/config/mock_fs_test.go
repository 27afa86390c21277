package config

import (
	"os"
)

// MockFileSystem is an in-memory FileSystem for testing.
type MockFileSystem struct {
	Files       map[string][]byte
	ReadErrors  map[string]error
	UserHome    string
	UserHomeErr error
}

// NewMockFileSystem creates an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:      make(map[string][]byte),
		ReadErrors: make(map[string]error),
	}
}

// ReadFile returns the file content from memory, or os.ErrNotExist for
// unknown paths.
func (m *MockFileSystem) ReadFile(name string) ([]byte, error) {
	if err, ok := m.ReadErrors[name]; ok {
		return nil, err
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

// UserHomeDir returns the configured home directory.
func (m *MockFileSystem) UserHomeDir() (string, error) {
	if m.UserHomeErr != nil {
		return "", m.UserHomeErr
	}
	return m.UserHome, nil
}

// IsNotExist matches the real implementation's semantics.
func (m *MockFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
