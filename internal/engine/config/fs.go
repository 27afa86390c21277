package config

import (
	"os"
)

// FileSystem is the seam between the loaders and the host filesystem,
// narrowed to what config loading needs. Tests substitute an in-memory
// implementation.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	UserHomeDir() (string, error)
	IsNotExist(err error) bool
}

// RealFileSystem reads from the host filesystem.
type RealFileSystem struct{}

func (r *RealFileSystem) ReadFile(name string) ([]byte, error) {
	// Paths are cleaned by the loaders before they reach here.
	return os.ReadFile(name) // #nosec G304
}

func (r *RealFileSystem) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (r *RealFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
