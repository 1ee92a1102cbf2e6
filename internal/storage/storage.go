package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Keys used by the project store
const (
	KeyProjects      = "projects"
	KeyActiveProject = "active-project"
)

// KeyValue is the persistence port: string values under string keys.
// A missing key is reported with ok=false and a nil error.
type KeyValue interface {
	Get(key string) (value string, ok bool, err error)
	Set(key string, value string) error
}

var validKey = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// FileStore keeps one file per key under <root>/store
type FileStore struct {
	rootPath string
}

// NewFileStore creates a file-backed store rooted at rootPath,
// defaulting to ~/.pocket-kdp
func NewFileStore(rootPath string) (*FileStore, error) {
	if rootPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		rootPath = filepath.Join(homeDir, ".pocket-kdp")
	}

	return &FileStore{rootPath: rootPath}, nil
}

// InitLibrary creates the directory structure for a data directory
func (s *FileStore) InitLibrary() error {
	dirs := []string{
		s.rootPath,
		s.storeDir(),
		filepath.Join(s.rootPath, "exports"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetBaseDir returns the root path of the storage
func (s *FileStore) GetBaseDir() string {
	return s.rootPath
}

// ExportsDir is the default destination for exported files
func (s *FileStore) ExportsDir() string {
	return filepath.Join(s.rootPath, "exports")
}

func (s *FileStore) storeDir() string {
	return filepath.Join(s.rootPath, "store")
}

func (s *FileStore) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.storeDir(), key), nil
}

// Get reads the value stored under key
func (s *FileStore) Get(key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return string(data), true, nil
}

// Set replaces the value stored under key. Readers never observe a partial write.
func (s *FileStore) Set(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.storeDir(), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	if err := WriteFileAtomic(path, []byte(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	return nil
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it into place
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// WriteExport saves an exported document under dir, creating dir when needed,
// and returns the full path
func WriteExport(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := WriteFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
