package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/finplan/scenario-engine/internal/domain"
)

// FileStore is a Repository that persists each scenario result as a YAML file
// under a base directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file-backed repository rooted at baseDir, creating
// the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", baseDir, err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Put writes the result to <baseDir>/<name>.yaml.
func (fs *FileStore) Put(name string, result *domain.ScenarioResult) error {
	if name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if result == nil {
		return fmt.Errorf("scenario result is required")
	}
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode scenario %q: %w", name, err)
	}
	if err := os.WriteFile(fs.path(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write scenario %q: %w", name, err)
	}
	return nil
}

// Get reads <baseDir>/<name>.yaml, returning ErrNotFound when absent.
func (fs *FileStore) Get(name string) (*domain.ScenarioResult, error) {
	data, err := os.ReadFile(fs.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read scenario %q: %w", name, err)
	}
	var result domain.ScenarioResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode scenario %q: %w", name, err)
	}
	return &result, nil
}

func (fs *FileStore) path(name string) string {
	// Flatten path separators so names cannot escape the base directory.
	safe := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(name)
	return filepath.Join(fs.baseDir, safe+".yaml")
}
