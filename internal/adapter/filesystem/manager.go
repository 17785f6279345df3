package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vertextoedge/magpi-downloader/internal/port"
)

// Manager writes downloaded issues into a single output folder
type Manager struct {
	folder string
}

// Ensure Manager implements port.IssueStorage
var _ port.IssueStorage = (*Manager)(nil)

// NewManager creates a new filesystem manager.
// The folder is created lazily by the first Create call.
func NewManager(folder string) *Manager {
	return &Manager{folder: folder}
}

// Folder returns the output directory
func (m *Manager) Folder() string {
	return m.folder
}

// Path returns the local path for an issue file name
func (m *Manager) Path(fileName string) string {
	return filepath.Join(m.folder, fileName)
}

// EnsureFolder creates the output directory if it does not exist
func (m *Manager) EnsureFolder() error {
	if err := os.MkdirAll(m.folder, 0755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", m.folder, err)
	}
	return nil
}

// Create creates or truncates the file for fileName inside the folder.
// The path is empty whenever no file was created.
func (m *Manager) Create(fileName string) (io.WriteCloser, string, error) {
	if err := m.EnsureFolder(); err != nil {
		return nil, "", err
	}

	path := m.Path(fileName)
	f, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create file: %w", err)
	}
	return f, path, nil
}
