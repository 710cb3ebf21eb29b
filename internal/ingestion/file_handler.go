// Package ingestion stores the original uploaded document bytes so the
// file-serving collaborator can hand them back for viewing. Identifiers are
// stable and URL-safe: files are kept as "{id}_{filename}".
package ingestion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileHandler manages the uploads directory.
type FileHandler struct {
	uploadsDir string
}

// NewFileHandler creates a file handler rooted at uploadsDir.
func NewFileHandler(uploadsDir string) *FileHandler {
	return &FileHandler{uploadsDir: uploadsDir}
}

// Save writes the original document bytes under "{id}_{filename}" and
// returns the stored name. Path separators in the client-supplied filename
// are flattened so a crafted name cannot escape the uploads directory.
func (fh *FileHandler) Save(id, filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(fh.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	name := id + "_" + sanitizeFilename(filename)
	file, err := os.Create(filepath.Join(fh.uploadsDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}

// StoredName returns the name Save would store the document under, without
// touching the filesystem.
func (fh *FileHandler) StoredName(id, filename string) string {
	return id + "_" + sanitizeFilename(filename)
}

// Open returns the stored document for a "{id}_{filename}" name, as handed
// out by Save.
func (fh *FileHandler) Open(name string) (*os.File, error) {
	if name != sanitizeFilename(name) {
		return nil, fmt.Errorf("invalid file name: %s", name)
	}
	return os.Open(filepath.Join(fh.uploadsDir, name))
}

// Clear removes all stored documents.
func (fh *FileHandler) Clear() error {
	if err := os.RemoveAll(fh.uploadsDir); err != nil {
		return fmt.Errorf("failed to clear uploads directory: %w", err)
	}
	return os.MkdirAll(fh.uploadsDir, 0o755)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == string(filepath.Separator) {
		return "document"
	}
	return name
}
