package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FilePublisher writes documents to a local directory instead of object
// storage. Used by one-shot CLI runs and tests.
type FilePublisher struct {
	Dir string
}

// Publish writes the document to {dir}/{jobID}.html and returns a
// file:// URL. The URL never expires; the time-limited contract only
// applies to object storage.
func (p *FilePublisher) Publish(_ context.Context, jobID string, document []byte) (string, error) {
	if err := os.MkdirAll(p.Dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	path := filepath.Join(p.Dir, jobID+".html")
	if err := os.WriteFile(path, document, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs, nil
}
