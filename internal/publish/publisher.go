// Package publish uploads compiled documents to object storage.
package publish

import (
	"context"
	"errors"
)

// ErrUploadFailed indicates a storage-layer error while publishing.
// Use errors.Is() to check for it in calling code.
var ErrUploadFailed = errors.New("failed to upload document")

// Publisher stores one compiled document and returns a time-limited
// retrieval URL. Implementations do not retry; retry policy, if any,
// belongs to the caller.
type Publisher interface {
	Publish(ctx context.Context, jobID string, document []byte) (string, error)
}
