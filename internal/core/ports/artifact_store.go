package ports

import "context"

// ArtifactStore persists job outcome artifacts, such as the CSV error report
// of a completed-with-errors import, in object storage.
type ArtifactStore interface {
	// Put stores an artifact under the given key and returns the stable
	// reference callers persist on the job.
	Put(ctx context.Context, key, contentType string, payload []byte) (string, error)

	// Get retrieves a stored artifact. A missing key returns nil bytes with
	// no error, so callers can append to an artifact that may not exist yet.
	Get(ctx context.Context, key string) ([]byte, error)

	// Remove deletes a stored artifact. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
