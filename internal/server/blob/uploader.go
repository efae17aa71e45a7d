// Package blob implements the object-storage collaborator: store bytes,
// get back a public URL. Upload failures surface to callers; no retry
// policy lives here.
package blob

import "context"

// Uploader stores a payload under a key and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
