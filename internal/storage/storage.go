// Package storage abstracts the object store that holds uploaded media. The
// rest of the system treats it as an opaque URL-returning upload sink.
package storage

import "context"

type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
