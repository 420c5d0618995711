package storage

import (
	"context"
	"io"
)

// FileStorage stores raw attachment bytes and hands back an opaque reference.
// This core never inspects stored content; leave requests carry the reference
// around and reviewers fetch the file out of band.
type FileStorage interface {
	// Upload writes the file under the given relative path and returns the
	// reference to store on the leave request.
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)
}
