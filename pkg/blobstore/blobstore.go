// Package blobstore abstracts the external image storage collaborator. The
// core only ever sees opaque, stable references.
package blobstore

import (
	"context"
	"io"
)

type Store interface {
	// Upload stores the bytes and returns a stable reference. Retrying an
	// upload yields a new reference; callers attach exactly one.
	Upload(ctx context.Context, r io.Reader) (string, error)
	// Delete removes the blob behind ref. Deleting a reference that is
	// already gone is not an error.
	Delete(ctx context.Context, ref string) error
}
