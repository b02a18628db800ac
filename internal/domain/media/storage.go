package media

import (
	"context"
	"time"
)

// ObjectStorage abstracts the object store backing media attachments.
// Uploads happen browser-side against presigned URLs; the backend only
// issues URLs and confirms or deletes objects.
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL for the given key
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL for the given key
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// ObjectExists reports whether the object was actually uploaded
	ObjectExists(ctx context.Context, storageKey string) (bool, error)

	// DeleteObject removes the object from storage
	DeleteObject(ctx context.Context, storageKey string) error
}
