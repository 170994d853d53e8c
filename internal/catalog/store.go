// internal/catalog/store.go
package catalog

import (
	"context"
	"errors"

	"gaslib-catalog/internal/model"
)

// ErrNotFound is returned by Store lookups that match no library.
var ErrNotFound = errors.New("library not found")

// Store persists library records.
//
// Create and Update must report a script ID or repository URL that collides
// with another record as an *errors.IngestError with reason
// duplicate_script_id or duplicate_repository_url. The storage layer's
// uniqueness guarantee is the final authority; callers may check first but
// must not rely on that check alone.
type Store interface {
	FindByID(ctx context.Context, id string) (*model.LibraryRecord, error)
	FindByScriptID(ctx context.Context, scriptID string) (*model.LibraryRecord, error)
	FindByRepositoryURL(ctx context.Context, url string) (*model.LibraryRecord, error)
	Create(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error)
	Update(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error)
	UpdateStatus(ctx context.Context, id string, status model.Status) (*model.LibraryRecord, error)
	IncrementCopyCount(ctx context.Context, id string) (*model.LibraryRecord, error)
	List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error)
}
