// internal/catalog/detector.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gaslib-catalog/internal/model"
)

// CommitStatus is the change detector's verdict for one repository.
type CommitStatus struct {
	IsNew        bool   `json:"isNew"`
	ShouldUpdate bool   `json:"shouldUpdate"`
	LibraryID    string `json:"libraryId,omitempty"`

	Existing *model.LibraryRecord `json:"-"`
}

// CheckCommitStatus compares the latest commit timestamp of repoURL with the
// one stored for it. Timestamps are compared at millisecond precision, so the
// same instant in different time zones counts as unchanged.
func CheckCommitStatus(ctx context.Context, store Store, repoURL string, commitAt time.Time) (CommitStatus, error) {
	existing, err := store.FindByRepositoryURL(ctx, repoURL)
	if errors.Is(err, ErrNotFound) {
		return CommitStatus{IsNew: true, ShouldUpdate: true}, nil
	}
	if err != nil {
		return CommitStatus{}, fmt.Errorf("failed to look up library by repository url: %w", err)
	}

	return CommitStatus{
		ShouldUpdate: !sameInstant(existing.LastCommitAt, commitAt),
		LibraryID:    existing.ID,
		Existing:     existing,
	}, nil
}

func sameInstant(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return a.IsZero() && b.IsZero()
	}
	return a.UnixMilli() == b.UnixMilli()
}
