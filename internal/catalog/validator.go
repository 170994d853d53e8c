// internal/catalog/validator.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	custom_errors "gaslib-catalog/internal/errors"
)

// ValidateUnique checks that neither scriptID nor repoURL is registered yet.
// Both lookups run concurrently. When both collide the script ID is reported.
func ValidateUnique(ctx context.Context, store Store, scriptID, repoURL string) error {
	var scriptTaken, urlTaken bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		scriptTaken, err = exists(gctx, func(ctx context.Context) error {
			_, err := store.FindByScriptID(ctx, scriptID)
			return err
		})
		return err
	})
	g.Go(func() error {
		var err error
		urlTaken, err = exists(gctx, func(ctx context.Context) error {
			_, err := store.FindByRepositoryURL(ctx, repoURL)
			return err
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to check uniqueness: %w", err)
	}

	switch {
	case scriptTaken:
		return custom_errors.New(custom_errors.ReasonDuplicateScriptID, repoURL, nil)
	case urlTaken:
		return custom_errors.New(custom_errors.ReasonDuplicateRepositoryURL, repoURL, nil)
	}
	return nil
}

func exists(ctx context.Context, find func(ctx context.Context) error) (bool, error) {
	err := find(ctx)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
