// internal/store/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gaslib-catalog/internal/catalog"
	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
)

// Store is an in-process catalog.Store. Records are copied on the way in and
// out so callers never share state with the store.
type Store struct {
	mu   sync.RWMutex
	byID map[string]*model.LibraryRecord
	now  func() time.Time
}

var _ catalog.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		byID: make(map[string]*model.LibraryRecord),
		now:  time.Now,
	}
}

func (s *Store) FindByID(ctx context.Context, id string) (*model.LibraryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	return clone(rec), nil
}

func (s *Store) FindByScriptID(ctx context.Context, scriptID string) (*model.LibraryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec := s.find(func(r *model.LibraryRecord) bool { return r.ScriptID == scriptID }); rec != nil {
		return clone(rec), nil
	}
	return nil, fmt.Errorf("%w: script id %s", catalog.ErrNotFound, scriptID)
}

func (s *Store) FindByRepositoryURL(ctx context.Context, url string) (*model.LibraryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec := s.find(func(r *model.LibraryRecord) bool { return r.RepositoryURL == url }); rec != nil {
		return clone(rec), nil
	}
	return nil, fmt.Errorf("%w: repository url %s", catalog.ErrNotFound, url)
}

func (s *Store) Create(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return nil, fmt.Errorf("library %s already exists", rec.ID)
	}
	if err := s.checkUnique(rec); err != nil {
		return nil, err
	}

	now := s.now()
	c := clone(rec)
	c.CreatedAt = now
	c.UpdatedAt = now
	c.CopyCount = 0
	if c.Status == "" {
		c.Status = model.StatusPending
	}
	s.byID[c.ID] = c
	return clone(c), nil
}

func (s *Store) Update(ctx context.Context, rec *model.LibraryRecord) (*model.LibraryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[rec.ID]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, rec.ID)
	}
	if err := s.checkUnique(rec); err != nil {
		return nil, err
	}

	// Identity, moderation and counters are not changed by Update.
	c := clone(rec)
	c.RepositoryURL = cur.RepositoryURL
	c.Owner = cur.Owner
	c.Repo = cur.Repo
	c.Status = cur.Status
	c.CopyCount = cur.CopyCount
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = s.now()
	s.byID[c.ID] = c
	return clone(c), nil
}

func (s *Store) UpdateStatus(ctx context.Context, id string, status model.Status) (*model.LibraryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	cur.Status = status
	cur.UpdatedAt = s.now()
	return clone(cur), nil
}

func (s *Store) IncrementCopyCount(ctx context.Context, id string) (*model.LibraryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", catalog.ErrNotFound, id)
	}
	cur.CopyCount++
	return clone(cur), nil
}

// List orders by stars, then newest first, matching the SQL store.
func (s *Store) List(ctx context.Context, filter model.ListFilter) ([]*model.LibraryRecord, int, error) {
	filter = filter.Normalize()
	q := strings.ToLower(filter.Query)

	s.mu.RLock()
	var matched []*model.LibraryRecord
	for _, r := range s.byID {
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(r.Name), q) && !strings.Contains(strings.ToLower(r.Description), q) {
			continue
		}
		matched = append(matched, clone(r))
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.StarsCount != b.StarsCount {
			return a.StarsCount > b.StarsCount
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	total := len(matched)
	if filter.Offset >= total {
		return []*model.LibraryRecord{}, total, nil
	}
	end := min(filter.Offset+filter.Limit, total)
	return matched[filter.Offset:end], total, nil
}

// checkUnique must be called with the write lock held.
func (s *Store) checkUnique(rec *model.LibraryRecord) error {
	if s.find(func(r *model.LibraryRecord) bool { return r.ID != rec.ID && r.ScriptID == rec.ScriptID }) != nil {
		return custom_errors.New(custom_errors.ReasonDuplicateScriptID, rec.RepositoryURL, nil)
	}
	if s.find(func(r *model.LibraryRecord) bool { return r.ID != rec.ID && r.RepositoryURL == rec.RepositoryURL }) != nil {
		return custom_errors.New(custom_errors.ReasonDuplicateRepositoryURL, rec.RepositoryURL, nil)
	}
	return nil
}

func (s *Store) find(match func(*model.LibraryRecord) bool) *model.LibraryRecord {
	for _, r := range s.byID {
		if match(r) {
			return r
		}
	}
	return nil
}

func clone(r *model.LibraryRecord) *model.LibraryRecord {
	c := *r
	return &c
}
