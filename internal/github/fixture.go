// internal/github/fixture.go
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
)

// FixtureRepo is the canned answer set for one repository.
type FixtureRepo struct {
	Description  string     `json:"description"`
	URL          string     `json:"url"`
	AuthorName   string     `json:"authorName"`
	AuthorURL    string     `json:"authorUrl"`
	Stars        int        `json:"stars"`
	Readme       string     `json:"readme"`
	LicenseType  string     `json:"licenseType"`
	LicenseURL   string     `json:"licenseUrl"`
	LatestCommit *time.Time `json:"latestCommit"`
}

// Fixture is a deterministic API that serves fixed data without network
// access. Repositories not registered in it answer NotFound.
type Fixture struct {
	mu    sync.RWMutex
	repos map[string]fixtureEntry
}

// fixtureEntry keeps the registered casing, which plays the role of
// GitHub's canonical owner and name.
type fixtureEntry struct {
	ref  Reference
	repo FixtureRepo
}

var _ API = (*Fixture)(nil)

// NewFixture returns an empty Fixture.
func NewFixture() *Fixture {
	return &Fixture{repos: make(map[string]fixtureEntry)}
}

// LoadFixture reads a JSON object keyed by "owner/name".
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	var repos map[string]FixtureRepo
	if err := json.Unmarshal(data, &repos); err != nil {
		return nil, fmt.Errorf("failed to parse fixture file %s: %w", path, err)
	}
	f := NewFixture()
	for key, r := range repos {
		ref, err := ParseReference(key)
		if err != nil {
			return nil, fmt.Errorf("invalid fixture key %q: %w", key, err)
		}
		f.Set(ref.Owner, ref.Name, r)
	}
	return f, nil
}

// Set registers or replaces the fixture for owner/name. Lookups ignore case;
// the casing given here is reported back as the canonical one.
func (f *Fixture) Set(owner, name string, repo FixtureRepo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.repos[fixtureKey(owner, name)] = fixtureEntry{ref: Reference{Owner: owner, Name: name}, repo: repo}
}

func (f *Fixture) get(owner, name string) (fixtureEntry, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	e, ok := f.repos[fixtureKey(owner, name)]
	if !ok {
		return fixtureEntry{}, custom_errors.New(custom_errors.ReasonNotFound, owner+"/"+name, nil)
	}
	return e, nil
}

func (f *Fixture) Repository(ctx context.Context, owner, name string) (*model.RepositoryMetadata, error) {
	e, err := f.get(owner, name)
	if err != nil {
		return nil, err
	}
	r := e.repo
	url := r.URL
	if url == "" {
		url = e.ref.URL()
	}
	author := r.AuthorName
	if author == "" {
		author = e.ref.Owner
	}
	authorURL := r.AuthorURL
	if authorURL == "" {
		authorURL = "https://" + host + "/" + e.ref.Owner
	}
	return &model.RepositoryMetadata{
		Owner:       e.ref.Owner,
		Name:        e.ref.Name,
		Description: r.Description,
		URL:         url,
		AuthorName:  author,
		AuthorURL:   authorURL,
		StarsCount:  r.Stars,
	}, nil
}

func (f *Fixture) Readme(ctx context.Context, owner, name string) (string, error) {
	e, err := f.get(owner, name)
	if err != nil {
		return "", nil
	}
	return e.repo.Readme, nil
}

func (f *Fixture) License(ctx context.Context, owner, name string) (model.License, error) {
	e, err := f.get(owner, name)
	if err != nil || e.repo.LicenseType == "" {
		return model.UnknownLicense, nil
	}
	return model.License{Type: e.repo.LicenseType, URL: e.repo.LicenseURL}, nil
}

func (f *Fixture) LatestCommit(ctx context.Context, owner, name string) (time.Time, bool, error) {
	e, err := f.get(owner, name)
	if err != nil {
		return time.Time{}, false, err
	}
	if e.repo.LatestCommit == nil {
		return time.Time{}, false, nil
	}
	return *e.repo.LatestCommit, true, nil
}

func fixtureKey(owner, name string) string {
	return strings.ToLower(owner + "/" + name)
}
