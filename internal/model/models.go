// internal/model/models.go
package model

import (
	"strings"
	"time"
)

// Status is the moderation state of a library in the catalog.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected:
		return true
	}
	return false
}

// ParseStatus converts a raw string into a Status, case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// License describes the license a repository is published under.
type License struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// UnknownLicense is used when a repository has no detectable license.
var UnknownLicense = License{Type: "unknown"}

// IsUnknown reports whether l carries no usable license information.
func (l License) IsUnknown() bool {
	return l.Type == "" || l.Type == UnknownLicense.Type
}

// RepositoryMetadata holds the repository fields consumed from the hosting API.
// It is fetched fresh for every ingestion and never cached.
type RepositoryMetadata struct {
	Owner       string
	Name        string
	Description string
	URL         string
	AuthorName  string
	AuthorURL   string
	StarsCount  int
}

// ScriptIDKind classifies the shape of an extracted script ID.
type ScriptIDKind string

const (
	ScriptIDLegacy ScriptIDKind = "legacy"
	ScriptIDWebApp ScriptIDKind = "webapp"
	ScriptIDOther  ScriptIDKind = "other"
)

// KindOf classifies a script ID by its prefix.
func KindOf(id string) ScriptIDKind {
	switch {
	case strings.HasPrefix(id, "1"):
		return ScriptIDLegacy
	case strings.HasPrefix(id, "AK"):
		return ScriptIDWebApp
	default:
		return ScriptIDOther
	}
}

// LibraryRecord is the persisted catalog entry for a GAS library.
type LibraryRecord struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ScriptID      string       `json:"scriptId"`
	ScriptIDKind  ScriptIDKind `json:"scriptIdKind"`
	RepositoryURL string       `json:"repositoryUrl"`
	Owner         string       `json:"owner"`
	Repo          string       `json:"repo"`
	AuthorName    string       `json:"authorName"`
	AuthorURL     string       `json:"authorUrl"`
	Description   string       `json:"description"`
	ReadmeContent string       `json:"readmeContent,omitempty"`
	LicenseType   string       `json:"licenseType"`
	LicenseURL    string       `json:"licenseUrl"`
	StarsCount    int          `json:"starsCount"`
	CopyCount     int          `json:"copyCount"`
	Status        Status       `json:"status"`
	SummaryJA     string       `json:"summaryJa,omitempty"`
	SummaryEN     string       `json:"summaryEn,omitempty"`
	LastCommitAt  time.Time    `json:"lastCommitAt"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// License returns the record's license as a License value.
func (r *LibraryRecord) License() License {
	return License{Type: r.LicenseType, URL: r.LicenseURL}
}

// ListFilter narrows a catalog listing.
type ListFilter struct {
	Status *Status
	Query  string
	Limit  int
	Offset int
}

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Normalize clamps Limit and Offset to their allowed ranges.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Query = strings.TrimSpace(f.Query)
	return f
}
