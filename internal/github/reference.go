// internal/github/reference.go
package github

import (
	"regexp"
	"strings"

	custom_errors "gaslib-catalog/internal/errors"
)

const host = "github.com"

var (
	ownerPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)
	repoPattern  = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)
)

// Reference identifies a GitHub repository by owner and name.
type Reference struct {
	Owner string
	Name  string
}

// FullName returns "owner/name".
func (r Reference) FullName() string {
	return r.Owner + "/" + r.Name
}

// URL returns the canonical web URL of the repository.
func (r Reference) URL() string {
	return "https://" + host + "/" + r.FullName()
}

func (r Reference) String() string {
	return r.FullName()
}

// ParseReference resolves raw into a Reference. Accepted forms:
//   - "owner/repo"
//   - "github.com/owner/repo"
//   - "https://github.com/owner/repo" (optionally with ".git" or extra path such as "/tree/main")
//   - "git@github.com:owner/repo.git"
//
// Anything else fails with an InvalidReference error before any network call.
func ParseReference(raw string) (Reference, error) {
	invalid := func() (Reference, error) {
		return Reference{}, custom_errors.New(custom_errors.ReasonInvalidReference, raw, &custom_errors.ErrInvalidRepoFormat{Repo: raw})
	}

	s := strings.TrimSpace(raw)
	if s == "" {
		return invalid()
	}

	hasHost := false
	switch {
	case strings.HasPrefix(s, "git@"+host+":"):
		s = strings.TrimPrefix(s, "git@"+host+":")
		hasHost = true
	case strings.Contains(s, "://"):
		scheme, rest, _ := strings.Cut(s, "://")
		if scheme != "https" && scheme != "http" {
			return invalid()
		}
		h, path, _ := strings.Cut(rest, "/")
		if strings.TrimPrefix(strings.ToLower(h), "www.") != host {
			return invalid()
		}
		s = path
		hasHost = true
	case strings.HasPrefix(strings.ToLower(s), host+"/"), strings.HasPrefix(strings.ToLower(s), "www."+host+"/"):
		_, s, _ = strings.Cut(s, "/")
		hasHost = true
	}

	// Drop query strings and fragments left over from pasted URLs.
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.Trim(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) < 2 || (!hasHost && len(parts) != 2) {
		return invalid()
	}

	owner := parts[0]
	name := strings.TrimSuffix(parts[1], ".git")
	if !ownerPattern.MatchString(owner) || !repoPattern.MatchString(name) || name == "." || name == ".." {
		return invalid()
	}
	return Reference{Owner: owner, Name: name}, nil
}
