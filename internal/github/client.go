// internal/github/client.go
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "gaslib-catalog/internal/errors"
	"gaslib-catalog/internal/model"
	"gaslib-catalog/internal/ratelimit"
)

// API is the subset of the repository hosting API consumed by ingestion.
// Readme and License report a missing resource as a zero value, not an error.
// LatestCommit reports ok=false when the repository has no commits.
type API interface {
	Repository(ctx context.Context, owner, name string) (*model.RepositoryMetadata, error)
	Readme(ctx context.Context, owner, name string) (string, error)
	License(ctx context.Context, owner, name string) (model.License, error)
	LatestCommit(ctx context.Context, owner, name string) (time.Time, bool, error)
}

// Options tunes request pacing and retries.
type Options struct {
	RequestInterval time.Duration // minimum gap between consecutive requests
	MaxAttempts     int           // attempts per request, including the first
	BackoffBase     time.Duration
	BackoffMax      time.Duration
}

// DefaultOptions returns the pacing used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		RequestInterval: time.Second,
		MaxAttempts:     3,
		BackoffBase:     time.Second,
		BackoffMax:      30 * time.Second,
	}
}

// Client is a wrapper around the go-github client.
type Client struct {
	gh      *github.Client
	limiter *ratelimit.Limiter
	policy  ratelimit.Policy
	logger  *slog.Logger
}

var _ API = (*Client)(nil)

// NewClient creates and configures a new Client instance.
// A non-empty token is sent as a bearer token on every request.
func NewClient(token string, opts Options, logger *slog.Logger) *Client {
	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		hc = oauth2.NewClient(context.Background(), ts)
	}

	c := &Client{
		gh:      github.NewClient(hc),
		limiter: ratelimit.NewLimiter(opts.RequestInterval),
		logger:  logger,
	}
	c.policy = ratelimit.Policy{
		Attempts: opts.MaxAttempts,
		Backoff:  ratelimit.Backoff{Base: opts.BackoffBase, Max: opts.BackoffMax},
		OnRetry: func(attempt int, wait time.Duration, err error) {
			c.logger.Warn("GitHub request failed, retrying",
				"attempt", attempt,
				"wait", wait.String(),
				"reason", custom_errors.ReasonOf(err),
				"error", err,
			)
		},
	}
	return c
}

// Repository fetches repository details and translates them to our internal model.
func (c *Client) Repository(ctx context.Context, owner, name string) (*model.RepositoryMetadata, error) {
	var repo *github.Repository
	err := c.do(ctx, owner, name, func(ctx context.Context) (*github.Response, error) {
		r, resp, err := c.gh.Repositories.Get(ctx, owner, name)
		repo = r
		return resp, err
	})
	if err != nil {
		return nil, err
	}
	return toRepositoryMetadata(repo), nil
}

// Readme fetches and decodes the repository README. A repository without a
// README yields an empty string.
func (c *Client) Readme(ctx context.Context, owner, name string) (string, error) {
	var content *github.RepositoryContent
	err := c.do(ctx, owner, name, func(ctx context.Context) (*github.Response, error) {
		rc, resp, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
		content = rc
		return resp, err
	})
	if errors.Is(err, custom_errors.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	text, err := content.GetContent()
	if err != nil {
		return "", custom_errors.New(custom_errors.ReasonInternal, owner+"/"+name, err)
	}
	return text, nil
}

// License fetches the detected license. Repositories without one yield UnknownLicense.
func (c *Client) License(ctx context.Context, owner, name string) (model.License, error) {
	var lic *github.RepositoryLicense
	err := c.do(ctx, owner, name, func(ctx context.Context) (*github.Response, error) {
		l, resp, err := c.gh.Repositories.License(ctx, owner, name)
		lic = l
		return resp, err
	})
	if errors.Is(err, custom_errors.ErrNotFound) {
		return model.UnknownLicense, nil
	}
	if err != nil {
		return model.UnknownLicense, err
	}
	return toLicense(lic), nil
}

// LatestCommit returns the timestamp of the most recent commit on the default branch.
func (c *Client) LatestCommit(ctx context.Context, owner, name string) (time.Time, bool, error) {
	var (
		commits []*github.RepositoryCommit
		empty   bool
	)
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: 1}}
	err := c.do(ctx, owner, name, func(ctx context.Context) (*github.Response, error) {
		cs, resp, err := c.gh.Repositories.ListCommits(ctx, owner, name, opts)
		// GitHub answers 409 for a repository with no commits at all.
		if isStatus(err, http.StatusConflict) {
			empty = true
			return resp, nil
		}
		commits = cs
		return resp, err
	})
	if err != nil {
		return time.Time{}, false, err
	}
	if empty || len(commits) == 0 {
		return time.Time{}, false, nil
	}
	ts := commitTime(commits[0])
	return ts, !ts.IsZero(), nil
}

// do paces and retries a single API call, translating failures into IngestErrors.
func (c *Client) do(ctx context.Context, owner, name string, call func(ctx context.Context) (*github.Response, error)) error {
	repo := owner + "/" + name
	err := c.policy.Do(ctx, classify, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		c.logger.Debug("Calling GitHub API", "repo", repo)
		_, err := call(ctx)
		if err != nil {
			return translate(repo, err)
		}
		return nil
	})
	if err == nil {
		return nil
	}

	if custom_errors.ReasonOf(err).Retryable() {
		return custom_errors.New(custom_errors.ReasonExternalServiceUnavailable, repo, err)
	}
	return err
}

// translate classifies a go-github error into the ingestion taxonomy.
func translate(repo string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return custom_errors.New(custom_errors.ReasonRateLimited, repo, err)
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return custom_errors.New(custom_errors.ReasonRateLimited, repo, err)
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return custom_errors.New(custom_errors.ReasonNotFound, repo, err)
		case http.StatusForbidden, http.StatusTooManyRequests:
			return custom_errors.New(custom_errors.ReasonRateLimited, repo, err)
		}
	}
	return custom_errors.New(custom_errors.ReasonTransientNetwork, repo, err)
}

// classify decides whether a translated error is worth another attempt and,
// for rate limits, how long GitHub asked us to wait.
func classify(err error) ratelimit.Decision {
	if !custom_errors.ReasonOf(err).Retryable() {
		return ratelimit.Decision{}
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return ratelimit.Decision{Retry: true, Wait: time.Until(rateErr.Rate.Reset.Time)}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return ratelimit.Decision{Retry: true, Wait: abuseErr.GetRetryAfter()}
	}
	return ratelimit.Decision{Retry: true}
}

func isStatus(err error, code int) bool {
	var respErr *github.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil && respErr.Response.StatusCode == code
}

// toRepositoryMetadata translates a github.Repository object to our internal model.
func toRepositoryMetadata(r *github.Repository) *model.RepositoryMetadata {
	return &model.RepositoryMetadata{
		Owner:       r.GetOwner().GetLogin(),
		Name:        r.GetName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		AuthorName:  r.GetOwner().GetLogin(),
		AuthorURL:   r.GetOwner().GetHTMLURL(),
		StarsCount:  r.GetStargazersCount(),
	}
}

func toLicense(l *github.RepositoryLicense) model.License {
	inner := l.GetLicense()
	if inner == nil || inner.GetName() == "" {
		return model.UnknownLicense
	}
	url := inner.GetURL()
	if url == "" {
		url = l.GetHTMLURL()
	}
	return model.License{Type: inner.GetName(), URL: url}
}

func commitTime(c *github.RepositoryCommit) time.Time {
	if d := c.GetCommit().GetCommitter().GetDate(); !d.IsZero() {
		return d.Time
	}
	return c.GetCommit().GetAuthor().GetDate().Time
}
