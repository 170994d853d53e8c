// internal/errors/errors.go
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Reason is a stable, display-independent code for why an ingestion failed.
type Reason string

const (
	ReasonInvalidReference           Reason = "invalid_reference"
	ReasonNotFound                   Reason = "not_found"
	ReasonRateLimited                Reason = "rate_limited"
	ReasonTransientNetwork           Reason = "transient_network_error"
	ReasonExternalServiceUnavailable Reason = "external_service_unavailable"
	ReasonMissingCommitData          Reason = "missing_commit_data"
	ReasonNoScriptID                 Reason = "no_script_id"
	ReasonScriptIDMismatch           Reason = "script_id_mismatch"
	ReasonDuplicateScriptID          Reason = "duplicate_script_id"
	ReasonDuplicateRepositoryURL     Reason = "duplicate_repository_url"
	ReasonCanceled                   Reason = "canceled"
	ReasonInternal                   Reason = "internal_error"
)

var messages = map[Reason]struct{ ja, en string }{
	ReasonInvalidReference:           {"リポジトリの指定形式が正しくありません", "The repository reference is malformed"},
	ReasonNotFound:                   {"リポジトリが見つかりません", "The repository does not exist"},
	ReasonRateLimited:                {"GitHub API のレート制限に達しました", "GitHub API rate limit reached"},
	ReasonTransientNetwork:           {"GitHub への通信で一時的なエラーが発生しました", "A transient error occurred while contacting GitHub"},
	ReasonExternalServiceUnavailable: {"GitHub API が利用できません。時間をおいて再試行してください", "GitHub API is unavailable, please retry later"},
	ReasonMissingCommitData:          {"最新コミット情報を取得できませんでした", "The latest commit timestamp is unavailable"},
	ReasonNoScriptID:                 {"README からスクリプトIDが見つかりませんでした", "No script ID was found in the README"},
	ReasonScriptIDMismatch:           {"README のスクリプトIDが登録済みのものと一致しません", "The README script ID no longer matches the stored one"},
	ReasonDuplicateScriptID:          {"このスクリプトIDは既に登録されています", "This script ID is already registered"},
	ReasonDuplicateRepositoryURL:     {"このリポジトリは既に登録されています", "This repository is already registered"},
	ReasonCanceled:                   {"処理が中断されました", "The operation was canceled"},
	ReasonInternal:                   {"内部エラーが発生しました", "An internal error occurred"},
}

// Message returns the localized display text for r. Any language other than
// "ja" falls back to English.
func (r Reason) Message(lang string) string {
	m, ok := messages[r]
	if !ok {
		m = messages[ReasonInternal]
	}
	if lang == "ja" {
		return m.ja
	}
	return m.en
}

// Retryable reports whether a failure with this reason may succeed on a later attempt.
func (r Reason) Retryable() bool {
	return r == ReasonRateLimited || r == ReasonTransientNetwork
}

// ErrInvalidRepoFormat is returned when a repository reference cannot be resolved to 'owner/name'.
type ErrInvalidRepoFormat struct {
	Repo string
}

func (e *ErrInvalidRepoFormat) Error() string {
	return fmt.Sprintf("invalid repository format: %q, expected 'owner/name' or a GitHub URL", e.Repo)
}

// IngestError carries a Reason along with the repository it concerns and the underlying cause.
type IngestError struct {
	Reason     Reason
	Repository string
	Err        error
}

func (e *IngestError) Error() string {
	msg := string(e.Reason)
	if e.Repository != "" {
		msg = e.Repository + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// Is matches any IngestError sentinel with the same Reason.
func (e *IngestError) Is(target error) bool {
	t, ok := target.(*IngestError)
	if !ok {
		return false
	}
	return t.Repository == "" && t.Err == nil && t.Reason == e.Reason
}

// Sentinels for errors.Is checks.
var (
	ErrInvalidReference           = &IngestError{Reason: ReasonInvalidReference}
	ErrNotFound                   = &IngestError{Reason: ReasonNotFound}
	ErrRateLimited                = &IngestError{Reason: ReasonRateLimited}
	ErrTransientNetwork           = &IngestError{Reason: ReasonTransientNetwork}
	ErrExternalServiceUnavailable = &IngestError{Reason: ReasonExternalServiceUnavailable}
	ErrMissingCommitData          = &IngestError{Reason: ReasonMissingCommitData}
	ErrNoScriptID                 = &IngestError{Reason: ReasonNoScriptID}
	ErrScriptIDMismatch           = &IngestError{Reason: ReasonScriptIDMismatch}
	ErrDuplicateScriptID          = &IngestError{Reason: ReasonDuplicateScriptID}
	ErrDuplicateRepositoryURL     = &IngestError{Reason: ReasonDuplicateRepositoryURL}
)

// New builds an IngestError for repo with the given reason and cause.
func New(reason Reason, repo string, err error) error {
	return &IngestError{Reason: reason, Repository: repo, Err: err}
}

// ReasonOf maps err to its Reason. A context error anywhere in the chain
// wins over any Reason it is joined with, so an interrupted retry reports
// canceled. Other errors without a Reason are internal.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ReasonCanceled
	}
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Reason
	}
	return ReasonInternal
}
