// internal/errors/errors_test.go
package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIngestError_Is(t *testing.T) {
	err := New(ReasonNoScriptID, "owner/repo", nil)

	assert.ErrorIs(t, err, ErrNoScriptID)
	assert.NotErrorIs(t, err, ErrMissingCommitData)

	wrapped := fmt.Errorf("ingest failed: %w", err)
	assert.ErrorIs(t, wrapped, ErrNoScriptID)
	assert.Equal(t, ReasonNoScriptID, ReasonOf(wrapped))
}

func TestIngestError_UnwrapsCause(t *testing.T) {
	cause := &ErrInvalidRepoFormat{Repo: "nope"}
	err := New(ReasonInvalidReference, "nope", cause)

	var target *ErrInvalidRepoFormat
	assert.ErrorAs(t, err, &target)
	assert.Equal(t, "nope", target.Repo)
	assert.Contains(t, err.Error(), "invalid_reference")
	assert.Contains(t, err.Error(), "nope")
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, Reason(""), ReasonOf(nil))
	assert.Equal(t, ReasonCanceled, ReasonOf(context.Canceled))
	assert.Equal(t, ReasonInternal, ReasonOf(errors.New("boom")))
	assert.Equal(t, ReasonDuplicateScriptID, ReasonOf(ErrDuplicateScriptID))

	interrupted := errors.Join(context.Canceled, New(ReasonRateLimited, "owner/repo", nil))
	assert.Equal(t, ReasonCanceled, ReasonOf(interrupted), "a context error wins over the last retry failure")
	assert.ErrorIs(t, interrupted, ErrRateLimited)
}

func TestReason_Message(t *testing.T) {
	assert.Equal(t, "No script ID was found in the README", ReasonNoScriptID.Message("en"))
	assert.Equal(t, "README からスクリプトIDが見つかりませんでした", ReasonNoScriptID.Message("ja"))
	assert.Equal(t, ReasonInternal.Message("en"), Reason("whatever").Message("en"))
}

func TestReason_Retryable(t *testing.T) {
	assert.True(t, ReasonRateLimited.Retryable())
	assert.True(t, ReasonTransientNetwork.Retryable())
	assert.False(t, ReasonNotFound.Retryable())
	assert.False(t, ReasonNoScriptID.Retryable())
}
