// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"gaslib-catalog/internal/catalog"
	custom_errors "gaslib-catalog/internal/errors"
)

const (
	reasonInvalidRequest = "invalid_request"
	reasonLibraryMissing = "not_found"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// respondWithJSON writes payload as JSON with the given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":{"reason":"internal_error","message":"failed to encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// respondWithError writes the standard error envelope.
func respondWithError(w http.ResponseWriter, code int, reason, message string) {
	respondWithJSON(w, code, errorBody{Error: errorDetail{Reason: reason, Message: message}})
}

func (h *Handler) respondWithBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	respondWithError(w, http.StatusBadRequest, reasonInvalidRequest, message)
}

// respondWithFailure maps err to an HTTP status and a localized message.
func (h *Handler) respondWithFailure(w http.ResponseWriter, r *http.Request, err error) {
	lang := language(r)

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		msg := "Library not found"
		if lang == "ja" {
			msg = "ライブラリが見つかりません"
		}
		respondWithError(w, http.StatusNotFound, reasonLibraryMissing, msg)
		return
	case errors.Is(err, catalog.ErrInvalidStatus):
		h.respondWithBadRequest(w, r, err.Error())
		return
	}

	reason := custom_errors.ReasonOf(err)
	code := statusFor(reason)
	if code >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", r.URL.Path, "reason", reason, "error", err)
	}
	respondWithError(w, code, string(reason), reason.Message(lang))
}

func statusFor(reason custom_errors.Reason) int {
	switch reason {
	case custom_errors.ReasonInvalidReference:
		return http.StatusBadRequest
	case custom_errors.ReasonNotFound:
		return http.StatusNotFound
	case custom_errors.ReasonDuplicateScriptID, custom_errors.ReasonDuplicateRepositoryURL:
		return http.StatusConflict
	case custom_errors.ReasonMissingCommitData, custom_errors.ReasonNoScriptID, custom_errors.ReasonScriptIDMismatch:
		return http.StatusUnprocessableEntity
	case custom_errors.ReasonExternalServiceUnavailable, custom_errors.ReasonRateLimited,
		custom_errors.ReasonTransientNetwork, custom_errors.ReasonCanceled:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// language picks "ja" when it is the client's first preference and "en" otherwise.
func language(r *http.Request) string {
	pref := strings.ToLower(strings.TrimSpace(r.Header.Get("Accept-Language")))
	if strings.HasPrefix(pref, "ja") {
		return "ja"
	}
	return "en"
}
