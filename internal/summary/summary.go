// internal/summary/summary.go
package summary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// maxReadmeBytes bounds how much README text is sent for summarization.
const maxReadmeBytes = 12000

// ErrEmptyResponse is returned when the model produced no usable text.
var ErrEmptyResponse = errors.New("summary: empty model response")

// Summary is a short bilingual description of a library.
type Summary struct {
	JA string `json:"ja"`
	EN string `json:"en"`
}

// Summarizer produces a Summary from a library's README.
type Summarizer interface {
	Summarize(ctx context.Context, name, readme string) (Summary, error)
}

// Nop is a Summarizer that always returns an empty Summary.
type Nop struct{}

func (Nop) Summarize(context.Context, string, string) (Summary, error) {
	return Summary{}, nil
}

// Gemini summarizes through the Gemini API.
type Gemini struct {
	cli   *genai.Client
	model string
}

// NewGemini creates a Gemini summarizer for model.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{cli: cli, model: model}, nil
}

const prompt = `You summarize Google Apps Script libraries for a public directory.
Read the README below and answer with JSON only, shaped as {"ja": "...", "en": "..."}.
Each value is at most two sentences describing what the library does and when to use it.
"ja" is written in Japanese, "en" in English.`

// Summarize asks the model for a JSON summary of readme.
func (g *Gemini) Summarize(ctx context.Context, name, readme string) (Summary, error) {
	full := prompt + "\n\n[LIBRARY]\n" + name + "\n\n[README]\n" + Truncate(readme, maxReadmeBytes)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to generate summary: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Summary{}, ErrEmptyResponse
	}
	return Parse(resp.Candidates[0].Content.Parts[0].Text)
}

// Parse decodes the model's JSON answer, tolerating a surrounding code fence.
func Parse(raw string) (Summary, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var s Summary
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &s); err != nil {
		return Summary{}, fmt.Errorf("failed to decode summary: %w", err)
	}
	s.JA = strings.TrimSpace(s.JA)
	s.EN = strings.TrimSpace(s.EN)
	if s.JA == "" && s.EN == "" {
		return Summary{}, ErrEmptyResponse
	}
	return s, nil
}

// Truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
