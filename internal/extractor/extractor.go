// internal/extractor/extractor.go
package extractor

import (
	"regexp"

	"gaslib-catalog/internal/model"
)

// MinScriptIDLength is the shortest value accepted as a script ID.
const MinScriptIDLength = 20

// Pattern is a single extraction rule. When the expression has a capture
// group, the first group is the candidate; otherwise the whole match is.
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

// Find returns the first qualifying candidate in text, scanning matches in
// document order.
func (p Pattern) Find(text string) (string, bool) {
	for _, m := range p.Expr.FindAllStringSubmatch(text, -1) {
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		if len(value) >= MinScriptIDLength {
			return value, true
		}
	}
	return "", false
}

// Candidate is a script ID found in README text.
type Candidate struct {
	ScriptID string
	Kind     model.ScriptIDKind
	Pattern  string
}

const idChars = `[A-Za-z0-9_-]`

// labelValue follows a label: the colon, with optional Markdown emphasis on
// either side (**Script ID**: x, **Script ID:** x), then an optionally
// code-quoted value.
const labelValue = `[ \t]*[*_]*[ \t]*[:：][ \t]*[*_]*[ \t]*` + "`?" + `(` + idChars + `+)`

// DefaultPatterns lists the extraction rules in priority order: explicit
// labels first, then inline code, then URLs, then the bare legacy-ID heuristic.
var DefaultPatterns = []Pattern{
	{
		Name: "label_script_id",
		Expr: regexp.MustCompile(`(?i)script[ \t]*id` + labelValue),
	},
	{
		Name: "label_japanese",
		Expr: regexp.MustCompile(`(?:スクリプト|ライブラリ)[ \t]*ID` + labelValue),
	},
	{
		Name: "label_library_id",
		Expr: regexp.MustCompile(`(?i)(?:library|project)[ \t]*(?:key|id)` + labelValue),
	},
	{
		Name: "inline_code",
		Expr: regexp.MustCompile("`((?:1|AK)" + idChars + "+)`"),
	},
	{
		Name: "legacy_library_url",
		Expr: regexp.MustCompile(`script\.google\.com/macros/d/(` + idChars + `+)`),
	},
	{
		Name: "webapp_deployment_url",
		Expr: regexp.MustCompile(`script\.google\.com/(?:a/)?macros/(?:[^/\s]+/)?s/(AK` + idChars + `+)/exec`),
	},
	{
		Name: "bare_legacy_id",
		Expr: regexp.MustCompile(`(?:^|[^A-Za-z0-9_-])(1` + idChars + `{20,})(?:$|[^A-Za-z0-9_-])`),
	},
}

// Extractor runs an ordered list of patterns over README text.
type Extractor struct {
	patterns []Pattern
}

// New returns an Extractor using patterns, or DefaultPatterns when none are given.
func New(patterns ...Pattern) *Extractor {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	return &Extractor{patterns: patterns}
}

// Extract returns the first qualifying candidate in pattern-priority order.
// Finding nothing is a normal outcome and is reported through ok=false.
func (e *Extractor) Extract(readme string) (Candidate, bool) {
	if readme == "" {
		return Candidate{}, false
	}
	for _, p := range e.patterns {
		if id, ok := p.Find(readme); ok {
			return Candidate{ScriptID: id, Kind: model.KindOf(id), Pattern: p.Name}, true
		}
	}
	return Candidate{}, false
}
