package keywords

import (
	"context"
	"encoding/json"
	"regexp"
	"sort"
	"strings"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/telemetry"
)

const fallbackCap = 50

// Bundle groups the keywords extracted from a job description. It lives only
// for the duration of one analysis request.
type Bundle struct {
	Skills     []string `json:"skills"`
	Tools      []string `json:"tools"`
	SoftSkills []string `json:"soft_skills"`
}

// Extractor classifies job-description terms via the LLM, falling back to a
// deterministic tokenizer when the model is unavailable or returns junk.
type Extractor struct {
	LLM llm.Client
}

// Extract never fails: any LLM or parse error degrades to the tokenizer
// fallback, with all tokens filed under Skills.
func (e *Extractor) Extract(ctx context.Context, jdText string) Bundle {
	if e.LLM != nil {
		resp, err := e.LLM.Generate(ctx, llm.KeywordPrompt(jdText))
		if err == nil {
			var bundle Bundle
			if jsonErr := json.Unmarshal([]byte(stripCodeFence(resp)), &bundle); jsonErr == nil {
				return bundle
			}
			telemetry.Warn("keywords.parse_failed", map[string]any{"len": len(resp)})
		} else {
			telemetry.Warn("keywords.llm_failed", map[string]any{"err": err.Error()})
		}
	}

	return Bundle{
		Skills:     FallbackTokens(jdText),
		Tools:      []string{},
		SoftSkills: []string{},
	}
}

var tokenPattern = regexp.MustCompile(`[A-Za-z+#.\-0-9]+`)

// FallbackTokens tokenizes a job description deterministically: lowercase
// alphanumeric-and-symbol tokens of length >= 2, deduplicated, sorted, and
// capped at 50.
func FallbackTokens(text string) []string {
	seen := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if len(tok) < 2 {
			continue
		}
		seen[strings.ToLower(tok)] = struct{}{}
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)

	if len(tokens) > fallbackCap {
		tokens = tokens[:fallbackCap]
	}
	return tokens
}

// stripCodeFence removes a surrounding markdown code fence, which local
// models frequently wrap JSON output in.
func stripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
