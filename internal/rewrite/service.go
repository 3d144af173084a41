package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"ats-backend/internal/llm"
	"ats-backend/internal/shared/telemetry"
)

const (
	minResumeTextLen     = 50
	minJobDescriptionLen = 10
)

var (
	// ErrResumeTextTooShort rejects rewrite requests with too little resume text.
	ErrResumeTextTooShort = errors.New("resume text must be at least 50 characters")
	// ErrJobDescriptionTooShort rejects trivially short job descriptions.
	ErrJobDescriptionTooShort = errors.New("job description must be at least 10 characters")
)

// Result is the structured rewrite. When the model ignores the JSON contract
// the raw text lands in Rewritten and the structured fields stay empty.
type Result struct {
	Summary    string   `json:"summary,omitempty"`
	Experience []string `json:"experience,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Rewritten  string   `json:"rewritten,omitempty"`
}

// Service produces ATS-optimized rewrites of resume text. Unlike the
// analysis pipeline, a gateway failure here is a hard error: there is no
// useful degraded output for a rewrite.
type Service struct {
	LLM llm.Client
}

// Rewrite asks the model for a structured rewrite of the resume against the
// job description.
func (s *Service) Rewrite(ctx context.Context, resumeText, jd string) (Result, error) {
	resumeText = strings.TrimSpace(resumeText)
	jd = strings.TrimSpace(jd)
	if len(resumeText) < minResumeTextLen {
		return Result{}, ErrResumeTextTooShort
	}
	if len(jd) < minJobDescriptionLen {
		return Result{}, ErrJobDescriptionTooShort
	}

	resp, err := s.LLM.Generate(ctx, llm.RewritePrompt(resumeText, jd))
	if err != nil {
		return Result{}, err
	}

	var result Result
	if jsonErr := json.Unmarshal([]byte(stripCodeFence(resp)), &result); jsonErr != nil {
		telemetry.Warn("rewrite.parse_failed", map[string]any{"len": len(resp)})
		return Result{Rewritten: resp}, nil
	}
	return result, nil
}

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
