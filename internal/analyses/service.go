package analyses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ats-backend/internal/embedding"
	"ats-backend/internal/extract"
	"ats-backend/internal/keywords"
	"ats-backend/internal/llm"
	"ats-backend/internal/resumes"
	"ats-backend/internal/shared/telemetry"
)

const (
	minJobDescriptionLen = 10
	minResumeTextLen     = 50

	maxChunks          = 128
	contextTopK        = 3
	fallbackContextLen = 1000

	unavailableNarrative = "LLM service unavailable. Basic analysis: score calculated based on semantic similarity."
)

// Service runs the analysis pipeline: parse, persist, extract keywords,
// score, retrieve context, generate the narrative and store the result.
//
// Parsing and resume persistence are hard failures; every LLM- or
// embedding-backed stage degrades instead of aborting, because the durable
// resume record must exist to be useful while analysis quality is
// best-effort.
type Service struct {
	Resumes  resumes.Repo
	Repo     Repo
	LLM      llm.Client
	Embedder embedding.Embedder
	Keywords *keywords.Extractor
}

// Input is one analyze request.
type Input struct {
	UserID         string
	Filename       string
	File           []byte
	JobDescription string
}

// Result is returned to the caller even when soft stages degraded.
type Result struct {
	ResumeID        string   `json:"resume_id"`
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
	Analysis        string   `json:"analysis"`
}

// degradation records a soft-failed stage so the pipeline's fallback policy
// shows up in logs as data rather than buried control flow.
type degradation struct {
	Stage  string
	Reason string
}

// Analyze runs the full pipeline for one upload.
func (s *Service) Analyze(ctx context.Context, in Input) (Result, error) {
	jd := strings.TrimSpace(in.JobDescription)
	if len(jd) < minJobDescriptionLen {
		return Result{}, ErrJobDescriptionTooShort
	}

	text, err := extract.FromBytes(in.File, in.Filename)
	if err != nil {
		return Result{}, err
	}
	if len(strings.TrimSpace(text)) < minResumeTextLen {
		return Result{}, ErrResumeTextTooShort
	}

	resume := resumes.Resume{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Filename:  in.Filename,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Resumes.Create(ctx, resume); err != nil {
		return Result{}, fmt.Errorf("%w: save resume: %v", ErrStorage, err)
	}

	var degraded []degradation

	bundle := s.Keywords.Extract(ctx, jd)
	matched := matchKeywords(bundle.Skills, text)

	score, err := embedding.Score(ctx, s.Embedder, text, jd)
	if err != nil {
		degraded = append(degraded, degradation{Stage: "semantic_score", Reason: err.Error()})
		score = 0.0
	}

	contextText, reason := s.retrieveContext(ctx, text, jd)
	if reason != "" {
		degraded = append(degraded, degradation{Stage: "context_retrieval", Reason: reason})
	}

	narrative, err := s.LLM.Generate(ctx, llm.AnalysisPrompt(contextText, jd))
	if err != nil {
		degraded = append(degraded, degradation{Stage: "narrative", Reason: err.Error()})
		narrative = unavailableNarrative
	}

	analysis := Analysis{
		ID:              uuid.NewString(),
		ResumeID:        resume.ID,
		UserID:          in.UserID,
		JobDescription:  jd,
		Score:           score,
		MatchedKeywords: matched,
		Narrative:       narrative,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		// The computed result is still worth returning; only the history
		// record is lost.
		degraded = append(degraded, degradation{Stage: "save_analysis", Reason: err.Error()})
	}

	for _, d := range degraded {
		telemetry.Warn("analysis.degraded", map[string]any{
			"resume_id": resume.ID,
			"stage":     d.Stage,
			"reason":    d.Reason,
		})
	}

	return Result{
		ResumeID:        resume.ID,
		Score:           score,
		MatchedKeywords: matched,
		Analysis:        narrative,
	}, nil
}

// List returns the caller's recent analyses.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

// matchKeywords marks a keyword as matched when its lowercase form appears
// as a literal substring of the lowercased resume text. This over- and
// under-matches (no stemming, no word boundaries); kept as observed
// behavior.
func matchKeywords(skills []string, resumeText string) []string {
	lowered := strings.ToLower(resumeText)
	matched := []string{}
	for _, k := range skills {
		if k == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(k)) {
			matched = append(matched, k)
		}
	}
	return matched
}

// retrieveContext indexes resume paragraphs and pulls the top chunks most
// similar to the job description. Any failure degrades to a prefix of the
// resume text; the returned reason is empty on the happy path.
func (s *Service) retrieveContext(ctx context.Context, resumeText, jd string) (string, string) {
	paragraphs := splitParagraphs(resumeText)
	if len(paragraphs) == 0 {
		return prefix(resumeText, fallbackContextLen), "no paragraphs"
	}
	if len(paragraphs) > maxChunks {
		paragraphs = paragraphs[:maxChunks]
	}

	ix := embedding.NewIndex(s.Embedder)
	if err := ix.Build(ctx, paragraphs); err != nil {
		return prefix(resumeText, fallbackContextLen), err.Error()
	}
	matches, err := ix.Query(ctx, jd, contextTopK)
	if err != nil {
		return prefix(resumeText, fallbackContextLen), err.Error()
	}
	if len(matches) == 0 {
		return prefix(resumeText, fallbackContextLen), "no matches"
	}

	chunks := make([]string, len(matches))
	for i, m := range matches {
		chunks[i] = m.Chunk
	}
	return strings.Join(chunks, "\n\n"), ""
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
