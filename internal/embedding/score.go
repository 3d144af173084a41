package embedding

import (
	"context"
	"math"
	"strings"
)

// Score computes a 0-100 semantic similarity between a resume and a job
// description: the resume is indexed as a single chunk, queried with the job
// description, and the top similarity is scaled to a percentage rounded to
// two decimals. A degenerate resume (blank after trimming) scores 0.0.
func Score(ctx context.Context, embedder Embedder, resumeText, jdText string) (float64, error) {
	if strings.TrimSpace(resumeText) == "" {
		return 0, nil
	}
	ix := NewIndex(embedder)
	if err := ix.Build(ctx, []string{resumeText}); err != nil {
		return 0, err
	}
	matches, err := ix.Query(ctx, jdText, 1)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}
	// Cosine can go slightly negative for unrelated texts and drift past 1
	// with float error; clamp so the score stays inside 0-100.
	sim := matches[0].Similarity
	if sim < 0 {
		sim = 0
	} else if sim > 1 {
		sim = 1
	}
	return round2(sim * 100), nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
