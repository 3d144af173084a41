package analyses

import "time"

// Analysis is one stored evaluation of a resume against a job description.
// Rows are append-only. UserID is denormalized from the owning resume so
// history listing doesn't need a join.
type Analysis struct {
	ID              string    `json:"id"`
	ResumeID        string    `json:"resumeId"`
	UserID          string    `json:"userId,omitempty"`
	JobDescription  string    `json:"jobDescription"`
	Score           float64   `json:"score"`
	MatchedKeywords []string  `json:"matchedKeywords"`
	Narrative       string    `json:"analysis"`
	CreatedAt       time.Time `json:"createdAt"`
}
