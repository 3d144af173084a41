package resumes

import "time"

// Resume is one uploaded resume with its extracted text. Rows are immutable
// after creation.
type Resume struct {
	ID        string
	UserID    string // empty when the owner is unknown
	Filename  string
	Text      string
	CreatedAt time.Time
}
