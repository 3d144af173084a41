package analyses

import "errors"

var (
	// ErrJobDescriptionTooShort rejects trivially short job descriptions.
	ErrJobDescriptionTooShort = errors.New("job description must be at least 10 characters")
	// ErrResumeTextTooShort rejects uploads that yield no meaningful text.
	ErrResumeTextTooShort = errors.New("unable to extract meaningful text from resume")
	// ErrStorage marks a hard persistence failure that aborts the request.
	ErrStorage = errors.New("storage failure")
)
