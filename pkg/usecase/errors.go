package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// ErrNoClassificationResult means the classifier call succeeded but
	// yielded zero vocabulary-valid accident types. The caller should ask
	// the user to rephrase the work description.
	ErrNoClassificationResult = errors.New("no accident type could be identified from the work description")

	// ErrEmptyDescription means no work description was supplied
	ErrEmptyDescription = errors.New("work description is required")
)
