package domain

import (
	"errors"
	"fmt"
)

// Common domain errors that can occur during matching operations.
var (
	// ErrInvalidAnswer indicates that a submitted answer references an
	// unknown question or option key.
	ErrInvalidAnswer = errors.New("invalid answer")

	// ErrIncompleteAnswers indicates that the strict model received an
	// answer set missing one or more questions.
	ErrIncompleteAnswers = errors.New("incomplete answer set")

	// ErrNoCandidates indicates that scoring was invoked with no
	// candidates eligible for the requested model.
	ErrNoCandidates = errors.New("no candidates to score")

	// ErrDataIntegrity is the class sentinel for malformed static data.
	// Errors of this class are fatal and must abort initialization.
	ErrDataIntegrity = errors.New("data integrity violation")
)

// DataIntegrityError reports malformed static data discovered at load
// time: a stance vector whose length disagrees with the question count, a
// question referencing a nonexistent section, and similar. These errors
// abort initialization and are never recovered from at request time.
type DataIntegrityError struct {
	// Entity names the kind of record that is malformed
	// (e.g. "candidate", "question", "evidence").
	Entity string

	// Detail describes the specific violation.
	Detail string
}

// Error implements the error interface for DataIntegrityError.
func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity violation in %s: %s", e.Entity, e.Detail)
}

// Unwrap classifies every DataIntegrityError under ErrDataIntegrity so
// callers can match the class with errors.Is.
func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }

// NewDataIntegrityError creates a DataIntegrityError for the given entity.
func NewDataIntegrityError(entity, detail string) *DataIntegrityError {
	return &DataIntegrityError{Entity: entity, Detail: detail}
}

// InvalidAnswerError reports a submitted answer that is inconsistent with
// the loaded questionnaire. It is recoverable: the caller rejects the
// request and no partial result is produced.
type InvalidAnswerError struct {
	// QuestionID is the question the answer referenced, possibly unknown.
	QuestionID string

	// Option is the selected option key, when the option is at fault.
	Option OptionKey

	// Reason describes what made the answer invalid.
	Reason string
}

// Error implements the error interface for InvalidAnswerError.
func (e *InvalidAnswerError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("invalid answer for question %q: option %q: %s",
			e.QuestionID, e.Option, e.Reason)
	}
	return fmt.Sprintf("invalid answer for question %q: %s", e.QuestionID, e.Reason)
}

// Unwrap classifies every InvalidAnswerError under ErrInvalidAnswer.
func (e *InvalidAnswerError) Unwrap() error { return ErrInvalidAnswer }
