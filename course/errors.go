package course

import "github.com/goliatone/go-errors"

const (
	TextCodeInvalidCourseID = "INVALID_COURSE_ID"
	TextCodeCourseNotFound  = "COURSE_NOT_FOUND"
)

// ErrInvalidID is returned when a course id is not a well formed identifier.
var ErrInvalidID = errors.New("invalid course id", errors.CategoryBadInput).
	WithTextCode(TextCodeInvalidCourseID).
	WithCode(errors.CodeBadRequest)

// ErrNotFound is returned when no course matches the given id.
var ErrNotFound = errors.New("course not found", errors.CategoryNotFound).
	WithTextCode(TextCodeCourseNotFound).
	WithCode(errors.CodeNotFound)
