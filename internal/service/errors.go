package service

import "errors"

// Sentinel errors returned by services. Handlers translate these into
// response codes; nothing below ever carries internal detail.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrEmailTaken         = errors.New("email already registered")

	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("access denied")
	ErrNotOwner  = errors.New("resource owned by another teacher")

	ErrSubjectCodeTaken = errors.New("subject code already exists")
	ErrAlreadyEnrolled  = errors.New("already enrolled in subject")
	ErrNotEnrolled      = errors.New("not enrolled in subject")

	ErrAlreadySubmitted = errors.New("task already submitted")
	ErrDeadlinePassed   = errors.New("submission deadline has passed")
	ErrEmptySubmission  = errors.New("submission needs content or files")
	ErrPointsExceedMax  = errors.New("points exceed task maximum")
)
