package models

import "errors"

// Application-wide standard errors
var (
	// Common Resource/DB Errors
	ErrNotFound           = errors.New("resource not found")
	ErrSequenceNotFound   = errors.New("sequence not found")
	ErrSubmissionNotFound = errors.New("channel submission not found")

	// User & Authentication Errors
	ErrUnauthorized = errors.New("unauthorized") // Authentication required or failed
	ErrForbidden    = errors.New("forbidden")    // Authenticated, but lacks permission

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Sequence Validation Errors
	ErrTitleRequired    = errors.New("sequence title is required")
	ErrNoValidItems     = errors.New("sequence must contain at least one valid item")
	ErrTooManyItems     = errors.New("sequence exceeds the maximum number of items")
	ErrTooManyHashtags  = errors.New("sequence exceeds the maximum number of hashtags")
	ErrInvalidPosition  = errors.New("invalid item position")
	ErrInvalidItemIndex = errors.New("invalid item index")

	// Draft Errors
	ErrDraftNotFound = errors.New("draft snapshot not found")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
