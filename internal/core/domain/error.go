package domain

import (
	"errors"
)

var (
	ErrInternal = errors.New("internal error")

	// * Data errors.
	ErrDataNotFound    = errors.New("data not found")
	ErrConflictingData = errors.New("data conflicts with existing data in unique column")

	// * Communication errors.
	ErrBadRequest    = errors.New("error parsing request")
	ErrInvalidFilter = errors.New("filter is not valid")

	// * Business errors.
	ErrInvalidRecord     = errors.New("order record is not valid")
	ErrInvalidTransition = errors.New("difference status transition is not allowed")
)
