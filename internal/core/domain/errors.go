package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCharacter is returned when grid text contains anything other than '0' or '1'
	ErrInvalidCharacter = errors.New("file should contain only 0s and 1s")

	// ErrMalformedDate is returned when a date string is not in DD/MM/YYYY form
	ErrMalformedDate = errors.New("input format incorrect")

	// ErrIndexOutOfBounds is returned when a cell outside the grid is accessed
	ErrIndexOutOfBounds = errors.New("index out of bound")

	ErrEmptyGrid         = errors.New("grid must have at least one row and one column")
	ErrRaggedGrid        = errors.New("grid rows must all have the same length")
	ErrInvalidCell       = errors.New("grid cells must be 0 or 1")
	ErrDimensionMismatch = errors.New("comparand grid is smaller than the subject grid")
	ErrInvalidTolerance  = errors.New("tolerance must be a non-negative number")

	ErrRecordNotFound = errors.New("record not found")
	ErrRecordExists   = errors.New("record already exists")
)

// CharacterError reports the position of the first invalid character in grid text.
// Line and Column are 1-based.
type CharacterError struct {
	Line   int
	Column int
	Char   rune
}

func (e *CharacterError) Error() string {
	return fmt.Sprintf("line %d, column %d: unexpected %q: %v", e.Line, e.Column, e.Char, ErrInvalidCharacter)
}

func (e *CharacterError) Unwrap() error {
	return ErrInvalidCharacter
}

// BoundsError reports an out-of-range cell access
type BoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("cell (%d, %d) outside %dx%d grid: %v", e.Row, e.Col, e.Rows, e.Cols, ErrIndexOutOfBounds)
}

func (e *BoundsError) Unwrap() error {
	return ErrIndexOutOfBounds
}
