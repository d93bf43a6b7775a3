package domain

import (
	"fmt"
	"math"
)

// DefaultOwner is used when a record is created without an owner
const DefaultOwner = "Default Owner"

// Record is a grid together with its owner, last update date and damage tolerance
type Record struct {
	grid       *Grid
	lastUpdate Date
	owner      string
	tolerance  float64
}

type recordOptions struct {
	lastUpdate string
	owner      string
	tolerance  float64
}

// RecordOption customises record metadata
type RecordOption func(*recordOptions)

// WithLastUpdate sets the DD/MM/YYYY last update date
func WithLastUpdate(date string) RecordOption {
	return func(o *recordOptions) { o.lastUpdate = date }
}

// WithOwner sets the owner name
func WithOwner(owner string) RecordOption {
	return func(o *recordOptions) { o.owner = owner }
}

// WithTolerance sets the maximum acceptable mismatch rate
func WithTolerance(tolerance float64) RecordOption {
	return func(o *recordOptions) { o.tolerance = tolerance }
}

// NewRecord wraps grid with metadata. Any invalid option fails the whole construction.
func NewRecord(grid *Grid, opts ...RecordOption) (*Record, error) {
	if grid == nil {
		return nil, ErrEmptyGrid
	}

	o := recordOptions{
		lastUpdate: DefaultLastUpdate,
		owner:      DefaultOwner,
	}
	for _, opt := range opts {
		opt(&o)
	}

	date, err := ParseDate(o.lastUpdate)
	if err != nil {
		return nil, err
	}

	if err := ValidateTolerance(o.tolerance); err != nil {
		return nil, err
	}

	return &Record{
		grid:       grid,
		lastUpdate: date,
		owner:      o.owner,
		tolerance:  o.tolerance,
	}, nil
}

// LoadRecord reads the grid at path and wraps it with metadata
func LoadRecord(path string, opts ...RecordOption) (*Record, error) {
	grid, err := LoadGridFile(path)
	if err != nil {
		return nil, err
	}
	return NewRecord(grid, opts...)
}

// ValidateTolerance rejects negative, NaN and infinite tolerances
func ValidateTolerance(tolerance float64) error {
	if tolerance < 0 || math.IsNaN(tolerance) || math.IsInf(tolerance, 0) {
		return fmt.Errorf("%v: %w", tolerance, ErrInvalidTolerance)
	}
	return nil
}

// Grid returns the record's grid
func (r *Record) Grid() *Grid {
	return r.grid
}

// LastUpdate returns the parsed last update date
func (r *Record) LastUpdate() Date {
	return r.lastUpdate
}

// Owner returns the record owner
func (r *Record) Owner() string {
	return r.owner
}

// Tolerance returns the record's damage tolerance
func (r *Record) Tolerance() float64 {
	return r.tolerance
}

// Describe returns the human readable summary of the record
func (r *Record) Describe() string {
	return fmt.Sprintf("The QR code was created by %s and last updated in %s.\n"+
		"The details regarding the QR code file are as follows:\n%s",
		r.owner, r.lastUpdate.Year, r.grid.String())
}

func (r *Record) String() string {
	return r.Describe()
}

// SameAs reports whether both grids are equal and the tolerances match exactly
func (r *Record) SameAs(other *Record) bool {
	if other == nil {
		return false
	}
	return r.grid.Equals(other.grid) && r.tolerance == other.tolerance
}

// IsCorrupted compares r against a known-good reference using r's tolerance.
// It returns the approximate-equality result as is: true means the grid is
// within tolerance of the reference.
func (r *Record) IsCorrupted(reference *Record) bool {
	if reference == nil {
		return false
	}
	return r.grid.ApproximatelyEqual(reference.grid, r.tolerance)
}
