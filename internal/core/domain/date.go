package domain

import (
	"fmt"
	"strings"
)

// DefaultLastUpdate is used when a record is created without a date
const DefaultLastUpdate = "00/00/0000"

// Date holds the zero-padded components of a DD/MM/YYYY string.
// Only the format is checked; "99/13/0000" is a valid Date.
type Date struct {
	Day   string `yaml:"day"`
	Month string `yaml:"month"`
	Year  string `yaml:"year"`
}

// ParseDate splits a DD/MM/YYYY string into its components
func ParseDate(s string) (Date, error) {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return Date{}, fmt.Errorf("%q: %w", s, ErrMalformedDate)
	}

	parts := strings.Split(s, "/")
	if len(parts) != 3 || len(parts[0]) != 2 || len(parts[1]) != 2 || len(parts[2]) != 4 {
		return Date{}, fmt.Errorf("%q: %w", s, ErrMalformedDate)
	}

	return Date{Day: parts[0], Month: parts[1], Year: parts[2]}, nil
}

func (d Date) String() string {
	return d.Day + "/" + d.Month + "/" + d.Year
}

// SortKey orders dates as YYYYMMDD strings
func (d Date) SortKey() string {
	return d.Year + d.Month + d.Day
}
