package domain

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    Date
		wantErr bool
	}{
		{"09/01/2024", Date{Day: "09", Month: "01", Year: "2024"}, false},
		{"00/00/0000", Date{Day: "00", Month: "00", Year: "0000"}, false},
		{"99/13/2024", Date{Day: "99", Month: "13", Year: "2024"}, false}, // format only
		{"9/1/2024", Date{}, true},
		{"09-01-2024", Date{}, true},
		{"09/2024", Date{}, true},
		{"0/0/2024", Date{}, true},
		{"09/01/20/4", Date{}, true},
		{"09/01/20245", Date{}, true},
		{"", Date{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDate) {
					t.Errorf("ParseDate(%q) error = %v, want ErrMalformedDate", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDate(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_String(t *testing.T) {
	d := Date{Day: "01", Month: "09", Year: "2024"}
	if d.String() != "01/09/2024" {
		t.Errorf("String() = %q", d.String())
	}
	if d.SortKey() != "20240901" {
		t.Errorf("SortKey() = %q", d.SortKey())
	}
}
