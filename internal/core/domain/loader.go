package domain

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseGrid builds a grid from newline-delimited text of '0' and '1' characters.
// "\n", "\r\n" and a bare "\r" all end a row. Blank lines are skipped. The first invalid character aborts the whole parse.
func ParseGrid(text string) (*Grid, error) {
	var rows [][]uint8

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for lineNum, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}

		row := make([]uint8, 0, len(line))
		col := 0
		for _, ch := range line {
			col++
			switch ch {
			case '0':
				row = append(row, 0)
			case '1':
				row = append(row, 1)
			default:
				return nil, &CharacterError{Line: lineNum + 1, Column: col, Char: ch}
			}
		}
		rows = append(rows, row)
	}

	return NewGrid(rows)
}

// LoadGrid reads all of r and parses it as grid text
func LoadGrid(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	return ParseGrid(string(data))
}

// LoadGridFile opens path, parses it and closes it again
func LoadGridFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file: %w", err)
	}
	defer f.Close()

	grid, err := LoadGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grid, nil
}
