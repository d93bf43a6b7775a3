package domain

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// FullBlock is the glyph used to draw a set pixel
	FullBlock = "█"

	setPixel   = FullBlock + FullBlock
	unsetPixel = "  "
)

// Grid is an immutable rectangular bitmap of 0/1 cells
type Grid struct {
	cells [][]uint8
	rows  int
	cols  int
}

// Cell identifies a single pixel by its zero-based coordinates
type Cell struct {
	Row int
	Col int
}

// NewGrid validates cells and returns a grid that owns a private copy of them
func NewGrid(cells [][]uint8) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}

	cols := len(cells[0])
	owned := make([][]uint8, len(cells))
	for i, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d: %w", i+1, len(row), cols, ErrRaggedGrid)
		}
		for j, v := range row {
			if v > 1 {
				return nil, fmt.Errorf("cell (%d, %d) is %d: %w", i, j, v, ErrInvalidCell)
			}
		}
		owned[i] = append([]uint8(nil), row...)
	}

	return &Grid{
		cells: owned,
		rows:  len(owned),
		cols:  cols,
	}, nil
}

// Rows returns the number of rows
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns
func (g *Grid) Cols() int {
	return g.cols
}

// PixelCount returns rows * cols
func (g *Grid) PixelCount() int {
	return g.rows * g.cols
}

// At returns the value of the cell at (row, col)
func (g *Grid) At(row, col int) (uint8, error) {
	if row < 0 || col < 0 || row >= g.rows || col >= g.cols {
		return 0, &BoundsError{Row: row, Col: col, Rows: g.rows, Cols: g.cols}
	}
	return g.cells[row][col], nil
}

// Cells returns a copy of the grid data
func (g *Grid) Cells() [][]uint8 {
	out := make([][]uint8, g.rows)
	for i, row := range g.cells {
		out[i] = append([]uint8(nil), row...)
	}
	return out
}

// SameDimensions reports whether both grids have the same shape
func (g *Grid) SameDimensions(other *Grid) bool {
	return other != nil && g.rows == other.rows && g.cols == other.cols
}

// Equals reports whether other holds exactly the same cells.
// Grids of different shape are never equal.
func (g *Grid) Equals(other *Grid) bool {
	if !g.SameDimensions(other) {
		return false
	}

	for i := range g.cells {
		if !rowsEqual(g.cells[i], other.cells[i]) {
			return false
		}
	}
	return true
}

func rowsEqual(a, b []uint8) bool {
	for j := range a {
		if a[j] != b[j] {
			return false
		}
	}
	return true
}

// MismatchCount counts the cells of g that differ from other, scanning g's full extent
func (g *Grid) MismatchCount(other *Grid) (int, error) {
	if other == nil || other.rows < g.rows || other.cols < g.cols {
		return 0, ErrDimensionMismatch
	}

	count := 0
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i][j] != other.cells[i][j] {
				count++
			}
		}
	}
	return count, nil
}

// MismatchRate divides the mismatch count by other's pixel count.
// The divisor is the comparand, not g.
func (g *Grid) MismatchRate(other *Grid) (float64, error) {
	count, err := g.MismatchCount(other)
	if err != nil {
		return 0, err
	}
	return float64(count) / float64(other.PixelCount()), nil
}

// ApproximatelyEqual reports whether the mismatch rate against other is within tolerance.
// A rate exactly equal to tolerance passes. Returns false when other is too small to scan.
func (g *Grid) ApproximatelyEqual(other *Grid, tolerance float64) bool {
	rate, err := g.MismatchRate(other)
	if err != nil {
		return false
	}
	return !(rate > tolerance)
}

// Diff lists the coordinates of every mismatching cell in row-major order
func (g *Grid) Diff(other *Grid) ([]Cell, error) {
	if other == nil || other.rows < g.rows || other.cols < g.cols {
		return nil, ErrDimensionMismatch
	}

	var cells []Cell
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			if g.cells[i][j] != other.cells[i][j] {
				cells = append(cells, Cell{Row: i, Col: j})
			}
		}
	}
	return cells, nil
}

// Render draws each row as text, two full blocks per set pixel and two spaces per unset one
func (g *Grid) Render() []string {
	lines := make([]string, g.rows)
	var b strings.Builder
	for i, row := range g.cells {
		b.Reset()
		b.Grow(len(row) * len(setPixel))
		for _, v := range row {
			if v == 1 {
				b.WriteString(setPixel)
			} else {
				b.WriteString(unsetPixel)
			}
		}
		lines[i] = b.String()
	}
	return lines
}

// WritePretty writes Render output to w, one newline-terminated line per row
func (g *Grid) WritePretty(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, line := range g.Render() {
		if _, err := bw.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Text returns the grid in its source format, one line of 0/1 characters per row
func (g *Grid) Text() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for _, row := range g.cells {
		for _, v := range row {
			b.WriteByte('0' + v)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *Grid) String() string {
	return fmt.Sprintf("This TxtData object has %d rows and %d columns.", g.rows, g.cols)
}
