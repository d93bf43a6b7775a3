package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/qrx/internal/core/domain"
	"github.com/kamal-hamza/qrx/internal/core/ports"
)

// HeatmapRenderer draws the mismatch map of two grids as a standalone HTML page
type HeatmapRenderer struct {
	MatchColor    string
	MismatchColor string
}

// NewHeatmapRenderer creates a renderer with the default palette
func NewHeatmapRenderer() *HeatmapRenderer {
	return &HeatmapRenderer{
		MatchColor:    "#eef1f5",
		MismatchColor: "#d7263d",
	}
}

var _ ports.DiffRenderer = (*HeatmapRenderer)(nil)

// Render writes one cell per subject pixel, 1 where subject differs from reference
func (h *HeatmapRenderer) Render(w io.Writer, title string, subject, reference *domain.Grid) error {
	diff, err := subject.Diff(reference)
	if err != nil {
		return fmt.Errorf("cannot map %s against %s: %w", subject, reference, err)
	}

	rows, cols := subject.Rows(), subject.Cols()

	differs := make(map[domain.Cell]bool, len(diff))
	for _, c := range diff {
		differs[c] = true
	}

	xs := make([]string, cols)
	for j := range xs {
		xs[j] = strconv.Itoa(j)
	}

	// echarts puts y index 0 at the bottom, so row 0 is drawn at the top index
	ys := make([]string, rows)
	for i := range ys {
		ys[i] = strconv.Itoa(rows - 1 - i)
	}

	data := make([]opts.HeatMapData, 0, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := 0
			if differs[domain.Cell{Row: i, Col: j}] {
				v = 1
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, rows - 1 - i, v}})
		}
	}

	rate, err := subject.MismatchRate(reference)
	if err != nil {
		return err
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d of %d cells differ (rate %.4f)", len(diff), subject.PixelCount(), rate),
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: xs}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: ys}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(false),
			Min:        0,
			Max:        1,
			InRange: &opts.VisualMapInRange{
				Color: []string{h.MatchColor, h.MismatchColor},
			},
		}),
	)
	hm.SetXAxis(xs)
	hm.AddSeries("mismatch", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render heatmap: %w", err)
	}
	return nil
}
