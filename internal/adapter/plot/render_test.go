package plot

import (
	"bytes"
	"math"
	"testing"

	"github.com/couchcryptid/modis-fire-dashboard/internal/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func renderable() []chart.Figure {
	return []chart.Figure{
		{ID: "type_bar", Title: "Fire Type Counts", Kind: chart.KindBar, XTitle: "Type", YTitle: "Count",
			Series: []chart.Series{{Name: "Count", Labels: []string{"0", "2", "3"}, Values: []float64{30, 5, 1}}}},
		{ID: "confidence_pie", Title: "Confidence Level Distribution", Kind: chart.KindPie,
			Series: []chart.Series{{Name: "Confidence", Labels: []string{"h", "l", "n"}, Values: []float64{2, 1, 7}}}},
		{ID: "frp_by_type_box", Title: "FRP by Fire Type", Kind: chart.KindBox,
			Series: []chart.Series{{Name: "0", Values: []float64{1, 4, 9, 12}}, {Name: "2", Values: []float64{40}}}},
		{ID: "frp_histogram", Title: "FRP Distribution", Kind: chart.KindHistogram, Bins: 50,
			Series: []chart.Series{{Values: []float64{1, 2, 2, 3, 8, 55}}}},
		{ID: "location_map", Title: "Fire Locations", Kind: chart.KindPointMap,
			Series: []chart.Series{{Name: "detections", X: []float64{79.1, 80.2}, Y: []float64{21.5, 22.1}}}},
		{ID: "density_heatmap", Title: "Fire Density", Kind: chart.KindHeatmap,
			Series: []chart.Series{{X: []float64{10, 79, 79}, Y: []float64{-1, 21, 22}, Z: []float64{1, 2, 5}}}},
		{ID: "cumulative_line", Title: "Cumulative Fires Detected", Kind: chart.KindLine,
			Series: []chart.Series{{Labels: []string{"2021-01-03", "2022-03-11", "2023-05-20"}, Y: []float64{2, 3, 4}}}},
	}
}

func TestRenderPNG(t *testing.T) {
	r := NewRenderer()
	for _, fig := range renderable() {
		t.Run(fig.ID, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, r.RenderPNG(&buf, fig, ""))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
		})
	}
}

func TestRenderPNG_AnimatedFrame(t *testing.T) {
	fig := chart.Figure{
		ID:         "animated_location_bar",
		Title:      "Top States by Fire Count (Animated)",
		Kind:       chart.KindBar,
		FrameTitle: "year",
		YRange:     &[2]float64{0, 2.2},
		Frames: []chart.Frame{
			{Key: "2021", Series: []chart.Series{{Labels: []string{"Odisha"}, Values: []float64{2}}}},
			{Key: "2023", Series: []chart.Series{{Labels: []string{"Kerala"}, Values: []float64{1}}}},
		},
	}

	p, err := Plot(fig, "2023")
	require.NoError(t, err)
	assert.Equal(t, "Top States by Fire Count (Animated) (year 2023)", p.Title.Text)
	assert.Equal(t, 0.0, p.Y.Min)
	assert.Equal(t, 2.2, p.Y.Max)

	p, err = Plot(fig, "")
	require.NoError(t, err)
	assert.Contains(t, p.Title.Text, "2021")

	_, err = Plot(fig, "1999")
	assert.ErrorIs(t, err, ErrUnknownFrame)
}

func TestPlot_Errors(t *testing.T) {
	_, err := Plot(chart.Figure{ID: "odd", Kind: chart.Kind("sunburst")}, "")
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = Plot(chart.Figure{ID: "empty", Kind: chart.KindBar}, "")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Plot(chart.Figure{ID: "pie", Kind: chart.KindPie, Series: []chart.Series{{Name: "type"}}}, "")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestNewGrid(t *testing.T) {
	g, err := newGrid(chart.Series{X: []float64{79, 10, 79}, Y: []float64{21, -1, 22}, Z: []float64{2, 1, 5}})
	require.NoError(t, err)

	c, r := g.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 3, r)
	assert.Equal(t, 10.0, g.X(0))
	assert.Equal(t, -1.0, g.Y(0))
	assert.Equal(t, 1.0, g.Z(0, 0))
	assert.Equal(t, 5.0, g.Z(1, 2))
	assert.True(t, math.IsNaN(g.Z(0, 1)))
	assert.Equal(t, 1.0, g.Min())
	assert.Equal(t, 5.0, g.Max())

	single, err := newGrid(chart.Series{X: []float64{1}, Y: []float64{1}, Z: []float64{3}})
	require.NoError(t, err)
	assert.Greater(t, single.Max(), single.Min())
}
