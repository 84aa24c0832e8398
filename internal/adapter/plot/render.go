// Package plot renders chart figures to PNG with gonum/plot. Pie figures are
// drawn as percentage bars and animated figures one frame at a time.
package plot

import (
	"errors"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/couchcryptid/modis-fire-dashboard/internal/chart"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var (
	// ErrUnsupportedKind is returned for figure kinds with no static rendition.
	ErrUnsupportedKind = errors.New("unsupported chart kind")
	// ErrUnknownFrame is returned when an animated figure has no such frame.
	ErrUnknownFrame = errors.New("unknown frame")
	// ErrEmpty is returned when a figure has nothing to plot.
	ErrEmpty = errors.New("no data to draw")
)

const (
	defaultHistogramBins = 20
	maxLabelTicks        = 8
)

// Renderer draws figures onto fixed-size PNG canvases.
type Renderer struct {
	width, height vg.Length
}

// NewRenderer creates a renderer producing 8x5 inch images.
func NewRenderer() *Renderer {
	return &Renderer{width: 8 * vg.Inch, height: 5 * vg.Inch}
}

// RenderPNG writes fig as a PNG image. For animated figures frame selects the
// frame by key; an empty frame means the first one.
func (r *Renderer) RenderPNG(w io.Writer, fig chart.Figure, frame string) error {
	p, err := Plot(fig, frame)
	if err != nil {
		return err
	}
	c := vgimg.New(r.width, r.height)
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Plot converts a figure into a gonum plot.
func Plot(fig chart.Figure, frame string) (*gonumplot.Plot, error) {
	series := fig.Series
	title := fig.Title
	if fig.Animated() {
		fr, ok := fig.Frame(frame)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, frame)
		}
		series = fr.Series
		title = fmt.Sprintf("%s (%s %s)", title, fig.FrameTitle, fr.Key)
	}

	p := gonumplot.New()
	p.Title.Text = title
	p.X.Label.Text = fig.XTitle
	p.Y.Label.Text = fig.YTitle

	var err error
	switch fig.Kind {
	case chart.KindBar:
		err = addBars(p, series, false)
	case chart.KindPie:
		p.Y.Label.Text = "share (%)"
		err = addBars(p, series, true)
	case chart.KindBox:
		err = addBoxes(p, series)
	case chart.KindHistogram:
		err = addHistograms(p, series, fig.Bins)
	case chart.KindPointMap, chart.KindScatterGeo, chart.KindScatter:
		err = addScatters(p, series)
	case chart.KindLine:
		err = addLines(p, series)
	case chart.KindHeatmap:
		err = addHeatmap(p, series)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, fig.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("plot %s: %w", fig.ID, err)
	}

	if fig.YRange != nil {
		p.Y.Min, p.Y.Max = fig.YRange[0], fig.YRange[1]
	}
	return p, nil
}

// categories returns the union of series labels in first-seen order.
func categories(series []chart.Series) ([]string, map[string]int) {
	var labels []string
	index := make(map[string]int)
	for _, s := range series {
		for _, l := range s.Labels {
			if _, ok := index[l]; ok {
				continue
			}
			index[l] = len(labels)
			labels = append(labels, l)
		}
	}
	return labels, index
}

func addBars(p *gonumplot.Plot, series []chart.Series, share bool) error {
	labels, index := categories(series)
	if len(labels) == 0 {
		return ErrEmpty
	}

	width := vg.Points(20)
	n := len(series)
	for i, s := range series {
		vals := make(plotter.Values, len(labels))
		var total float64
		for _, v := range s.Values {
			total += v
		}
		for j, l := range s.Labels {
			v := s.Values[j]
			if share && total > 0 {
				v = 100 * v / total
			}
			vals[index[l]] = v
		}

		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = width * vg.Length(float64(2*i-n+1)/2)
		p.Add(bars)
		if n > 1 {
			p.Legend.Add(s.Name, bars)
		}
	}
	p.NominalX(labels...)
	return nil
}

func addBoxes(p *gonumplot.Plot, series []chart.Series) error {
	var names []string
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), plotter.Values(s.Values))
		if err != nil {
			return err
		}
		box.FillColor = plotutil.Color(len(names))
		p.Add(box)
		names = append(names, s.Name)
	}
	if len(names) == 0 {
		return ErrEmpty
	}
	p.NominalX(names...)
	return nil
}

func addHistograms(p *gonumplot.Plot, series []chart.Series, bins int) error {
	if bins <= 0 {
		bins = defaultHistogramBins
	}
	drawn := 0
	for i, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(s.Values), bins)
		if err != nil {
			return err
		}
		h.FillColor = plotutil.Color(i)
		p.Add(h)
		drawn++
	}
	if drawn == 0 {
		return ErrEmpty
	}
	return nil
}

func xys(s chart.Series) plotter.XYs {
	pts := make(plotter.XYs, 0, len(s.Y))
	for i, y := range s.Y {
		x := float64(i)
		if len(s.X) > 0 {
			x = s.X[i]
		}
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		pts = append(pts, plotter.XY{X: x, Y: y})
	}
	return pts
}

func addScatters(p *gonumplot.Plot, series []chart.Series) error {
	drawn := 0
	for i, s := range series {
		pts := xys(s)
		if len(pts) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(2)
		p.Add(sc)
		if s.Name != "" && len(series) > 1 {
			p.Legend.Add(s.Name, sc)
		}
		drawn++
	}
	if drawn == 0 {
		return ErrEmpty
	}
	p.Add(plotter.NewGrid())
	return nil
}

func addLines(p *gonumplot.Plot, series []chart.Series) error {
	drawn := 0
	for i, s := range series {
		pts := xys(s)
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.LineStyle.Color = plotutil.Color(i)
		l.LineStyle.Width = vg.Points(1.5)
		p.Add(l)
		drawn++
		if len(s.X) == 0 && len(s.Labels) == len(s.Y) {
			p.X.Tick.Marker = labelTicks(s.Labels)
		}
	}
	if drawn == 0 {
		return ErrEmpty
	}
	return nil
}

// labelTicks marks an index axis with a sample of its category labels.
func labelTicks(labels []string) gonumplot.Ticker {
	return gonumplot.TickerFunc(func(lo, hi float64) []gonumplot.Tick {
		step := max(1, len(labels)/maxLabelTicks)
		var ticks []gonumplot.Tick
		for i := 0; i < len(labels); i += step {
			if v := float64(i); v >= lo && v <= hi {
				ticks = append(ticks, gonumplot.Tick{Value: v, Label: labels[i]})
			}
		}
		return ticks
	})
}

// grid adapts the sparse bin counts of a density series to a dense
// plotter.GridXYZ. Empty cells are NaN.
type grid struct {
	xs, ys []float64
	z      [][]float64
	lo, hi float64
}

func newGrid(s chart.Series) (*grid, error) {
	if len(s.Z) == 0 || len(s.X) != len(s.Z) || len(s.Y) != len(s.Z) {
		return nil, ErrEmpty
	}
	xs := slices.Compact(slices.Sorted(slices.Values(s.X)))
	ys := slices.Compact(slices.Sorted(slices.Values(s.Y)))

	g := &grid{xs: xs, ys: ys, z: make([][]float64, len(ys)), lo: math.Inf(1), hi: math.Inf(-1)}
	for r := range g.z {
		row := make([]float64, len(xs))
		for c := range row {
			row[c] = math.NaN()
		}
		g.z[r] = row
	}
	for i, v := range s.Z {
		c, _ := slices.BinarySearch(xs, s.X[i])
		r, _ := slices.BinarySearch(ys, s.Y[i])
		g.z[r][c] = v
		g.lo = min(g.lo, v)
		g.hi = max(g.hi, v)
	}
	if g.hi <= g.lo {
		g.hi = g.lo + 1
	}
	return g, nil
}

func (g *grid) Dims() (c, r int)   { return len(g.xs), len(g.ys) }
func (g *grid) Z(c, r int) float64 { return g.z[r][c] }
func (g *grid) X(c int) float64    { return g.xs[c] }
func (g *grid) Y(r int) float64    { return g.ys[r] }
func (g *grid) Min() float64       { return g.lo }
func (g *grid) Max() float64       { return g.hi }

func addHeatmap(p *gonumplot.Plot, series []chart.Series) error {
	if len(series) == 0 {
		return ErrEmpty
	}
	g, err := newGrid(series[0])
	if err != nil {
		return err
	}
	p.Add(plotter.NewHeatMap(g, palette.Heat(12, 1)))
	return nil
}
