package chart

// Kind tells a renderer how to draw a figure.
type Kind string

const (
	KindBar        Kind = "bar"
	KindPie        Kind = "pie"
	KindBox        Kind = "box"
	KindHistogram  Kind = "histogram"
	KindPointMap   Kind = "point_map"
	KindHeatmap    Kind = "heatmap"
	KindScatterGeo Kind = "scatter_geo"
	KindScatter    Kind = "scatter"
	KindLine       Kind = "line"
)

// Group is the page section a figure is shown under.
type Group string

const (
	GroupDistribution Group = "Distribution Charts"
	GroupMaps         Group = "Maps and Heatmaps"
	GroupAnimated     Group = "Animated & Advanced Charts"
)

// GroupCaption returns the blurb shown under a group heading.
func GroupCaption(g Group) string {
	switch g {
	case GroupDistribution:
		return "Bar, pie, and box plots for fire types, confidence, year, and FRP."
	case GroupMaps:
		return "Geographical visualizations of fire locations and densities."
	case GroupAnimated:
		return "Animated bar, scatter, and line charts showing trends and patterns over time."
	default:
		return ""
	}
}

// Groups lists the page sections in display order.
func Groups() []Group {
	return []Group{GroupDistribution, GroupMaps, GroupAnimated}
}

// Series is one trace. Which fields are set depends on the figure kind:
// categorical kinds use Labels and Values, point kinds use X and Y, heatmaps
// add Z, and box and histogram kinds use Values alone.
type Series struct {
	Name   string    `json:"name,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	X      []float64 `json:"x,omitempty"`
	Y      []float64 `json:"y,omitempty"`
	Z      []float64 `json:"z,omitempty"`
	Values []float64 `json:"values,omitempty"`
}

// Frame is one step of an animated figure.
type Frame struct {
	Key    string   `json:"key"`
	Series []Series `json:"series"`
}

// Figure is a declarative chart specification for the front-end.
type Figure struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Caption    string      `json:"caption,omitempty"`
	Group      Group       `json:"group"`
	Kind       Kind        `json:"kind"`
	XTitle     string      `json:"x_title,omitempty"`
	YTitle     string      `json:"y_title,omitempty"`
	Series     []Series    `json:"series,omitempty"`
	Frames     []Frame     `json:"frames,omitempty"`
	FrameTitle string      `json:"frame_title,omitempty"`
	Bins       int         `json:"bins,omitempty"`
	YRange     *[2]float64 `json:"y_range,omitempty"`
	Projection string      `json:"projection,omitempty"`
	// Selector lists the choices of an on-demand control bound to the figure.
	Selector []string `json:"selector,omitempty"`
	Selected string   `json:"selected,omitempty"`
}

// Animated reports whether the figure carries frames.
func (f Figure) Animated() bool {
	return len(f.Frames) > 0
}

// Frame returns the frame with key, or the first frame when key is empty.
func (f Figure) Frame(key string) (Frame, bool) {
	if len(f.Frames) == 0 {
		return Frame{}, false
	}
	if key == "" {
		return f.Frames[0], true
	}
	for _, fr := range f.Frames {
		if fr.Key == key {
			return fr, true
		}
	}
	return Frame{}, false
}
