package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Distances returns the separation of bodies a and b (0-based) in every frame.
func Distances(frames dynamo.FrameSequence, a, b int) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = r3.Norm(r3.Sub(f[a], f[b]))
	}
	return out
}

// Radii returns the distance of body a from the origin in every frame.
func Radii(frames dynamo.FrameSequence, a int) []float64 {
	track := frames.Track(a)
	out := make([]float64, len(track))
	for i, p := range track {
		out[i] = r3.Norm(p)
	}
	return out
}

// PlotSeries renders a line chart, resampled by asciigraph to width columns.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = []float64{data[0], data[0]}
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// DistancePlot charts the separation of bodies a and b (0-based).
func DistancePlot(frames dynamo.FrameSequence, a, b, width, height int) string {
	return PlotSeries(Distances(frames, a, b), fmt.Sprintf("distance body %d - body %d (m)", a+1, b+1), width, height)
}
