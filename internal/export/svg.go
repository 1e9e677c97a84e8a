// Package export renders recorded runs as standalone SVG images.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/viz"
)

var palette = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#88aaff", "#ff4477"}

// Plane selects the two axes drawn.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func ParsePlane(s string) (Plane, error) {
	switch strings.ToLower(s) {
	case "xy":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "yz":
		return PlaneYZ, nil
	}
	return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", s)
}

func (p Plane) pick(v dynamo.Vec3) (float64, float64) {
	switch p {
	case PlaneXZ:
		return v.X, v.Z
	case PlaneYZ:
		return v.Y, v.Z
	default:
		return v.X, v.Y
	}
}

func (p Plane) intervals(b bounds.Bounds) (bounds.Interval, bounds.Interval) {
	switch p {
	case PlaneXZ:
		return b.X, b.Z
	case PlaneYZ:
		return b.Y, b.Z
	default:
		return b.X, b.Y
	}
}

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)
}

// CanvasToSVG converts a braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	pw, ph := canvas.PixelSize()
	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	sb.WriteString(`<g fill="#00ff00">` + "\n")

	dotRadius := scale * 0.4
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if canvas.IsSet(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TracksToSVG draws every body's path on plane, scaled so b fills the image.
// The final position of each body is marked with a dot.
func TracksToSVG(frames dynamo.FrameSequence, b bounds.Bounds, plane Plane, width, height int) string {
	if len(frames) == 0 {
		return ""
	}

	h, v := plane.intervals(b)
	rangeH, rangeV := h.Width(), v.Width()
	if rangeH == 0 {
		rangeH = 1
	}
	if rangeV == 0 {
		rangeV = 1
	}
	toScreen := func(p dynamo.Vec3) (float64, float64) {
		a, c := plane.pick(p)
		x := (a - h.Min) / rangeH * float64(width)
		y := float64(height) - (c-v.Min)/rangeV*float64(height)
		return x, y
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	for body := 0; body < frames.Bodies(); body++ {
		color := palette[body%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, p := range frames.Track(body) {
			x, y := toScreen(p)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString(`"/>` + "\n")

		x, y := toScreen(frames[len(frames)-1][body])
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", x, y, color)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
