package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

const cameraDistance = 3.0

// Camera maps world coordinates into a unit view volume centred on the
// fitted bounds and projects them with a simple perspective.
type Camera struct {
	Center           dynamo.Vec3
	Radius           float64
	RotX, RotY, RotZ float64
	Zoom             float64
	Near             float64
}

func NewCamera() *Camera {
	return &Camera{Radius: 1, Zoom: 1, Near: 0.1}
}

// Fit centres the camera on b and scales so its largest half-width maps to 1.
func (c *Camera) Fit(b bounds.Bounds) {
	c.Center = dynamo.Vec3{
		X: (b.X.Min + b.X.Max) / 2,
		Y: (b.Y.Min + b.Y.Max) / 2,
		Z: (b.Z.Min + b.Z.Max) / 2,
	}
	c.Radius = math.Max(b.X.Width(), math.Max(b.Y.Width(), b.Z.Width())) / 2
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		c.Radius = 1
	}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// ResetView clears rotation and zoom but keeps the fit.
func (c *Camera) ResetView() {
	c.RotX, c.RotY, c.RotZ, c.Zoom = 0, 0, 0, 1
}

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts a world position to sub-pixel coordinates on a sw x sh
// surface. It returns x, y, depth, and whether the point is on screen.
func (c *Camera) Project(p dynamo.Vec3, sw, sh int) (int, int, float64, bool) {
	q := c.rotate(r3.Scale(c.Zoom/c.Radius, r3.Sub(p, c.Center)))
	if q.Z >= cameraDistance-c.Near {
		return 0, 0, 0, false
	}
	scale := cameraDistance / (cameraDistance - q.Z)
	pScale := float64(min(sw, sh)) / 3.0
	sx := int(math.Round(q.X*scale*pScale)) + sw/2
	sy := int(math.Round(-q.Y*scale*pScale)) + sh/2
	return sx, sy, q.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End dynamo.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe                { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e dynamo.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p dynamo.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Clear()                   { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe back to front.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.DrawLine(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// BoxWireframe outlines the bounds as a rectangular box.
func BoxWireframe(b bounds.Bounds) *Wireframe {
	w := NewWireframe()
	xs := [2]float64{b.X.Min, b.X.Max}
	ys := [2]float64{b.Y.Min, b.Y.Max}
	zs := [2]float64{b.Z.Min, b.Z.Max}
	corner := func(i int) dynamo.Vec3 {
		return dynamo.Vec3{X: xs[i&1], Y: ys[i>>1&1], Z: zs[i>>2&1]}
	}
	for i := 0; i < 8; i++ {
		for _, bit := range []int{1, 2, 4} {
			if i&bit == 0 {
				w.AddEdge(corner(i), corner(i|bit))
			}
		}
	}
	return w
}
