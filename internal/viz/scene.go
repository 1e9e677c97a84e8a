package viz

import (
	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Scene renders recorded frames onto a canvas.
type Scene struct {
	Frames dynamo.FrameSequence
	Bounds bounds.Bounds
	Camera *Camera
	Trail  int
	Box    bool

	box *Wireframe
}

func NewScene(frames dynamo.FrameSequence, b bounds.Bounds) *Scene {
	cam := NewCamera()
	cam.Fit(b)
	return &Scene{
		Frames: frames,
		Bounds: b,
		Camera: cam,
		Trail:  20,
		Box:    true,
		box:    BoxWireframe(b),
	}
}

// Draw clears c and renders frame i with up to Trail previous positions per
// body.
func (s *Scene) Draw(c *Canvas, i int) {
	c.Clear()
	if i < 0 || i >= len(s.Frames) {
		return
	}
	if s.Box {
		Render3D(c, s.box, s.Camera)
	}

	pw, ph := c.PixelSize()
	start := max(0, i-s.Trail)
	for body := range s.Frames[i] {
		px, py, _, pv := s.Camera.Project(s.Frames[start][body], pw, ph)
		for k := start + 1; k <= i; k++ {
			x, y, _, v := s.Camera.Project(s.Frames[k][body], pw, ph)
			if pv && v {
				c.DrawLine(px, py, x, y)
			}
			px, py, pv = x, y, v
		}
		if pv {
			c.Dot(px, py)
		}
	}
}
