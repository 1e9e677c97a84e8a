package viz

import (
	"math"
	"testing"

	"github.com/san-kum/orbitsim/internal/bounds"
	"github.com/san-kum/orbitsim/internal/dynamo"
)

func testBounds() bounds.Bounds {
	return bounds.Bounds{
		X: bounds.Interval{Min: 100, Max: 300},
		Y: bounds.Interval{Min: -50, Max: 50},
		Z: bounds.Interval{Min: -10, Max: 10},
	}
}

func TestCameraFit(t *testing.T) {
	cam := NewCamera()
	cam.Fit(testBounds())

	if cam.Center != (dynamo.Vec3{X: 200}) {
		t.Errorf("center = %v", cam.Center)
	}
	if cam.Radius != 100 {
		t.Errorf("radius = %g, want 100", cam.Radius)
	}

	cam.Fit(bounds.Bounds{})
	if cam.Radius != 1 {
		t.Errorf("degenerate bounds should give radius 1, got %g", cam.Radius)
	}
}

func TestCameraProjectCenter(t *testing.T) {
	cam := NewCamera()
	cam.Fit(testBounds())

	x, y, _, ok := cam.Project(dynamo.Vec3{X: 200}, 120, 80)
	if !ok || x != 60 || y != 40 {
		t.Errorf("center projected to (%d,%d,%v), want (60,40,true)", x, y, ok)
	}

	rx, _, _, _ := cam.Project(dynamo.Vec3{X: 300}, 120, 80)
	_, uy, _, _ := cam.Project(dynamo.Vec3{X: 200, Y: 50}, 120, 80)
	if rx <= 60 {
		t.Errorf("+x should project right of center, got %d", rx)
	}
	if uy >= 40 {
		t.Errorf("+y should project above center, got %d", uy)
	}
}

func TestCameraBehind(t *testing.T) {
	cam := NewCamera()
	if _, _, _, ok := cam.Project(dynamo.Vec3{Z: 5}, 100, 100); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestCameraRotation(t *testing.T) {
	cam := NewCamera()
	cam.RotateY(math.Pi / 2)

	x, _, depth, ok := cam.Project(dynamo.Vec3{X: 1}, 100, 100)
	if !ok {
		t.Fatal("expected visible point")
	}
	if x != 50 {
		t.Errorf("x axis rotated onto depth should project to center, got %d", x)
	}
	if math.Abs(depth+1) > 1e-9 {
		t.Errorf("depth = %g, want -1", depth)
	}

	cam.ResetView()
	if cam.RotY != 0 || cam.Zoom != 1 {
		t.Error("reset did not clear rotation and zoom")
	}
}

func TestBoxWireframe(t *testing.T) {
	w := BoxWireframe(testBounds())
	if len(w.Edges) != 12 {
		t.Fatalf("expected 12 edges, got %d", len(w.Edges))
	}
	for _, e := range w.Edges {
		d := 0
		for _, diff := range []float64{e.Start.X - e.End.X, e.Start.Y - e.End.Y, e.Start.Z - e.End.Z} {
			if diff != 0 {
				d++
			}
		}
		if d != 1 {
			t.Errorf("edge %v should run along one axis", e)
		}
	}
}

func TestSceneDraw(t *testing.T) {
	frames := dynamo.FrameSequence{
		{{X: -1}, {X: 1}},
		{{X: -1, Y: 0.5}, {X: 1, Y: -0.5}},
	}
	b := bounds.Compute(frames, true, false)
	s := NewScene(frames, b)
	s.Box = false
	c := NewCanvas(40, 20)

	s.Draw(c, 1)
	w, h := c.PixelSize()
	for _, p := range frames[1] {
		x, y, _, ok := s.Camera.Project(p, w, h)
		if !ok || !c.IsSet(x, y) {
			t.Errorf("body at %v not drawn", p)
		}
	}

	s.Draw(c, 5)
	if c.IsSet(w/2, h/2) {
		t.Error("out-of-range frame should leave the canvas blank")
	}
}
