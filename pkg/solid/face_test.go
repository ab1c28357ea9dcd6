package solid

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestFaceProject(t *testing.T) {
	b := Box(40, 20, 10)
	top := b.Face(FaceTop)

	q, tri, ok := top.Project(v3.Vec{X: 20, Y: 10, Z: 15})
	if !ok {
		t.Fatal("projection failed")
	}
	if tri < 0 {
		t.Errorf("tri = %d", tri)
	}
	want := v3.Vec{X: 20, Y: 10, Z: 10}
	if q.Sub(want).Length() > 1e-9 {
		t.Errorf("Project = %v, want %v", q, want)
	}

	// A point beyond the face extents clamps to the nearest boundary point.
	q, _, ok = top.Project(v3.Vec{X: 50, Y: 10, Z: 10})
	if !ok {
		t.Fatal("projection failed")
	}
	want = v3.Vec{X: 40, Y: 10, Z: 10}
	if q.Sub(want).Length() > 1e-9 {
		t.Errorf("clamped Project = %v, want %v", q, want)
	}
}

func TestFaceLocalNormal(t *testing.T) {
	b := Box(40, 20, 10)
	n, ok := b.Face(FaceTop).LocalNormalAt(v3.Vec{X: 5, Y: 5, Z: 10})
	if !ok {
		t.Fatal("no local normal")
	}
	if n.Sub(v3.Vec{Z: 1}).Length() > 1e-9 {
		t.Errorf("normal = %v, want +Z", n)
	}

	// On a cylinder barrel the local normal tracks the surface, not the
	// degenerate face average.
	c := Cylinder(30, 8, 64)
	n, ok = c.Face(FaceSide).LocalNormalAt(v3.Vec{X: 8, Y: 0, Z: 15})
	if !ok {
		t.Fatal("no local normal on barrel")
	}
	if n.Dot(v3.Vec{X: 1}) < 0.99 {
		t.Errorf("barrel normal = %v, want close to +X", n)
	}
}

func TestFaceExtents(t *testing.T) {
	b := Box(40, 20, 10)
	min, max := b.Face(FaceFront).Extents()
	if min.Sub(v3.Vec{}).Length() > 1e-9 {
		t.Errorf("min = %v", min)
	}
	if max.Sub(v3.Vec{X: 40, Z: 10}).Length() > 1e-9 {
		t.Errorf("max = %v", max)
	}
}

func TestFaceExitDistance(t *testing.T) {
	b := Box(40, 20, 10)
	top := b.Face(FaceTop)

	// From the middle of the top face, the +Y exit is half the depth.
	d := top.ExitDistance(v3.Vec{X: 20, Y: 10, Z: 10}, v3.Vec{Y: 1})
	if math.Abs(d-10) > 1e-9 {
		t.Errorf("exit +Y = %v, want 10", d)
	}
	d = top.ExitDistance(v3.Vec{X: 20, Y: 10, Z: 10}, v3.Vec{X: -1})
	if math.Abs(d-20) > 1e-9 {
		t.Errorf("exit -X = %v, want 20", d)
	}

	// A zero direction never exits.
	if d = top.ExitDistance(v3.Vec{X: 20, Y: 10, Z: 10}, v3.Vec{}); d != math.MaxFloat64 {
		t.Errorf("zero-direction exit = %v, want MaxFloat64", d)
	}
}

func TestFaceAverageNormalUnit(t *testing.T) {
	c := Cylinder(10, 4, 16)
	for _, label := range []string{FaceTop, FaceBottom} {
		n := c.Face(label).AverageNormal()
		if math.Abs(n.Length()-1) > 1e-9 {
			t.Errorf("face %q normal %v not unit length", label, n)
		}
	}
}
