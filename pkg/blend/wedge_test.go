package blend

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/solid"
)

// unitWedgeCenterline is a straight 3-section centerline whose wedge
// cross-section is the unit square {edge, tangencyA, center, tangencyB}.
func unitWedgeCenterline() *Centerline {
	c := &Centerline{}
	for i := 0; i < 3; i++ {
		x := float64(i)
		c.Edge = append(c.Edge, v3.Vec{X: x})
		c.TangentA = append(c.TangentA, v3.Vec{X: x, Y: -1})
		c.Points = append(c.Points, v3.Vec{X: x, Y: -1, Z: -1})
		c.TangentB = append(c.TangentB, v3.Vec{X: x, Z: -1})
	}
	return c
}

func solidVolume(s *solid.Solid) float64 {
	var vol float64
	for _, label := range s.FaceLabels() {
		for _, tri := range s.Face(label).Triangles() {
			vol += tri[0].Dot(tri[1].Cross(tri[2])) / 6
		}
	}
	return vol
}

func TestBuildWedge(t *testing.T) {
	w, err := buildWedge(unitWedgeCenterline(), 1)
	if err != nil {
		t.Fatalf("buildWedge: %v", err)
	}
	// 4 strips of 2 quads (2 triangles each) plus 2-triangle caps.
	if got := w.TriangleCount(); got != 20 {
		t.Errorf("TriangleCount = %d, want 20", got)
	}
	for _, label := range []string{FaceWedgeA, FaceWedgeB, FaceSideA, FaceSideB, FaceCap0, FaceCap1} {
		if w.Face(label) == nil {
			t.Errorf("missing face %q", label)
		}
	}
	// Unit square cross-section swept over length 2. The side-wall nudge
	// perturbs this by sidePushEpsilon only.
	if vol := math.Abs(solidVolume(w)); math.Abs(vol-2) > 0.01 {
		t.Errorf("volume = %v, want 2", vol)
	}
}

func TestBuildWedgeClosedSkipsCaps(t *testing.T) {
	c := &Centerline{Closed: true}
	const n = 8
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i%n) / n
		edge := v3.Vec{X: 4 * math.Cos(a), Y: 4 * math.Sin(a)}
		dir := v3.Vec{X: math.Cos(a), Y: math.Sin(a)}
		c.Edge = append(c.Edge, edge)
		c.TangentA = append(c.TangentA, edge.Add(v3.Vec{Z: -1}))
		c.Points = append(c.Points, edge.Sub(dir).Add(v3.Vec{Z: -1}))
		c.TangentB = append(c.TangentB, edge.Sub(dir))
	}
	w, err := buildWedge(c, 1)
	if err != nil {
		t.Fatalf("buildWedge: %v", err)
	}
	if w.Face(FaceCap0) != nil || w.Face(FaceCap1) != nil {
		t.Error("closed wedge has end caps")
	}
	// 4 strips, n quads each.
	if got := w.TriangleCount(); got != 4*n*2 {
		t.Errorf("TriangleCount = %d, want %d", got, 4*n*2)
	}
}

func TestBuildWedgeDegenerate(t *testing.T) {
	c := &Centerline{}
	// All four curves coincide: every triangle is degenerate.
	for i := 0; i < 3; i++ {
		p := v3.Vec{X: float64(i)}
		c.Edge = append(c.Edge, p)
		c.TangentA = append(c.TangentA, p)
		c.Points = append(c.Points, p)
		c.TangentB = append(c.TangentB, p)
	}
	if _, err := buildWedge(c, 1); !errors.Is(err, ErrWedgeTriangulation) {
		t.Errorf("err = %v, want ErrWedgeTriangulation", err)
	}
}

func TestBuildWedgeTooShort(t *testing.T) {
	c := &Centerline{Points: []v3.Vec{{}}}
	if _, err := buildWedge(c, 1); !errors.Is(err, ErrInsufficientSamples) {
		t.Errorf("err = %v, want ErrInsufficientSamples", err)
	}
}
