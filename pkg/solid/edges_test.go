package solid

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestSharedEdgeBoxOpen(t *testing.T) {
	b := Box(40, 20, 10)
	points, closed, err := b.SharedEdge(FaceTop, FaceFront)
	if err != nil {
		t.Fatalf("SharedEdge: %v", err)
	}
	if closed {
		t.Error("box edge reported closed")
	}
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	for _, p := range points {
		if math.Abs(p.Y) > 1e-9 || math.Abs(p.Z-10) > 1e-9 {
			t.Errorf("point %v not on y=0,z=10 edge", p)
		}
	}
	span := math.Abs(points[0].X - points[1].X)
	if math.Abs(span-40) > 1e-9 {
		t.Errorf("edge span = %v, want 40", span)
	}
}

func TestSharedEdgeCylinderLoop(t *testing.T) {
	c := Cylinder(30, 8, 24)
	points, closed, err := c.SharedEdge(FaceSide, FaceTop)
	if err != nil {
		t.Fatalf("SharedEdge: %v", err)
	}
	if !closed {
		t.Error("cylinder rim reported open")
	}
	if len(points) != 24 {
		t.Fatalf("got %d points, want 24", len(points))
	}
	for _, p := range points {
		if math.Abs(p.Z-30) > 1e-9 {
			t.Errorf("rim point %v not at z=30", p)
		}
		r := math.Hypot(p.X, p.Y)
		if math.Abs(r-8) > 1e-9 {
			t.Errorf("rim point %v at radius %v, want 8", p, r)
		}
	}
	// Consecutive points are adjacent ring samples, never the same vertex.
	for i := 1; i < len(points); i++ {
		if points[i].Sub(points[i-1]).Length() < 1e-9 {
			t.Errorf("duplicate consecutive rim points at %d", i)
		}
	}
}

func TestSharedEdgeMissingFace(t *testing.T) {
	b := Box(1, 1, 1)
	if _, _, err := b.SharedEdge(FaceTop, "lid"); err == nil {
		t.Error("expected error for unknown face")
	}
}

func TestSharedEdgeDisjointFaces(t *testing.T) {
	b := Box(1, 1, 1)
	// Opposite faces of a box touch nowhere.
	if _, _, err := b.SharedEdge(FaceTop, FaceBottom); err == nil {
		t.Error("expected error for faces with no shared edge")
	}
}

func TestSharedEdgePicksLongestChain(t *testing.T) {
	// Two separate box pairs under the same two labels: the chains are
	// disjoint, and the longer one (the wider box) must win.
	s := New()
	addEdgePair := func(x0, x1 float64) {
		p := func(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }
		// One "A" triangle and one "B" triangle sharing the segment
		// (x0,0,1)-(x1,0,1), subdivided so chain length reflects width.
		n := int(x1 - x0)
		for i := 0; i < n; i++ {
			a := x0 + float64(i)
			b := a + 1
			s.AddTriangle("A", p(a, 0, 1), p(b, 0, 1), p(a, 1, 1))
			s.AddTriangle("B", p(a, 0, 1), p(a, 0, 0), p(b, 0, 1))
		}
	}
	addEdgePair(0, 2)
	addEdgePair(10, 15)

	points, closed, err := s.SharedEdge("A", "B")
	if err != nil {
		t.Fatalf("SharedEdge: %v", err)
	}
	if closed {
		t.Error("open chain reported closed")
	}
	if len(points) != 6 {
		t.Fatalf("got %d points, want 6 (the longer chain)", len(points))
	}
	for _, p := range points {
		if p.X < 10-1e-9 || p.X > 15+1e-9 {
			t.Errorf("point %v outside the longer chain", p)
		}
	}
}
