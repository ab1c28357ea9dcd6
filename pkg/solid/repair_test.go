package solid

import (
	"math"
	"testing"
)

// dropOneTriangle removes the first triangle of the named face.
func dropOneTriangle(s *Solid, label string) {
	fd := s.faces[label]
	fd.tris = fd.tris[1:]
	fd.index = nil
}

func TestRepairClosesHole(t *testing.T) {
	b := Box(2, 2, 2)
	dropOneTriangle(b, FaceTop)
	if got := b.TriangleCount(); got != 11 {
		t.Fatalf("setup: TriangleCount = %d, want 11", got)
	}

	fixed := b.Repair(1e-6)

	// The triangular hole closes with a 3-triangle centroid fan.
	if got := fixed.TriangleCount(); got != 14 {
		t.Errorf("TriangleCount = %d, want 14", got)
	}
	if vol := signedVolume(fixed); math.Abs(vol-8) > 1e-9 {
		t.Errorf("signed volume = %v, want 8", vol)
	}
	// Original untouched.
	if got := b.TriangleCount(); got != 11 {
		t.Errorf("original mutated: TriangleCount = %d", got)
	}
}

func TestRepairLeavesClosedMeshAlone(t *testing.T) {
	b := Box(3, 3, 3)
	fixed := b.Repair(1e-6)
	if got := fixed.TriangleCount(); got != 12 {
		t.Errorf("TriangleCount = %d, want 12", got)
	}
	if vol := signedVolume(fixed); math.Abs(vol-27) > 1e-9 {
		t.Errorf("signed volume = %v, want 27", vol)
	}
}

func TestFixTriangleWindings(t *testing.T) {
	b := Box(2, 2, 2)
	// Flip one triangle; adjacency propagation must restore it.
	fd := b.faces[FaceRight]
	fd.tris[0] = fd.tris[0].Flip()
	if vol := signedVolume(b); math.Abs(vol-8) < 1e-9 {
		t.Fatal("setup: flip had no effect")
	}

	b.FixTriangleWindingsByAdjacency()
	if vol := signedVolume(b); math.Abs(vol-8) > 1e-9 {
		t.Errorf("signed volume = %v, want 8", vol)
	}
}

func TestFixTriangleWindingsAllInverted(t *testing.T) {
	b := Box(2, 2, 2)
	for _, label := range b.FaceLabels() {
		fd := b.faces[label]
		for i := range fd.tris {
			fd.tris[i] = fd.tris[i].Flip()
		}
	}
	b.FixTriangleWindingsByAdjacency()
	if vol := signedVolume(b); math.Abs(vol-8) > 1e-9 {
		t.Errorf("signed volume = %v, want 8", vol)
	}
}

func TestClone(t *testing.T) {
	b := Box(1, 1, 1)
	b.SetFaceMetadata(FaceTop, 42)
	c := b.Clone()

	dropOneTriangle(c, FaceTop)
	if got := b.TriangleCount(); got != 12 {
		t.Errorf("clone shares triangle storage with original")
	}
	if got := c.FaceMetadata(FaceTop); got != 42 {
		t.Errorf("metadata = %v, want 42", got)
	}
}
