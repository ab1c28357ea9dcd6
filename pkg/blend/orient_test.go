package blend

import (
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// straightCenterline builds a consistent 5-section centerline along +X with
// unit center-to-tangency distances.
func straightCenterline() *Centerline {
	c := &Centerline{}
	for i := 0; i < 5; i++ {
		x := float64(i)
		c.Points = append(c.Points, v3.Vec{X: x})
		c.TangentA = append(c.TangentA, v3.Vec{X: x, Y: 1})
		c.TangentB = append(c.TangentB, v3.Vec{X: x, Z: 1})
		c.Edge = append(c.Edge, v3.Vec{X: x, Y: 1, Z: 1})
	}
	return c
}

func reverseOf(pts []v3.Vec) []v3.Vec {
	out := make([]v3.Vec, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func equalPolyline(a, b []v3.Vec) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Sub(b[i]).Length() > 1e-12 {
			return false
		}
	}
	return true
}

func TestOrientCenterlineIdempotent(t *testing.T) {
	c := straightCenterline()
	want := straightCenterline()
	orientCenterline(c, 1)
	if !equalPolyline(c.Points, want.Points) ||
		!equalPolyline(c.TangentA, want.TangentA) ||
		!equalPolyline(c.TangentB, want.TangentB) {
		t.Error("consistent centerline was modified")
	}
}

func TestOrientCenterlineFixesReversedTangency(t *testing.T) {
	c := straightCenterline()
	want := straightCenterline()
	c.TangentA = reverseOf(c.TangentA)

	orientCenterline(c, 1)
	if !equalPolyline(c.TangentA, want.TangentA) {
		t.Errorf("TangentA not restored: %v", c.TangentA)
	}
	if !equalPolyline(c.Points, want.Points) {
		t.Error("centerline reversed unnecessarily")
	}
}

func TestOrientCenterlineFixesReversedPrimary(t *testing.T) {
	c := straightCenterline()
	c.Points = reverseOf(c.Points)
	c.Edge = reverseOf(c.Edge)

	orientCenterline(c, 1)
	// Either the primary flips back or both companions flip to match; the
	// invariant is index correspondence, checked by tangency distance.
	for i := range c.Points {
		if d := c.TangentA[i].Sub(c.Points[i]).Length(); d > 1.0001 || d < 0.9999 {
			t.Fatalf("index %d tangencyA distance %v, want 1", i, d)
		}
		if d := c.TangentB[i].Sub(c.Points[i]).Length(); d > 1.0001 || d < 0.9999 {
			t.Fatalf("index %d tangencyB distance %v, want 1", i, d)
		}
	}
}

func TestOrientByDirection(t *testing.T) {
	primary := []v3.Vec{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	compA := reverseOf([]v3.Vec{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}})
	compB := []v3.Vec{{X: 0, Z: 1}, {X: 1, Z: 1}, {X: 2, Z: 1}, {X: 3, Z: 1}}

	orientByDirection(primary, compA, compB)
	if !equalPolyline(compA, []v3.Vec{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}) {
		t.Errorf("compA not aligned: %v", compA)
	}
	if primary[0].X != 0 {
		t.Error("primary flipped unnecessarily")
	}
}
