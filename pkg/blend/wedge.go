package blend

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/solid"
)

// Face labels on the fillet wedge solid.
const (
	FaceWedgeA = "WEDGE_A" // centerline to tangency curve A
	FaceWedgeB = "WEDGE_B" // centerline to tangency curve B
	FaceSideA  = "SIDE_A"  // edge to tangency curve A
	FaceSideB  = "SIDE_B"  // edge to tangency curve B
	FaceCap0   = "CAP0"
	FaceCap1   = "CAP1"
)

// sidePushEpsilon nudges the side walls off the original faces so the
// boolean stage doesn't see coincident coplanar triangles.
const sidePushEpsilon = 1e-4

// wedgeBuilder accumulates strip triangles with a degenerate-area filter.
type wedgeBuilder struct {
	out      *solid.Solid
	areaMin  float64
	valid    int
	rejected int
}

func newWedgeBuilder(areaMin float64) *wedgeBuilder {
	return &wedgeBuilder{out: solid.New(), areaMin: areaMin}
}

func (w *wedgeBuilder) add(label string, p0, p1, p2 v3.Vec) {
	if (solid.Triangle{p0, p1, p2}).Area() < w.areaMin {
		w.rejected++
		return
	}
	w.out.AddTriangle(label, p0, p1, p2)
	w.valid++
}

// strip joins two equal-length polylines with two triangles per quad.
func (w *wedgeBuilder) strip(label string, a, b []v3.Vec) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i+1 < n; i++ {
		w.add(label, a[i], a[i+1], b[i+1])
		w.add(label, a[i], b[i+1], b[i])
	}
}

// buildWedge assembles the fillet wedge: the solid bounded by the two
// tangency-to-center surfaces and the side walls back to the original edge.
// Its cross-section is the quadrilateral {edge, tangencyA, center,
// tangencyB}. Subtracting the tube from this wedge leaves exactly the
// material between the arc and the sharp corner.
func buildWedge(c *Centerline, radius float64) (*solid.Solid, error) {
	if len(c.Points) < 2 {
		return nil, ErrInsufficientSamples
	}

	w := newWedgeBuilder(degenerateArea(radius))
	w.strip(FaceWedgeA, c.Points, c.TangentA)
	w.strip(FaceWedgeB, c.TangentB, c.Points)
	w.strip(FaceSideA, c.TangentA, c.Edge)
	w.strip(FaceSideB, c.Edge, c.TangentB)

	if !c.Closed {
		w.endCap(FaceCap0, sectionAt(c, 0), true)
		w.endCap(FaceCap1, sectionAt(c, len(c.Points)-1), false)
	}

	if w.valid == 0 {
		return nil, fmt.Errorf("%w: %d triangles rejected below area %g",
			ErrWedgeTriangulation, w.rejected, w.areaMin)
	}

	w.out.PushFace(FaceSideA, sidePushEpsilon)
	w.out.PushFace(FaceSideB, sidePushEpsilon)
	w.out.FixTriangleWindingsByAdjacency()
	return w.out, nil
}

// section is one cross-section quadrilateral of the wedge or prism, in
// boundary order.
type section [4]v3.Vec

func sectionAt(c *Centerline, i int) section {
	return section{c.Edge[i], c.TangentA[i], c.Points[i], c.TangentB[i]}
}

// cap triangulates an end cross-section as a fan from its first corner.
// start flips the winding so both caps face outward after the adjacency
// pass seeds from a consistent interior.
func (w *wedgeBuilder) endCap(label string, s section, start bool) {
	for i := 1; i+1 < len(s); i++ {
		if start {
			w.add(label, s[0], s[i+1], s[i])
		} else {
			w.add(label, s[0], s[i], s[i+1])
		}
	}
}
