package blend

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/solid"
)

// FaceBevel is the sloped face left on the model after a chamfer boolean.
const FaceBevel = "BEVEL"

// buildPrism assembles the chamfer tool: a triangular prism following the
// edge whose cross-section is {edge, railA, railB}. The two side walls sit
// on the original faces and the third wall becomes the bevel.
func buildPrism(r *Rails, distance float64) (*solid.Solid, error) {
	if len(r.Edge) < 2 {
		return nil, ErrInsufficientSamples
	}

	w := newWedgeBuilder(degenerateArea(distance))
	w.strip(FaceSideA, r.Edge, r.RailA)
	w.strip(FaceSideB, r.RailB, r.Edge)
	w.strip(FaceBevel, r.RailA, r.RailB)

	if !r.Closed {
		w.prismCap(FaceCap0, r.Edge[0], r.RailA[0], r.RailB[0], true)
		last := len(r.Edge) - 1
		w.prismCap(FaceCap1, r.Edge[last], r.RailA[last], r.RailB[last], false)
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

func (w *wedgeBuilder) prismCap(label string, edge, railA, railB v3.Vec, start bool) {
	if start {
		w.add(label, edge, railB, railA)
	} else {
		w.add(label, edge, railA, railB)
	}
}

// relabelPrefixed renames every face of a tool solid to <base>_<label> so
// several chamfer or fillet instances can coexist on one model without
// label collisions.
func relabelPrefixed(s *solid.Solid, base string) *solid.Solid {
	if base == "" {
		return s
	}
	out := solid.New()
	for _, label := range s.FaceLabels() {
		f := s.Face(label)
		if f == nil {
			continue
		}
		for _, t := range f.Triangles() {
			out.AddTriangle(base+"_"+label, t[0], t[1], t[2])
		}
	}
	out.SetEpsilon(s.Epsilon())
	return out
}
