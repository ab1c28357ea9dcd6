// Package blend implements the parametric edge-rounding and edge-beveling
// engine: given an edge shared by two faces of a solid, it computes a
// constant-radius fillet or a planar chamfer and fuses it into the solid
// through the boolean kernel.
//
// The pipeline is sampler -> solver (tangent circle or offset rail) ->
// orientation correction -> (self-intersection resolution for chamfer
// rails) -> tool-solid construction -> boolean combination with escalating
// repair. Per-sample failures are absorbed, per-stage failures degrade to
// fallbacks, and top-level results carry an Err string plus whatever
// diagnostic geometry was produced; callers branch on Final == nil rather
// than catching errors for ordinary degenerate-geometry cases.
package blend

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/solid"
)

// FacePair names the two faces bounding one edge segment.
type FacePair struct {
	A *solid.Face
	B *solid.Face
	// Blend, when non-nil, marks a transition segment: side-B normals
	// interpolate linearly from B's to Blend's across the segment
	// parameter. Used where a broken edge hands over between two side
	// faces.
	Blend *solid.Face
}

func (p FacePair) valid() bool {
	return p.A != nil && p.B != nil
}

// Edge is an ordered polyline marking the boundary between two faces of a
// solid. Closed loops do not repeat the first point. Either Faces applies
// to the whole edge, or Segments lists one face pair per polyline segment
// (len(Points) segments when closed, len(Points)-1 when open) for
// composite edges.
type Edge struct {
	Points   []v3.Vec
	Closed   bool
	Faces    FacePair
	Segments []FacePair
}

// pairAt resolves the face pair bounding segment i.
func (e *Edge) pairAt(i int) FacePair {
	if len(e.Segments) == 0 {
		return e.Faces
	}
	if i < 0 {
		i = 0
	}
	if i >= len(e.Segments) {
		i = len(e.Segments) - 1
	}
	return e.Segments[i]
}

// EdgeBetween builds an Edge from the shared boundary of two named faces of
// a model.
func EdgeBetween(model *solid.Solid, faceA, faceB string) (*Edge, error) {
	points, closed, err := model.SharedEdge(faceA, faceB)
	if err != nil {
		return nil, err
	}
	return &Edge{
		Points: points,
		Closed: closed,
		Faces:  FacePair{A: model.Face(faceA), B: model.Face(faceB)},
	}, nil
}
