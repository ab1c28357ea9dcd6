package blend

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
	"github.com/chazu/filigree/pkg/solid"
)

// Sample is one usable cross-section of an edge: the point, the edge
// tangent there, and the local outward normals and projections of the two
// bounding faces.
type Sample struct {
	Point   v3.Vec
	Tangent v3.Vec
	NormalA v3.Vec
	NormalB v3.Vec
	ProjA   v3.Vec
	ProjB   v3.Vec
	Pair    FacePair
}

// sampleEdge walks the edge and produces the cross-section samples the
// solvers consume. Midpoints are inserted between consecutive vertices so
// curvature between straight segments is captured. Samples with degenerate
// tangents or unresolvable normals are dropped, never fabricated.
func sampleEdge(e *Edge, tol tolerances) ([]Sample, error) {
	points := geom.Dedup(e.Points, tol.weld)
	if len(points) < 2 {
		return nil, ErrDegenerateCenterline
	}
	if geom.BoundsDiagonal(points) <= tol.weld {
		return nil, ErrDegenerateCenterline
	}

	type rawSample struct {
		point   v3.Vec
		segment int     // original segment index, for face-pair resolution
		t       float64 // parameter within the segment, for blended pairs
	}
	var raws []rawSample
	segCount := len(points) - 1
	if e.Closed {
		segCount = len(points)
	}
	for i := 0; i < len(points); i++ {
		seg := i
		if seg >= segCount {
			seg = segCount - 1
		}
		raws = append(raws, rawSample{point: points[i], segment: seg, t: 0})
		if i < segCount {
			j := (i + 1) % len(points)
			raws = append(raws, rawSample{
				point:   geom.Lerp(points[i], points[j], 0.5),
				segment: i,
				t:       0.5,
			})
		}
	}

	samples := make([]Sample, 0, len(raws))
	n := len(raws)
	for i, raw := range raws {
		var tangent v3.Vec
		switch {
		case e.Closed:
			tangent = raws[(i+1)%n].point.Sub(raws[(i-1+n)%n].point)
		case i == 0:
			tangent = raws[1].point.Sub(raws[0].point)
		case i == n-1:
			tangent = raws[n-1].point.Sub(raws[n-2].point)
		default:
			tangent = raws[i+1].point.Sub(raws[i-1].point)
		}
		if tangent.Length() <= tol.weld {
			continue
		}
		tangent = tangent.Normalize()

		pair := e.pairAt(raw.segment)
		if !pair.valid() {
			continue
		}
		s, ok := resolveSample(raw.point, tangent, pair, raw.t)
		if !ok {
			continue
		}
		samples = append(samples, s)
	}

	if len(samples) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientSamples, len(samples))
	}
	return samples, nil
}

// resolveSample projects a point onto both faces and estimates the local
// normals there. ok is false when either normal, or its cross product with
// the tangent, is degenerate.
func resolveSample(point, tangent v3.Vec, pair FacePair, t float64) (Sample, bool) {
	projA, _, okA := pair.A.Project(point)
	projB, _, okB := pair.B.Project(point)
	if !okA || !okB {
		return Sample{}, false
	}

	normalA := localNormal(pair.A, projA)
	normalB := localNormal(pair.B, projB)
	if pair.Blend != nil {
		// Transition segment: side B hands over from one side face to
		// another; interpolate their normals across the parameter.
		next := localNormal(pair.Blend, projB)
		blended := normalB.MulScalar(1 - t).Add(next.MulScalar(t))
		if blended.Length() > 1e-9 {
			normalB = blended.Normalize()
		}
	}

	if normalA.Length() < 0.5 || normalB.Length() < 0.5 {
		return Sample{}, false
	}
	if normalA.Cross(tangent).Length() < 1e-9 || normalB.Cross(tangent).Length() < 1e-9 {
		return Sample{}, false
	}

	return Sample{
		Point:   point,
		Tangent: tangent,
		NormalA: normalA,
		NormalB: normalB,
		ProjA:   projA,
		ProjB:   projB,
		Pair:    pair,
	}, true
}

// localNormal queries a face's local normal near p, falling back to the
// face average when local estimation is unavailable.
func localNormal(f *solid.Face, p v3.Vec) v3.Vec {
	if n, ok := f.LocalNormalAt(p); ok {
		return n
	}
	return f.AverageNormal()
}
