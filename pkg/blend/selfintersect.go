package blend

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
)

// maxCollapseIterations bounds the self-intersection scan regardless of
// input size.
const maxCollapseIterations = 4096

// resolveSelfIntersections removes planar self-crossings from an open rail
// group. A sharply bending edge can fold a rail back across itself, which
// would invert the tool geometry; each detected crossing collapses the
// folded index range into a single averaged point across every rail in the
// group, preserving cross-section correspondence. Returns the number of
// collapses performed.
func resolveSelfIntersections(rails [][]v3.Vec) int {
	if len(rails) == 0 {
		return 0
	}
	n := len(rails[0])
	budget := n * n * len(rails)
	if budget > maxCollapseIterations {
		budget = maxCollapseIterations
	}

	collapses := 0
	for iter := 0; iter < budget; iter++ {
		i, j, s, t, found := findCrossing(rails)
		if !found {
			return collapses
		}
		collapseRange(rails, i, j, s, t)
		collapses++
	}
	return collapses
}

// resolveRailCrossings runs resolveSelfIntersections over a Rails group and
// writes the collapsed polylines back into the struct. Returns the number of
// collapses performed.
func resolveRailCrossings(r *Rails) int {
	group := [][]v3.Vec{r.Edge, r.RailA, r.RailB}
	collapses := resolveSelfIntersections(group)
	r.Edge, r.RailA, r.RailB = group[0], group[1], group[2]
	return collapses
}

// findCrossing scans each rail for a pair of non-adjacent segments that
// intersect in the rail's own best-fit plane.
func findCrossing(rails [][]v3.Vec) (i, j int, s, t float64, found bool) {
	for _, rail := range rails {
		if len(rail) < 4 {
			continue
		}
		plane, ok := geom.BestFitPlane(rail)
		if !ok {
			// Nearly collinear rail; any perpendicular plane will do for
			// crossing detection.
			dir, dirOK := geom.NetDirection(rail)
			if !dirOK {
				continue
			}
			u, _ := geom.Orthonormal(dir)
			plane = geom.Plane{Point: rail[0], Normal: u}
		}
		frame := geom.FrameFromTangent(plane.Point, plane.Normal, rail[0].Sub(plane.Point))

		for a := 0; a+1 < len(rail); a++ {
			// Skip the adjacent segment: consecutive segments always share
			// an endpoint.
			for b := a + 2; b+1 < len(rail); b++ {
				s2, t2, hit := geom.SegmentIntersect2(
					frame.To2D(rail[a]), frame.To2D(rail[a+1]),
					frame.To2D(rail[b]), frame.To2D(rail[b+1]),
				)
				if hit {
					return a, b, s2, t2, true
				}
			}
		}
	}
	return 0, 0, 0, 0, false
}

// collapseRange replaces indices i+1..j of every rail with one point:
// the average of the two segment-parameter interpolants. All rails collapse
// at identical indices so the cross-section correspondence survives.
func collapseRange(rails [][]v3.Vec, i, j int, s, t float64) {
	for r, rail := range rails {
		pi := geom.Lerp(rail[i], rail[i+1], s)
		pj := geom.Lerp(rail[j], rail[j+1], t)
		merged := pi.Add(pj).DivScalar(2)
		next := make([]v3.Vec, 0, len(rail)-(j-i)+1)
		next = append(next, rail[:i+1]...)
		next = append(next, merged)
		next = append(next, rail[j+1:]...)
		rails[r] = next
	}
}
