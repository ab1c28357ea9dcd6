package blend

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
	"github.com/chazu/filigree/pkg/solid"
)

// Centerline is the solved fillet arc-center polyline with its companion
// tangency curves. All arrays have equal length and share index meaning
// "same cross-section"; closed loops repeat the first entry at the end so
// the polylines are watertight.
type Centerline struct {
	Points   []v3.Vec // arc centers
	TangentA []v3.Vec // tangency points on face A
	TangentB []v3.Vec // tangency points on face B
	Edge     []v3.Vec // original edge points per cross-section
	Closed   bool
	// RadiusClamp, when non-zero, is the largest radius that keeps every
	// tangency point within its face's extents. The caller may re-solve at
	// this reduced radius.
	RadiusClamp float64
}

// centerCapFactor caps the center distance at this multiple of the radius
// to stop runaway solutions on near-degenerate samples.
const centerCapFactor = 6.0

// refinement thresholds: re-estimate local normals at the tangency points
// when the first solve deviates from the expected distance by more than
// 10%, or the dihedral is acute.
const (
	refineDeviation  = 0.10
	refineAcuteAngle = 60.0 * math.Pi / 180.0
)

// solveCenterline runs the tangent-circle solve at every sample.
// Unsolvable samples are dropped; if all drop the result is
// ErrAngleUnsolvable.
func solveCenterline(samples []Sample, radius float64, closed bool, cfg Config, tol tolerances) (*Centerline, error) {
	out := &Centerline{Closed: closed}
	minAllowed := math.MaxFloat64
	for _, s := range samples {
		cs, ok := solveTangentCircle(s, radius, cfg.Side, tol)
		if !ok {
			continue
		}
		out.Points = append(out.Points, cs.center)
		out.TangentA = append(out.TangentA, cs.tangencyA)
		out.TangentB = append(out.TangentB, cs.tangencyB)
		out.Edge = append(out.Edge, s.Point)
		if cs.maxRadius > 0 && cs.maxRadius < minAllowed {
			minAllowed = cs.maxRadius
		}
	}
	if len(out.Points) == 0 {
		return nil, ErrAngleUnsolvable
	}
	if len(out.Points) < 2 {
		return nil, ErrInsufficientSamples
	}
	if minAllowed < radius {
		out.RadiusClamp = minAllowed
	}
	if closed {
		out.Points = append(out.Points, out.Points[0])
		out.TangentA = append(out.TangentA, out.TangentA[0])
		out.TangentB = append(out.TangentB, out.TangentB[0])
		out.Edge = append(out.Edge, out.Edge[0])
	}
	return out, nil
}

// circleSolution is the per-sample output of the tangent-circle solve.
type circleSolution struct {
	center    v3.Vec
	tangencyA v3.Vec
	tangencyB v3.Vec
	// maxRadius bounds the radius that keeps both tangency points within
	// their face extents at this sample (0 = unconstrained).
	maxRadius float64
}

// sectionAngle computes the interior dihedral angle at a sample by
// projecting both face normals into the section plane. ok is false when
// the faces are parallel or anti-parallel within the angle tolerance.
func sectionAngle(s Sample, tol tolerances) (angle float64, ok bool) {
	frame := geom.FrameFromTangent(s.Point, s.Tangent, s.NormalA)
	na := frame.To2D(s.Point.Add(s.NormalA))
	nb := frame.To2D(s.Point.Add(s.NormalB))
	la, lb := na.Length(), nb.Length()
	if la < 1e-9 || lb < 1e-9 {
		return 0, false
	}
	dot := (na.X*nb.X + na.Y*nb.Y) / (la * lb)
	dot = math.Max(-1, math.Min(1, dot))
	angle = math.Acos(dot)
	if math.Sin(angle/2) < tol.angle {
		return 0, false
	}
	return angle, true
}

// solveTangentCircle computes the arc center at exactly radius from both
// faces, tangent to each, with the per-sample fallback ladder described in
// the package comment: offset-plane candidates, bisector estimate, averaged
// normal direction.
func solveTangentCircle(s Sample, radius float64, side SideMode, tol tolerances) (circleSolution, bool) {
	angle, ok := sectionAngle(s, tol)
	if !ok {
		return circleSolution{}, false
	}
	expected := radius / math.Sin(angle/2)

	normalA, normalB := s.NormalA, s.NormalB
	center, usedFallback := chooseCenter(s, normalA, normalB, radius, expected, side, tol)

	// Refine for curved faces: the local normals at the sample point are
	// only first-order accurate; re-estimating them at the implied
	// tangency points corrects the center.
	dist := center.Sub(s.Point).Length()
	if !usedFallback && (math.Abs(dist-expected) > refineDeviation*expected || angle < refineAcuteAngle) {
		for pass := 0; pass < 2; pass++ {
			pa, _, okA := s.Pair.A.Project(center)
			pb, _, okB := s.Pair.B.Project(center)
			if !okA || !okB {
				break
			}
			na := localNormal(s.Pair.A, pa)
			nb := localNormal(s.Pair.B, pb)
			if na.Length() < 0.5 || nb.Length() < 0.5 {
				break
			}
			refined := s
			refined.NormalA, refined.NormalB = na, nb
			refined.ProjA, refined.ProjB = pa, pb
			next, fb := chooseCenter(refined, na, nb, radius, expected, side, tol)
			if fb {
				break
			}
			if next.Sub(center).Length() < tol.weld {
				center = next
				break
			}
			center = next
			normalA, normalB = na, nb
		}
	}

	// Hard cap against runaway solutions on near-degenerate sections.
	dist = center.Sub(s.Point).Length()
	capDist := math.Min(centerCapFactor*radius, 3*expected)
	if dist > capDist {
		center, _ = bisectorCenter(s, expected, side)
	}

	sign := signForSide(side)
	sol := circleSolution{
		center:    center,
		tangencyA: center.Add(normalA.MulScalar(sign * radius)),
		tangencyB: center.Add(normalB.MulScalar(sign * radius)),
	}
	sol.maxRadius = maxRadiusForSample(s, sol, angle)
	return sol, true
}

// signForSide maps the side mode to the offset-plane direction: inset
// centers sit below each face along its outward normal.
func signForSide(side SideMode) float64 {
	if side == SideOutset {
		return -1
	}
	return 1
}

// chooseCenter solves and scores the inset and outset offset-plane
// candidates, falling back to the bisector estimate when both fail.
// usedFallback reports that the bisector (or averaged-normal) estimate was
// taken.
func chooseCenter(s Sample, normalA, normalB v3.Vec, radius, expected float64, side SideMode, tol tolerances) (v3.Vec, bool) {
	section := geom.Plane{Point: s.Point, Normal: s.Tangent}
	solve := func(sign float64) (v3.Vec, bool) {
		planeA := geom.Plane{Point: s.ProjA.Sub(normalA.MulScalar(sign * radius)), Normal: normalA}
		planeB := geom.Plane{Point: s.ProjB.Sub(normalB.MulScalar(sign * radius)), Normal: normalB}
		return geom.IntersectPlanes(planeA, planeB, section)
	}

	bestScore := math.MaxFloat64
	var best v3.Vec
	haveBest := false
	for _, cand := range []struct {
		sign float64
		mode SideMode
	}{{+1, SideInset}, {-1, SideOutset}} {
		c, ok := solve(cand.sign)
		if !ok {
			continue
		}
		score := scoreCenter(s, c, radius, expected, cand.mode == side, tol)
		if score < bestScore {
			bestScore = score
			best = c
			haveBest = true
		}
	}
	if haveBest && bestScore < math.MaxFloat64/2 {
		return best, false
	}
	c, _ := bisectorCenter(s, expected, side)
	return c, true
}

// scoreCenter penalizes (a) the projection residual of the implied tangency
// points, (b) landing on the wrong side of the requested preference, and
// (c) deviation from the theoretical expected distance.
func scoreCenter(s Sample, center v3.Vec, radius, expected float64, preferredSide bool, tol tolerances) float64 {
	pa, _, okA := s.Pair.A.Project(center)
	pb, _, okB := s.Pair.B.Project(center)
	if !okA || !okB {
		return math.MaxFloat64
	}
	residualA := math.Abs(pa.Sub(center).Length() - radius)
	residualB := math.Abs(pb.Sub(center).Length() - radius)
	score := residualA + residualB
	if residualA > tol.proj+radius || residualB > tol.proj+radius {
		return math.MaxFloat64
	}
	if !preferredSide {
		score += expected
	}
	score += math.Abs(center.Sub(s.Point).Length()-expected) * 0.5
	return score
}

// bisectorCenter places the center along the interior angle bisector at the
// expected distance; when the bisector is degenerate it falls back to the
// averaged face-normal direction. ok is false only for the averaged-normal
// fallback.
func bisectorCenter(s Sample, expected float64, side SideMode) (v3.Vec, bool) {
	dir := s.NormalA.Add(s.NormalB)
	sign := -signForSide(side)
	if dir.Length() < 1e-9 {
		// Anti-parallel normals: no bisector. Average of the two face
		// normals is zero, use face A's normal alone as a last resort.
		return s.Point.Add(s.NormalA.MulScalar(sign * expected)), false
	}
	return s.Point.Add(dir.Normalize().MulScalar(sign * expected)), true
}

// maxRadiusForSample estimates the largest radius whose tangency points
// stay inside the face extents at this sample. The tangency point sits
// radius/tan(angle/2) along the face from the edge, so the allowed radius
// is the available run scaled by tan(angle/2).
func maxRadiusForSample(s Sample, sol circleSolution, angle float64) float64 {
	tanHalf := math.Tan(angle / 2)
	if tanHalf <= 0 {
		return 0
	}
	limit := math.MaxFloat64
	for _, side := range []struct {
		face *solid.Face
		proj v3.Vec
		tang v3.Vec
	}{
		{face: s.Pair.A, proj: s.ProjA, tang: sol.tangencyA},
		{face: s.Pair.B, proj: s.ProjB, tang: sol.tangencyB},
	} {
		dir := side.tang.Sub(side.proj)
		if dir.Length() < 1e-12 {
			continue
		}
		run := side.face.ExitDistance(side.proj, dir.Normalize())
		if run == math.MaxFloat64 {
			continue
		}
		if allowed := run * tanHalf; allowed < limit {
			limit = allowed
		}
	}
	if limit == math.MaxFloat64 {
		return 0
	}
	return limit
}
