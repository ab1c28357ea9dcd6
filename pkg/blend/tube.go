package blend

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/solid"
)

// Face labels on the tube solid.
const (
	FaceTubeOuter    = "OUTER"
	FaceTubeInner    = "INNER"
	FaceTubeCapStart = "CAP_START"
	FaceTubeCapEnd   = "CAP_END"
)

// cornerTrimAngle is the turn angle above which a path vertex gets trimmed
// before ring extrusion. Below it the rings tolerate the bend.
const cornerTrimAngle = 15.0 * math.Pi / 180.0

// buildTube sweeps a tube of outerR (with an optional coaxial innerR bore)
// along the path. The fast ring-extrusion path is tried first; if its
// self-union grows the triangle count (a sign the sweep self-intersected at
// a bend) the slow capsule-chain path takes over. ForceSlowTube in the
// config skips the fast path entirely.
func buildTube(k kernel.Kernel, path []v3.Vec, outerR, innerR float64, closed bool, cfg Config) (*solid.Solid, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: path has %d points", ErrTubeGeneration, len(path))
	}
	log := cfg.logger()

	if !cfg.ForceSlowTube {
		tube, err := fastTube(k, path, outerR, innerR, closed, cfg.resolution())
		if err == nil {
			return tube, nil
		}
		log.Debugw("fast tube path rejected, falling back to capsule chain", "reason", err)
	}

	tube, err := slowTube(k, path, outerR, closed, cfg.resolution())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTubeGeneration, err)
	}
	relabelTube(tube, path, outerR, innerR, closed)
	return tube, nil
}

// fastTube extrudes polygon rings along parallel-transported frames and
// self-unions the result to clean up bend overlaps.
func fastTube(k kernel.Kernel, path []v3.Vec, outerR, innerR float64, closed bool, segs int) (*solid.Solid, error) {
	pts := trimCorners(path, outerR, closed)
	if len(pts) < 2 {
		return nil, fmt.Errorf("tube: path degenerate after corner trim")
	}

	frames, ok := transportFrames(pts, closed)
	if !ok {
		return nil, fmt.Errorf("tube: no valid frames along path")
	}

	s := solid.New()
	outer := make([][]v3.Vec, len(frames))
	for i, f := range frames {
		outer[i] = ringPoints(f, outerR, segs)
	}
	loftRings(s, FaceTubeOuter, outer, closed, false)

	var inner [][]v3.Vec
	if innerR > 0 {
		inner = make([][]v3.Vec, len(frames))
		for i, f := range frames {
			inner[i] = ringPoints(f, innerR, segs)
		}
		loftRings(s, FaceTubeInner, inner, closed, true)
	}

	if !closed {
		last := len(frames) - 1
		capRing(s, FaceTubeCapStart, frames[0].Origin, outer[0], innerRingOrNil(inner, 0), true)
		capRing(s, FaceTubeCapEnd, frames[last].Origin, outer[last], innerRingOrNil(inner, last), false)
	}

	s.FixTriangleWindingsByAdjacency()

	before := s.TriangleCount()
	cleaned, err := s.Union(s, k)
	if err != nil {
		return nil, fmt.Errorf("tube: self-union: %w", err)
	}
	if cleaned.TriangleCount() > before {
		// Growth means the union split self-intersecting sweeps; the ring
		// topology can't be trusted at this bend.
		return nil, fmt.Errorf("tube: self-intersection detected (%d -> %d triangles)",
			before, cleaned.TriangleCount())
	}
	return cleaned, nil
}

func innerRingOrNil(inner [][]v3.Vec, i int) []v3.Vec {
	if inner == nil {
		return nil
	}
	return inner[i]
}

// trimCorners replaces each sharp interior vertex with two points pulled
// back along its segments by the tangent-half-angle distance, so adjacent
// rings do not interpenetrate at the bend.
func trimCorners(path []v3.Vec, radius float64, closed bool) []v3.Vec {
	if len(path) < 3 {
		return path
	}
	out := make([]v3.Vec, 0, len(path)*2)
	n := len(path)
	isInterior := func(i int) bool { return closed || (i > 0 && i < n-1) }
	for i := 0; i < n; i++ {
		if !isInterior(i) {
			out = append(out, path[i])
			continue
		}
		prev := path[(i-1+n)%n]
		next := path[(i+1)%n]
		in := path[i].Sub(prev)
		outd := next.Sub(path[i])
		if in.Length() < 1e-12 || outd.Length() < 1e-12 {
			continue
		}
		turn := math.Acos(clamp(in.Normalize().Dot(outd.Normalize()), -1, 1))
		if turn < cornerTrimAngle {
			out = append(out, path[i])
			continue
		}
		trim := radius * math.Tan(turn/2)
		// Never consume more than half of either segment.
		tIn := math.Min(trim, in.Length()/2)
		tOut := math.Min(trim, outd.Length()/2)
		out = append(out,
			path[i].Sub(in.Normalize().MulScalar(tIn)),
			path[i].Add(outd.Normalize().MulScalar(tOut)))
	}
	return geom.Dedup(out, 1e-12)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// transportFrames builds a rotation-minimizing frame per path point via
// parallel transport of the first frame.
func transportFrames(pts []v3.Vec, closed bool) ([]geom.Frame, bool) {
	tangents := pathTangents(pts, closed)
	if tangents == nil {
		return nil, false
	}
	frames := make([]geom.Frame, len(pts))
	hintU, _ := geom.Orthonormal(tangents[0])
	frames[0] = geom.FrameFromTangent(pts[0], tangents[0], hintU)
	for i := 1; i < len(pts); i++ {
		frames[i] = frames[i-1].Transport(pts[i], tangents[i])
	}
	return frames, true
}

// pathTangents returns a central-difference tangent per point, nil when the
// path has no usable direction anywhere.
func pathTangents(pts []v3.Vec, closed bool) []v3.Vec {
	n := len(pts)
	tangents := make([]v3.Vec, n)
	any := false
	for i := 0; i < n; i++ {
		var a, b v3.Vec
		switch {
		case closed:
			a, b = pts[(i-1+n)%n], pts[(i+1)%n]
		case i == 0:
			a, b = pts[0], pts[1]
		case i == n-1:
			a, b = pts[n-2], pts[n-1]
		default:
			a, b = pts[i-1], pts[i+1]
		}
		d := b.Sub(a)
		if d.Length() < 1e-12 {
			continue
		}
		tangents[i] = d.Normalize()
		any = true
	}
	if !any {
		return nil
	}
	// Fill gaps from the nearest solved neighbor.
	for i := 0; i < n; i++ {
		if tangents[i].Length() > 0.5 {
			continue
		}
		for j := 1; j < n; j++ {
			if k := (i + j) % n; tangents[k].Length() > 0.5 {
				tangents[i] = tangents[k]
				break
			}
		}
	}
	return tangents
}

func ringPoints(f geom.Frame, radius float64, segs int) []v3.Vec {
	ring := make([]v3.Vec, segs)
	for i := 0; i < segs; i++ {
		a := 2 * math.Pi * float64(i) / float64(segs)
		off := f.U.MulScalar(radius * math.Cos(a)).Add(f.V.MulScalar(radius * math.Sin(a)))
		ring[i] = f.Origin.Add(off)
	}
	return ring
}

// loftRings triangulates consecutive rings into quad strips. flip reverses
// winding for inner bores so normals face the cavity.
func loftRings(s *solid.Solid, label string, rings [][]v3.Vec, closed, flip bool) {
	last := len(rings) - 1
	for i := 0; i < last; i++ {
		loftPair(s, label, rings[i], rings[i+1], flip)
	}
	if closed {
		loftPair(s, label, rings[last], rings[0], flip)
	}
}

func loftPair(s *solid.Solid, label string, r0, r1 []v3.Vec, flip bool) {
	n := len(r0)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a, b, c, d := r0[i], r0[j], r1[j], r1[i]
		if flip {
			s.AddTriangle(label, a, d, c)
			s.AddTriangle(label, a, c, b)
		} else {
			s.AddTriangle(label, a, b, c)
			s.AddTriangle(label, a, c, d)
		}
	}
}

// capRing closes an open tube end: a fan disk when there is no bore, an
// annulus strip between outer and inner rings when there is.
func capRing(s *solid.Solid, label string, center v3.Vec, outer, inner []v3.Vec, start bool) {
	n := len(outer)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		if inner == nil {
			if start {
				s.AddTriangle(label, center, outer[j], outer[i])
			} else {
				s.AddTriangle(label, center, outer[i], outer[j])
			}
			continue
		}
		if start {
			s.AddTriangle(label, outer[i], inner[i], inner[j])
			s.AddTriangle(label, outer[i], inner[j], outer[j])
		} else {
			s.AddTriangle(label, outer[i], outer[j], inner[j])
			s.AddTriangle(label, outer[i], inner[j], inner[i])
		}
	}
}

// slowTube unions one capsule per path segment. A capsule is the convex
// hull of two equal spheres, which lofts exactly as hemisphere, cylinder,
// hemisphere; terminal segments of open paths get a flat disk at the end
// plane instead of a round hemisphere.
func slowTube(k kernel.Kernel, path []v3.Vec, radius float64, closed bool, segs int) (*solid.Solid, error) {
	pts := geom.Dedup(path, 1e-12)
	if len(pts) < 2 {
		return nil, fmt.Errorf("tube: fewer than 2 distinct path points")
	}

	segCount := len(pts) - 1
	if closed {
		segCount = len(pts)
	}
	var acc *solid.Solid
	for i := 0; i < segCount; i++ {
		p0 := pts[i]
		p1 := pts[(i+1)%len(pts)]
		flatStart := !closed && i == 0
		flatEnd := !closed && i == segCount-1
		c := capsule(p0, p1, radius, segs, flatStart, flatEnd)
		if c == nil {
			continue
		}
		if acc == nil {
			acc = c
			continue
		}
		next, err := acc.Union(c, k)
		if err != nil {
			return nil, fmt.Errorf("tube: capsule union at segment %d: %w", i, err)
		}
		acc = next
	}
	if acc == nil {
		return nil, fmt.Errorf("tube: all segments degenerate")
	}
	return acc, nil
}

// capsule lofts latitude rings from p0 to p1. Round ends extend half a
// sphere beyond the segment endpoint; flat ends stop at the endpoint with
// a disk, mirroring a sphere trimmed by the end-tangent plane.
func capsule(p0, p1 v3.Vec, radius float64, segs int, flatStart, flatEnd bool) *solid.Solid {
	axis := p1.Sub(p0)
	if axis.Length() < 1e-12 {
		return nil
	}
	tangent := axis.Normalize()
	hintU, _ := geom.Orthonormal(tangent)
	base := geom.FrameFromTangent(p0, tangent, hintU)

	latSteps := segs / 2
	if latSteps < 3 {
		latSteps = 3
	}

	var rings [][]v3.Vec
	addRing := func(center v3.Vec, r float64) {
		f := base
		f.Origin = center
		rings = append(rings, ringPoints(f, r, segs))
	}

	if !flatStart {
		// Hemisphere from the back pole up to the segment start plane.
		for i := 1; i < latSteps; i++ {
			lat := math.Pi / 2 * float64(i) / float64(latSteps)
			addRing(p0.Sub(tangent.MulScalar(radius*math.Cos(lat))), radius*math.Sin(lat))
		}
	}
	addRing(p0, radius)
	addRing(p1, radius)
	if !flatEnd {
		for i := latSteps - 1; i >= 1; i-- {
			lat := math.Pi / 2 * float64(i) / float64(latSteps)
			addRing(p1.Add(tangent.MulScalar(radius*math.Cos(lat))), radius*math.Sin(lat))
		}
	}

	s := solid.New()
	loftRings(s, FaceTubeOuter, rings, false, false)

	// Close the ends: pole fans for round ends, full disks for flat ones.
	startCenter := p0.Sub(tangent.MulScalar(radius))
	if flatStart {
		startCenter = p0
	}
	endCenter := p1.Add(tangent.MulScalar(radius))
	if flatEnd {
		endCenter = p1
	}
	capRing(s, FaceTubeOuter, startCenter, rings[0], nil, true)
	capRing(s, FaceTubeOuter, endCenter, rings[len(rings)-1], nil, false)

	s.FixTriangleWindingsByAdjacency()
	return s
}

// relabelTube classifies the slow tube's triangles into the fast path's
// face vocabulary: centroids on an end plane are caps, the rest split
// inner/outer by distance to the centerline when a bore radius is given.
func relabelTube(s *solid.Solid, path []v3.Vec, outerR, innerR float64, closed bool) {
	startPlane := geom.Plane{Point: path[0]}
	endPlane := geom.Plane{Point: path[len(path)-1]}
	if !closed {
		if d := path[1].Sub(path[0]); d.Length() > 1e-12 {
			startPlane.Normal = d.Normalize().Neg()
		}
		if d := path[len(path)-1].Sub(path[len(path)-2]); d.Length() > 1e-12 {
			endPlane.Normal = d.Normalize()
		}
	}
	planeTol := outerR * 1e-3
	split := (outerR + innerR) / 2

	relabeled := solid.New()
	for _, label := range s.FaceLabels() {
		f := s.Face(label)
		if f == nil {
			continue
		}
		for _, t := range f.Triangles() {
			c := t.Centroid()
			var name string
			switch {
			case startPlane.Normal.Length() > 0.5 && math.Abs(startPlane.Distance(c)) < planeTol:
				name = FaceTubeCapStart
			case endPlane.Normal.Length() > 0.5 && math.Abs(endPlane.Distance(c)) < planeTol:
				name = FaceTubeCapEnd
			case innerR > 0 && distanceToPolyline(c, path) < split:
				name = FaceTubeInner
			default:
				name = FaceTubeOuter
			}
			relabeled.AddTriangle(name, t[0], t[1], t[2])
		}
	}
	relabeled.SetEpsilon(s.Epsilon())
	*s = *relabeled
}

func distanceToPolyline(p v3.Vec, pts []v3.Vec) float64 {
	best := math.MaxFloat64
	for i := 0; i+1 < len(pts); i++ {
		d := pointSegmentDistance(p, pts[i], pts[i+1])
		if d < best {
			best = d
		}
	}
	return best
}

func pointSegmentDistance(p, a, b v3.Vec) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-24 {
		return p.Sub(a).Length()
	}
	t := clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	return p.Sub(a.Add(ab.MulScalar(t))).Length()
}
