package blend

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Rails is the solved chamfer rail group. All arrays have equal length and
// share index meaning "same cross-section"; closed loops repeat the first
// entry at the end.
type Rails struct {
	Edge   []v3.Vec // edge points (optionally inflated)
	RailA  []v3.Vec // offset rail along face A
	RailB  []v3.Vec // offset rail along face B
	Closed bool
}

// solveRails offsets each sample a fixed distance from the edge along both
// faces. Unlike the fillet solver, the offset sign is chosen once per face
// at a representative mid-edge sample and applied at every sample, because
// chamfer rails must stay planar-offset rather than tangent-circle
// constrained.
func solveRails(samples []Sample, distance float64, closed bool, cfg Config) (*Rails, error) {
	if len(samples) < 2 {
		return nil, ErrInsufficientSamples
	}

	signA, signB, ok := railSigns(samples, cfg.Side)
	if !ok {
		return nil, ErrAngleUnsolvable
	}

	out := &Rails{Closed: closed}
	for _, s := range samples {
		dirA := s.NormalA.Cross(s.Tangent)
		dirB := s.NormalB.Cross(s.Tangent)
		if dirA.Length() < 1e-12 || dirB.Length() < 1e-12 {
			continue
		}
		out.Edge = append(out.Edge, s.Point)
		out.RailA = append(out.RailA, s.Point.Add(dirA.Normalize().MulScalar(signA*distance)))
		out.RailB = append(out.RailB, s.Point.Add(dirB.Normalize().MulScalar(signB*distance)))
	}
	if len(out.Edge) < 2 {
		return nil, ErrInsufficientSamples
	}

	if cfg.Inflate != 0 {
		inflateRails(out, samples, cfg.Inflate, cfg.Side)
	}

	if closed {
		out.Edge = append(out.Edge, out.Edge[0])
		out.RailA = append(out.RailA, out.RailA[0])
		out.RailB = append(out.RailB, out.RailB[0])
	}
	return out, nil
}

// railSigns picks one global sign per face at a representative mid-edge
// sample: the offset direction's projection onto the averaged face-normal
// pair must match the requested side. Inset rails slide along each face
// away from the opposite face's outward normal; outset rails toward it.
func railSigns(samples []Sample, side SideMode) (signA, signB float64, ok bool) {
	s := samples[len(samples)/2]
	dirA := s.NormalA.Cross(s.Tangent)
	dirB := s.NormalB.Cross(s.Tangent)
	if dirA.Length() < 1e-12 || dirB.Length() < 1e-12 {
		return 0, 0, false
	}
	dirA = dirA.Normalize()
	dirB = dirB.Normalize()

	// Rail A stays on face A, so its offset moves within face A's plane;
	// whether it cuts into the material is read off its alignment with
	// face B's outward normal (and symmetrically for rail B).
	signA, signB = 1, 1
	if dirA.Dot(s.NormalB) > 0 {
		signA = -1
	}
	if dirB.Dot(s.NormalA) > 0 {
		signB = -1
	}
	if side == SideOutset {
		signA, signB = -signA, -signB
	}
	return signA, signB, true
}

// inflateRails oversizes the tool: the edge point moves along the bisector
// of the two face normals, and each rail point moves within its bevel-normal
// plane, so the prism swallows the coincident geometry it will be combined
// with.
func inflateRails(r *Rails, samples []Sample, amount float64, side SideMode) {
	sign := 1.0
	if side == SideOutset {
		sign = -1
	}
	for i := range r.Edge {
		s := nearestSample(samples, r.Edge[i])
		bisector := s.NormalA.Add(s.NormalB)
		if bisector.Length() > 1e-12 {
			r.Edge[i] = r.Edge[i].Add(bisector.Normalize().MulScalar(sign * amount))
		}
		if na := s.NormalA; na.Length() > 0.5 {
			r.RailA[i] = r.RailA[i].Add(na.MulScalar(sign * amount))
		}
		if nb := s.NormalB; nb.Length() > 0.5 {
			r.RailB[i] = r.RailB[i].Add(nb.MulScalar(sign * amount))
		}
	}
}

// nearestSample finds the sample whose point is closest to p. Rails and
// samples usually correspond 1:1 but degenerate samples may have dropped.
func nearestSample(samples []Sample, p v3.Vec) Sample {
	best := samples[0]
	bestD := math.MaxFloat64
	for _, s := range samples {
		if d := s.Point.Sub(p).Length2(); d < bestD {
			bestD = d
			best = s
		}
	}
	return best
}
