package blend

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestTrimCorners(t *testing.T) {
	right := []v3.Vec{{}, {X: 10}, {X: 10, Y: 10}}
	out := trimCorners(right, 1, false)
	if len(out) != 4 {
		t.Fatalf("got %d points, want 4", len(out))
	}
	// tan(90/2) = 1: the corner splits into pullbacks of 1 on each segment.
	if out[1].Sub(v3.Vec{X: 9}).Length() > 1e-9 {
		t.Errorf("pullback before corner = %v, want (9,0,0)", out[1])
	}
	if out[2].Sub(v3.Vec{X: 10, Y: 1}).Length() > 1e-9 {
		t.Errorf("pullback after corner = %v, want (10,1,0)", out[2])
	}

	straight := []v3.Vec{{}, {X: 5}, {X: 10}}
	if got := trimCorners(straight, 1, false); len(got) != 3 {
		t.Errorf("straight path trimmed to %d points", len(got))
	}

	// A gentle 10-degree bend stays under the trim threshold.
	gentle := []v3.Vec{{}, {X: 10}, {X: 10 + 10*math.Cos(10*math.Pi/180), Y: 10 * math.Sin(10*math.Pi/180)}}
	if got := trimCorners(gentle, 1, false); len(got) != 3 {
		t.Errorf("gentle bend trimmed to %d points", len(got))
	}
}

func TestTrimCornersClampsToHalfSegment(t *testing.T) {
	// A near-reversal would ask for a huge pullback; it must stop at half
	// the segment length.
	sharp := []v3.Vec{{}, {X: 4}, {X: 0.1, Y: 0.2}}
	out := trimCorners(sharp, 2, false)
	for i := 1; i+1 < len(out); i++ {
		if out[i].Sub(v3.Vec{X: 4}).Length() > 3.9 {
			t.Errorf("pullback point %v consumed more than half a segment", out[i])
		}
	}
}

func TestTransportFrames(t *testing.T) {
	pts := []v3.Vec{{}, {X: 1}, {X: 2}, {X: 2.5, Y: 0.5}}
	frames, ok := transportFrames(pts, false)
	if !ok {
		t.Fatal("no frames")
	}
	if len(frames) != len(pts) {
		t.Fatalf("got %d frames, want %d", len(frames), len(pts))
	}
	for i, f := range frames {
		if math.Abs(f.U.Length()-1) > 1e-9 || math.Abs(f.V.Length()-1) > 1e-9 {
			t.Errorf("frame %d axes not unit length", i)
		}
		if math.Abs(f.U.Dot(f.V)) > 1e-9 {
			t.Errorf("frame %d axes not orthogonal", i)
		}
	}
	// Minimal-rotation transport: consecutive U axes diverge by at most the
	// turn between the path tangents, never by an extra ring twist.
	tangents := pathTangents(pts, false)
	for i := 1; i < len(frames); i++ {
		turn := tangents[i].Dot(tangents[i-1])
		if frames[i].U.Dot(frames[i-1].U) < turn-1e-9 {
			t.Errorf("frame %d twisted beyond the path turn against frame %d", i, i-1)
		}
	}
}

func TestCapsuleCounts(t *testing.T) {
	const segs = 8
	round := capsule(v3.Vec{}, v3.Vec{X: 5}, 1, segs, false, false)
	// latSteps=4: 3 rings per hemisphere plus 2 body rings = 8 rings,
	// 7 lofted pairs of 2*segs triangles, plus two segs-triangle pole fans.
	if got := round.TriangleCount(); got != 7*2*segs+2*segs {
		t.Errorf("round capsule TriangleCount = %d, want %d", got, 7*2*segs+2*segs)
	}

	flat := capsule(v3.Vec{}, v3.Vec{X: 5}, 1, segs, true, true)
	// Two body rings, one lofted pair, two full disks.
	if got := flat.TriangleCount(); got != 2*segs+2*segs {
		t.Errorf("flat capsule TriangleCount = %d, want %d", got, 4*segs)
	}

	if c := capsule(v3.Vec{X: 1}, v3.Vec{X: 1}, 1, segs, false, false); c != nil {
		t.Error("zero-length capsule not rejected")
	}
}

func TestCapsuleVolume(t *testing.T) {
	// A flat-ended capsule is a cylinder; its faceted volume approaches
	// pi*r^2*h from below.
	flat := capsule(v3.Vec{}, v3.Vec{Z: 10}, 2, 64, true, true)
	want := math.Pi * 4 * 10
	if vol := math.Abs(solidVolume(flat)); math.Abs(vol-want)/want > 0.01 {
		t.Errorf("volume = %v, want about %v", vol, want)
	}
}

func TestBuildTubeFastPath(t *testing.T) {
	path := []v3.Vec{{}, {X: 5}, {X: 10}}
	tube, err := buildTube(firstOperandKernel{}, path, 1, 0, false, Config{Resolution: 8})
	if err != nil {
		t.Fatalf("buildTube: %v", err)
	}
	// 3 rings, 2 lofted pairs, 2 cap fans.
	if got := tube.TriangleCount(); got != 2*2*8+2*8 {
		t.Errorf("TriangleCount = %d, want %d", got, 2*2*8+2*8)
	}
	for _, label := range []string{FaceTubeOuter, FaceTubeCapStart, FaceTubeCapEnd} {
		if tube.Face(label) == nil {
			t.Errorf("missing face %q", label)
		}
	}
	if tube.Face(FaceTubeInner) != nil {
		t.Error("solid tube has an inner face")
	}
}

func TestBuildTubeInnerBore(t *testing.T) {
	path := []v3.Vec{{}, {X: 10}}
	tube, err := buildTube(firstOperandKernel{}, path, 2, 1, false, Config{Resolution: 8})
	if err != nil {
		t.Fatalf("buildTube: %v", err)
	}
	if tube.Face(FaceTubeInner) == nil {
		t.Fatal("bored tube missing inner face")
	}
	// Outer wall, inner wall, two annulus caps: 2*segs triangles each.
	if got := tube.TriangleCount(); got != 4*2*8 {
		t.Errorf("TriangleCount = %d, want %d", got, 4*2*8)
	}
	// Octagon-prism annulus volume, exact for the faceted solid:
	// (1/2)*n*sin(2pi/n)*(R^2-r^2)*L.
	want := 0.5 * 8 * math.Sin(math.Pi/4) * 3 * 10
	if vol := math.Abs(solidVolume(tube)); math.Abs(vol-want) > 1e-6 {
		t.Errorf("volume = %v, want %v", vol, want)
	}
}

func TestBuildTubeFallsBackToCapsules(t *testing.T) {
	// The concat kernel doubles every self-union, which reads as
	// self-intersection and forces the slow path.
	path := []v3.Vec{{}, {X: 5}, {X: 10}}
	tube, err := buildTube(concatKernel{}, path, 1, 0, false, Config{Resolution: 8})
	if err != nil {
		t.Fatalf("buildTube: %v", err)
	}
	if tube.Face(FaceTubeOuter) == nil {
		t.Error("missing OUTER after fallback")
	}
	if tube.Face(FaceTubeCapStart) == nil || tube.Face(FaceTubeCapEnd) == nil {
		t.Error("missing end caps after fallback")
	}
	// The capsule chain is strictly denser than the ring extrusion.
	if got := tube.TriangleCount(); got <= 2*2*8+2*8 {
		t.Errorf("TriangleCount = %d, expected the denser capsule chain", got)
	}
}

func TestBuildTubeForceSlow(t *testing.T) {
	path := []v3.Vec{{}, {X: 10}}
	tube, err := buildTube(firstOperandKernel{}, path, 1, 0, false, Config{Resolution: 8, ForceSlowTube: true})
	if err != nil {
		t.Fatalf("buildTube: %v", err)
	}
	// One flat-ended capsule: 2 rings lofted once plus two disks.
	if got := tube.TriangleCount(); got != 2*8+2*8 {
		t.Errorf("TriangleCount = %d, want %d", got, 4*8)
	}
	if tube.Face(FaceTubeCapStart) == nil || tube.Face(FaceTubeCapEnd) == nil {
		t.Error("slow tube caps not relabeled")
	}
}

func TestBuildTubeDegeneratePath(t *testing.T) {
	if _, err := buildTube(firstOperandKernel{}, []v3.Vec{{X: 1}}, 1, 0, false, Config{}); err == nil {
		t.Error("expected error for single-point path")
	}
}

func TestDistanceToPolyline(t *testing.T) {
	pts := []v3.Vec{{}, {X: 10}, {X: 10, Y: 10}}
	if d := distanceToPolyline(v3.Vec{X: 5, Y: 3}, pts); math.Abs(d-3) > 1e-9 {
		t.Errorf("distance = %v, want 3", d)
	}
	if d := distanceToPolyline(v3.Vec{X: -4}, pts); math.Abs(d-4) > 1e-9 {
		t.Errorf("distance past the start = %v, want 4", d)
	}
	if d := pointSegmentDistance(v3.Vec{Y: 2}, v3.Vec{X: 1}, v3.Vec{X: 1}); math.Abs(d-math.Sqrt(5)) > 1e-9 {
		t.Errorf("degenerate segment distance = %v", d)
	}
}

// relabelTube classifies a hand-built solid by geometry alone.
func TestRelabelTube(t *testing.T) {
	path := []v3.Vec{{}, {Z: 10}}
	s := capsule(path[0], path[1], 2, 16, true, true)
	relabelTube(s, path, 2, 0, false)

	for _, label := range []string{FaceTubeOuter, FaceTubeCapStart, FaceTubeCapEnd} {
		if s.Face(label) == nil {
			t.Errorf("missing face %q", label)
		}
	}
	// One quad band of wall plus a fan per end plane.
	if got := len(s.Face(FaceTubeCapStart).Triangles()); got != 16 {
		t.Errorf("CAP_START has %d triangles, want 16", got)
	}
	if got := len(s.Face(FaceTubeCapEnd).Triangles()); got != 16 {
		t.Errorf("CAP_END has %d triangles, want 16", got)
	}
	if got := len(s.Face(FaceTubeOuter).Triangles()); got != 32 {
		t.Errorf("OUTER has %d triangles, want 32", got)
	}
}
