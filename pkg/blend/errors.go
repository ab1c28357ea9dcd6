package blend

import "errors"

// Stage errors. They surface in result Err strings for degradable failures
// and as wrapped Go errors for failures with no diagnostic geometry at all.
var (
	// ErrDegenerateCenterline: the edge's points show no variation.
	ErrDegenerateCenterline = errors.New("blend: degenerate centerline, no variation among sample points")
	// ErrInsufficientSamples: fewer than two usable cross-sections survived
	// sampling.
	ErrInsufficientSamples = errors.New("blend: insufficient samples, need at least 2 usable cross-sections")
	// ErrAngleUnsolvable: the faces are parallel or anti-parallel at every
	// sample; no tangent circle exists. Individual unsolvable samples are
	// dropped silently, this error means all of them dropped.
	ErrAngleUnsolvable = errors.New("blend: faces parallel or anti-parallel, no tangent circle solvable")
	// ErrTubeGeneration: neither tube strategy produced a usable solid.
	ErrTubeGeneration = errors.New("blend: tube generation failed")
	// ErrWedgeTriangulation: zero valid triangles survived the degenerate
	// filter.
	ErrWedgeTriangulation = errors.New("blend: wedge triangulation produced no valid triangles")
	// ErrBooleanCombination: the boolean failed after exhausting the
	// escalating-tolerance repair attempts.
	ErrBooleanCombination = errors.New("blend: boolean combination failed after repair attempts")
)
