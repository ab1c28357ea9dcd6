package blend

import "math"

// tolerances are the numeric thresholds of one blend invocation. They are
// derived from the model's bounding diagonal and the requested radius or
// distance, never hard-coded absolutes, so behavior scales from millimeter
// to meter models.
type tolerances struct {
	scale float64 // reference length: max(model diagonal, feature size)
	weld  float64 // vertices closer than this are coincident
	proj  float64 // acceptable projection residual at a tangency point
	angle float64 // minimum sin(angle/2) for a solvable dihedral
}

func deriveTolerances(diagonal, feature float64) tolerances {
	scale := math.Max(diagonal, feature)
	if scale <= 0 {
		scale = 1
	}
	return tolerances{
		scale: scale,
		weld:  scale * 1e-7,
		proj:  math.Max(feature*0.05, scale*1e-6),
		angle: 1e-3,
	}
}

// degenerateArea is the minimum triangle area, relative to feature size
// squared, below which tool triangles are rejected.
func degenerateArea(feature float64) float64 {
	return feature * feature * 1e-8
}
