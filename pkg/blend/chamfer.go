package blend

import (
	"fmt"

	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/solid"
)

// ChamferRequest describes one edge-beveling operation.
type ChamferRequest struct {
	Model  *solid.Solid
	Kernel kernel.Kernel
	Edge   *Edge
	// Distance is the offset from the edge along each face to the bevel
	// boundary.
	Distance float64
	// Base prefixes the tool's face labels (<Base>_SIDE_A, <Base>_SIDE_B,
	// <Base>_BEVEL, <Base>_CAP0, <Base>_CAP1) so several chamfers can
	// coexist on one model. Empty keeps the unprefixed labels.
	Base   string
	Config Config
}

// ChamferResult mirrors FilletResult: Final is nil on unrecoverable
// degradation, with Err and the surviving intermediates for diagnosis.
type ChamferResult struct {
	Final *solid.Solid
	Prism *solid.Solid
	Rails *Rails
	Err   error
}

// ChamferSolid builds the triangular bevel prism along the edge and fuses
// it into the model: subtracted for inset bevels, unioned for outset
// build-ups.
func ChamferSolid(req ChamferRequest) *ChamferResult {
	res := &ChamferResult{}

	if req.Model == nil || req.Kernel == nil {
		res.Err = fmt.Errorf("blend: chamfer requires a model and a kernel")
		return res
	}
	if req.Distance <= 0 {
		res.Err = fmt.Errorf("blend: chamfer distance %g must be positive", req.Distance)
		return res
	}
	if req.Edge == nil || len(req.Edge.Points) == 0 {
		res.Err = ErrDegenerateCenterline
		return res
	}

	tol := deriveTolerances(req.Model.Diagonal(), req.Distance)
	samples, err := sampleEdge(req.Edge, tol)
	if err != nil {
		res.Err = err
		return res
	}

	rails, err := solveRails(samples, req.Distance, req.Edge.Closed, req.Config)
	if err != nil {
		res.Err = err
		return res
	}
	if !rails.Closed {
		if collapsed := resolveRailCrossings(rails); collapsed > 0 {
			req.Config.logger().Debugw("chamfer rails self-intersected", "collapses", collapsed)
		}
	}
	res.Rails = rails

	prism, err := buildPrism(rails, req.Distance)
	if err != nil {
		res.Err = err
		return res
	}
	prism = relabelPrefixed(prism, req.Base)
	res.Prism = prism

	cmb := &combiner{kernel: req.Kernel, cfg: req.Config}
	op := opSubtract
	if req.Config.Side == SideOutset {
		op = opUnion
	}
	final, err := cmb.combine(op, req.Model, prism)
	if err != nil {
		res.Err = err
		return res
	}
	res.Final = final
	return res
}
