package blend

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/solid"
)

// FilletRequest describes one edge-rounding operation.
type FilletRequest struct {
	Model  *solid.Solid
	Kernel kernel.Kernel
	Edge   *Edge
	Radius float64
	// InnerRadius, when positive, bores a coaxial channel through the tube
	// so the fillet leaves a hollow groove instead of solid material.
	InnerRadius float64
	Config      Config
}

// FilletResult carries the fused solid plus every intermediate the pipeline
// produced. When a stage degrades past recovery Final is nil, Err explains
// which stage, and the intermediates that did resolve remain populated for
// diagnosis.
type FilletResult struct {
	Final      *solid.Solid
	Tube       *solid.Solid
	Wedge      *solid.Solid
	Centerline *Centerline
	// RadiusClamp, when non-zero, is the largest radius the faces can
	// carry. Set alongside a successful result solved at the requested
	// radius, or with a nil Final when the radius made tangency points
	// leave their faces entirely.
	RadiusClamp float64
	Err         error
}

// ComputeFilletCenterline samples the edge, solves the tangent circle at
// every cross-section, and orients the resulting polylines consistently.
// This is the query half of FilletSolid, exposed for previews and for
// radius-clamp probing without paying for booleans.
func ComputeFilletCenterline(e *Edge, radius float64, cfg Config) (*Centerline, error) {
	return computeCenterline(e, radius, cfg, 0)
}

// computeCenterline is ComputeFilletCenterline with an explicit scale
// reference for tolerance derivation. Tolerances follow the model's bounding
// diagonal; scale <= 0 falls back to the edge's own diagonal for callers
// that have no model.
func computeCenterline(e *Edge, radius float64, cfg Config, scale float64) (*Centerline, error) {
	if e == nil || len(e.Points) == 0 {
		return nil, ErrDegenerateCenterline
	}
	if radius <= 0 {
		return nil, fmt.Errorf("blend: fillet radius %g must be positive", radius)
	}
	if scale <= 0 {
		scale = geom.BoundsDiagonal(e.Points)
	}
	tol := deriveTolerances(scale, radius)
	samples, err := sampleEdge(e, tol)
	if err != nil {
		return nil, err
	}
	c, err := solveCenterline(samples, radius, e.Closed, cfg, tol)
	if err != nil {
		return nil, err
	}
	orientCenterline(c, radius)
	return c, nil
}

// FilletSolid runs the full pipeline: centerline solve, wedge and tube
// construction, and the boolean combine against the model. Degradable
// failures land in the result rather than aborting; callers branch on
// Final == nil.
func FilletSolid(req FilletRequest) *FilletResult {
	res := &FilletResult{}
	log := req.Config.logger()

	if req.Model == nil || req.Kernel == nil {
		res.Err = fmt.Errorf("blend: fillet requires a model and a kernel")
		return res
	}

	c, err := computeCenterline(req.Edge, req.Radius, req.Config, req.Model.Diagonal())
	if err != nil {
		res.Err = err
		return res
	}
	res.Centerline = c
	res.RadiusClamp = c.RadiusClamp
	if c.RadiusClamp > 0 && c.RadiusClamp < req.Radius {
		log.Infow("fillet radius exceeds face extent",
			"radius", req.Radius, "clamp", c.RadiusClamp)
	}

	if req.Config.Inflate > 0 {
		inflateFilletEdge(c, req.Config.Inflate, req.Config.Side)
	}

	wedge, err := buildWedge(c, req.Radius)
	if err != nil {
		res.Err = err
		return res
	}
	res.Wedge = wedge

	tube, err := buildTube(req.Kernel, c.Points, req.Radius, req.InnerRadius, c.Closed, req.Config)
	if err != nil {
		res.Err = err
		return res
	}
	res.Tube = tube

	cmb := &combiner{kernel: req.Kernel, cfg: req.Config}
	final, err := applyFillet(cmb, req.Model, wedge, tube, req.Config.Side)
	if err != nil {
		res.Err = err
		return res
	}
	res.Final = final
	return res
}

// applyFillet fuses the tool solids into the model. Inset rounding removes
// the corner material outside the arc: cutter = wedge minus tube, model
// minus cutter. Outset rounding adds material up to the arc: filler = tube
// intersect wedge, model union filler.
func applyFillet(c *combiner, model, wedge, tube *solid.Solid, side SideMode) (*solid.Solid, error) {
	if side == SideOutset {
		filler, err := c.combine(opIntersect, tube, wedge)
		if err != nil {
			return nil, err
		}
		return c.combine(opUnion, model, filler)
	}
	cutter, err := c.combine(opSubtract, wedge, tube)
	if err != nil {
		return nil, err
	}
	return c.combine(opSubtract, model, cutter)
}

// inflateFilletEdge oversizes the wedge cross-section by pushing the edge
// corner along the face bisector, away from the material being kept, so
// the tool fully clears the original surfaces.
func inflateFilletEdge(c *Centerline, amount float64, side SideMode) {
	if len(c.Points) == 0 || len(c.Edge) != len(c.Points) {
		return
	}
	sign := 1.0
	if side == SideOutset {
		sign = -1
	}
	for i := range c.Edge {
		dir := bisectorDirection(c, i)
		if dir.Length() < 0.5 {
			continue
		}
		c.Edge[i] = c.Edge[i].Add(dir.MulScalar(sign * amount))
	}
}

// bisectorDirection estimates the outward bisector at cross-section i from
// the solved geometry: from the arc center through the edge corner.
func bisectorDirection(c *Centerline, i int) v3.Vec {
	d := c.Edge[i].Sub(c.Points[i])
	if d.Length() < 1e-12 {
		return v3.Vec{}
	}
	return d.Normalize()
}
