package blend

import (
	"fmt"
	"math"

	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/solid"
)

// combineOp names the boolean being attempted, for logging and for the
// mesh-merge last resort (which only makes sense for unions).
type combineOp int

const (
	opUnion combineOp = iota
	opSubtract
	opIntersect
)

func (op combineOp) String() string {
	switch op {
	case opUnion:
		return "union"
	case opSubtract:
		return "subtract"
	case opIntersect:
		return "intersect"
	}
	return "unknown"
}

const combineAttempts = 3

// combiner fuses tool solids into models without aborting the pipeline on
// near-degenerate input. A failed boolean triggers up to three retries with
// both operands rebuilt through mesh repair at an escalating weld
// tolerance; failed unions additionally get a raw-concatenation fallback.
// Operands that survive nothing are passed through unchanged with the
// error recorded.
type combiner struct {
	kernel kernel.Kernel
	cfg    Config
}

// combine returns the fused solid, or (model, err) when every strategy
// failed. The caller decides whether a pass-through model is acceptable.
func (c *combiner) combine(op combineOp, model, tool *solid.Solid) (*solid.Solid, error) {
	log := c.cfg.logger()

	out, err := c.apply(op, model, tool)
	if err == nil {
		return out, nil
	}
	log.Debugw("direct boolean failed, entering repair escalation", "op", op.String(), "error", err)

	base := math.Max(model.Epsilon(), tool.Epsilon())
	eps := math.Max(1e-5, base*10)
	for attempt := 0; attempt < combineAttempts; attempt++ {
		weld := eps * math.Pow(4, float64(attempt))
		rm := model.Repair(weld)
		rt := tool.Repair(weld)
		out, err = c.apply(op, rm, rt)
		if err == nil {
			log.Debugw("boolean succeeded after repair", "op", op.String(), "weld", weld, "attempt", attempt+1)
			return out, nil
		}
		log.Debugw("repaired boolean failed", "op", op.String(), "weld", weld, "error", err)
	}

	if op == opUnion {
		if out, mergeErr := c.mergeFallback(model, tool, eps); mergeErr == nil {
			log.Warnw("union degraded to raw mesh merge", "weld", eps)
			return out, nil
		}
	}

	return model, fmt.Errorf("%w: %s: %v", ErrBooleanCombination, op.String(), err)
}

func (c *combiner) apply(op combineOp, a, b *solid.Solid) (*solid.Solid, error) {
	switch op {
	case opUnion:
		return a.Union(b, c.kernel)
	case opSubtract:
		return a.Subtract(b, c.kernel)
	case opIntersect:
		return a.Intersect(b, c.kernel)
	}
	return nil, fmt.Errorf("blend: unknown boolean op %d", op)
}

// mergeFallback concatenates both triangle soups with disjoint label-id
// domains and repairs the result. No boolean logic runs, so interior walls
// survive, but no geometry is lost either.
func (c *combiner) mergeFallback(a, b *solid.Solid, weld float64) (*solid.Solid, error) {
	ma, labelsA := a.Mesh()
	mb, labelsB := b.Mesh()
	if ma.IsEmpty() && mb.IsEmpty() {
		return nil, fmt.Errorf("blend: both merge operands empty")
	}
	mb.OffsetFaceIDs(uint32(len(labelsA)))
	merged := kernel.Concatenate(ma, mb)
	labels := append(append([]string{}, labelsA...), labelsB...)
	out := solid.FromMesh(merged, labels)
	return out.Repair(weld), nil
}
