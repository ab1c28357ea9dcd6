package blend

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/solid"
)

func TestComputeFilletCenterline(t *testing.T) {
	_, e := boxEdge(t)
	c, err := ComputeFilletCenterline(e, 2, Config{})
	if err != nil {
		t.Fatalf("ComputeFilletCenterline: %v", err)
	}
	if len(c.Points) != 3 {
		t.Fatalf("got %d sections, want 3", len(c.Points))
	}
	expected := 2 / math.Sin(math.Pi/4)
	for i := range c.Points {
		if d := c.Points[i].Sub(c.Edge[i]).Length(); math.Abs(d-expected) > 1e-6 {
			t.Errorf("section %d center distance = %v, want %v", i, d, expected)
		}
		if d := c.TangentA[i].Sub(c.Points[i]).Length(); math.Abs(d-2) > 1e-6 {
			t.Errorf("section %d tangencyA distance = %v, want 2", i, d)
		}
		if d := c.TangentB[i].Sub(c.Points[i]).Length(); math.Abs(d-2) > 1e-6 {
			t.Errorf("section %d tangencyB distance = %v, want 2", i, d)
		}
	}
	if c.RadiusClamp != 0 {
		t.Errorf("RadiusClamp = %v, want 0", c.RadiusClamp)
	}
}

func TestComputeFilletCenterlineClamp(t *testing.T) {
	_, e := boxEdge(t)
	c, err := ComputeFilletCenterline(e, 15, Config{})
	if err != nil {
		t.Fatalf("ComputeFilletCenterline: %v", err)
	}
	if math.Abs(c.RadiusClamp-10) > 1e-6 {
		t.Errorf("RadiusClamp = %v, want 10", c.RadiusClamp)
	}
}

func TestComputeFilletCenterlineValidation(t *testing.T) {
	_, e := boxEdge(t)
	if _, err := ComputeFilletCenterline(nil, 1, Config{}); !errors.Is(err, ErrDegenerateCenterline) {
		t.Errorf("nil edge err = %v", err)
	}
	if _, err := ComputeFilletCenterline(e, 0, Config{}); err == nil {
		t.Error("zero radius accepted")
	}
	if _, err := ComputeFilletCenterline(e, -2, Config{}); err == nil {
		t.Error("negative radius accepted")
	}
}

func TestFilletSolid(t *testing.T) {
	model, e := boxEdge(t)
	res := FilletSolid(FilletRequest{
		Model:  model,
		Kernel: firstOperandKernel{},
		Edge:   e,
		Radius: 2,
		Config: Config{Resolution: 8},
	})
	if res.Err != nil {
		t.Fatalf("FilletSolid: %v", res.Err)
	}
	if res.Final == nil {
		t.Fatal("Final is nil")
	}
	if res.Centerline == nil || res.Wedge == nil || res.Tube == nil {
		t.Error("intermediates not populated")
	}
	if res.Wedge.Face(FaceWedgeA) == nil || res.Wedge.Face(FaceSideB) == nil {
		t.Error("wedge faces missing")
	}
	if res.Tube.Face(FaceTubeOuter) == nil {
		t.Error("tube outer face missing")
	}
}

func TestFilletSolidOutset(t *testing.T) {
	model, e := boxEdge(t)
	res := FilletSolid(FilletRequest{
		Model:  model,
		Kernel: firstOperandKernel{},
		Edge:   e,
		Radius: 2,
		Config: Config{Side: SideOutset, Resolution: 8},
	})
	if res.Err != nil {
		t.Fatalf("FilletSolid outset: %v", res.Err)
	}
	if res.Final == nil {
		t.Fatal("Final is nil")
	}
	// Outset centers sit outside the material: above the top plane or in
	// front of the front plane.
	for i, p := range res.Centerline.Points {
		if p.Z <= 10 && p.Y >= 0 {
			t.Errorf("outset center %d at %v is inside the material", i, p)
		}
	}
}

func TestFilletSolidMissingInputs(t *testing.T) {
	_, e := boxEdge(t)
	res := FilletSolid(FilletRequest{Edge: e, Radius: 1})
	if res.Err == nil || res.Final != nil {
		t.Error("missing model and kernel accepted")
	}
}

// microEdge is a sub-micron sliver of the top/front corner of a full-size
// box, long enough to survive tolerances derived from its own extent but not
// tolerances derived from the model's.
func microEdge(model *solid.Solid) *Edge {
	return &Edge{
		Points: []v3.Vec{
			{X: 20 - 5e-7, Y: 0, Z: 10},
			{X: 20 + 5e-7, Y: 0, Z: 10},
		},
		Faces: FacePair{A: model.Face(solid.FaceTop), B: model.Face(solid.FaceFront)},
	}
}

func TestFilletToleranceScale(t *testing.T) {
	model := solid.Box(40, 20, 10)
	e := microEdge(model)

	// With the model in hand, the weld tolerance follows the model's
	// bounding diagonal and the sliver welds down to a point.
	res := FilletSolid(FilletRequest{
		Model:  model,
		Kernel: firstOperandKernel{},
		Edge:   e,
		Radius: 2,
	})
	if !errors.Is(res.Err, ErrDegenerateCenterline) {
		t.Errorf("err = %v, want ErrDegenerateCenterline", res.Err)
	}

	// The model-less query falls back to the edge's own diagonal and keeps
	// the sliver solvable.
	if _, err := ComputeFilletCenterline(e, 2, Config{}); err != nil {
		t.Errorf("ComputeFilletCenterline: %v", err)
	}
}

func TestFilletSolidDegradedKernel(t *testing.T) {
	model, e := boxEdge(t)
	res := FilletSolid(FilletRequest{
		Model:  model,
		Kernel: brokenKernel{},
		Edge:   e,
		Radius: 2,
		Config: Config{Resolution: 8, ForceSlowTube: true},
	})
	// The capsule chain needs a union per interior join, so the tube stage
	// fails and the pipeline reports it with the earlier intermediates
	// intact.
	if res.Final != nil {
		t.Error("Final produced with a broken kernel")
	}
	if res.Err == nil {
		t.Error("no error with a broken kernel")
	}
	if res.Centerline == nil || res.Wedge == nil {
		t.Error("pre-boolean intermediates missing")
	}
}
