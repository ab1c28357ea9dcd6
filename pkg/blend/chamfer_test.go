package blend

import (
	"errors"
	"strings"
	"testing"

	"github.com/chazu/filigree/pkg/solid"
)

func TestChamferSolid(t *testing.T) {
	model, e := boxEdge(t)
	res := ChamferSolid(ChamferRequest{
		Model:    model,
		Kernel:   firstOperandKernel{},
		Edge:     e,
		Distance: 1.5,
	})
	if res.Err != nil {
		t.Fatalf("ChamferSolid: %v", res.Err)
	}
	if res.Final == nil {
		t.Fatal("Final is nil")
	}
	if res.Rails == nil || len(res.Rails.Edge) != 3 {
		t.Fatalf("rails not populated: %+v", res.Rails)
	}
	if res.Prism == nil || res.Prism.Face(FaceBevel) == nil {
		t.Error("prism missing bevel face")
	}
}

func TestChamferSolidBasePrefix(t *testing.T) {
	model, e := boxEdge(t)
	res := ChamferSolid(ChamferRequest{
		Model:    model,
		Kernel:   firstOperandKernel{},
		Edge:     e,
		Distance: 1.5,
		Base:     "C1",
	})
	if res.Err != nil {
		t.Fatalf("ChamferSolid: %v", res.Err)
	}
	if res.Prism.Face("C1_"+FaceBevel) == nil {
		t.Error("missing C1_BEVEL")
	}
	for _, label := range res.Prism.FaceLabels() {
		if !strings.HasPrefix(label, "C1_") {
			t.Errorf("label %q not prefixed", label)
		}
	}
}

func TestChamferSolidValidation(t *testing.T) {
	model, e := boxEdge(t)

	if res := ChamferSolid(ChamferRequest{Edge: e, Distance: 1}); res.Err == nil {
		t.Error("missing model and kernel accepted")
	}
	if res := ChamferSolid(ChamferRequest{
		Model: model, Kernel: firstOperandKernel{}, Edge: e, Distance: 0,
	}); res.Err == nil {
		t.Error("zero distance accepted")
	}
	if res := ChamferSolid(ChamferRequest{
		Model: model, Kernel: firstOperandKernel{}, Distance: 1,
	}); res.Err == nil {
		t.Error("missing edge accepted")
	}
}

func TestChamferToleranceScale(t *testing.T) {
	model := solid.Box(40, 20, 10)
	res := ChamferSolid(ChamferRequest{
		Model:    model,
		Kernel:   firstOperandKernel{},
		Edge:     microEdge(model),
		Distance: 1.5,
	})
	// The weld tolerance follows the model's bounding diagonal, so the
	// sub-micron sliver welds down to a point instead of producing a
	// degenerate prism.
	if !errors.Is(res.Err, ErrDegenerateCenterline) {
		t.Errorf("err = %v, want ErrDegenerateCenterline", res.Err)
	}
}

func TestChamferSolidClosedLoop(t *testing.T) {
	model := solid.Cylinder(30, 8, 24)
	e, err := EdgeBetween(model, solid.FaceTop, solid.FaceSide)
	if err != nil {
		t.Fatalf("EdgeBetween: %v", err)
	}
	res := ChamferSolid(ChamferRequest{
		Model:    model,
		Kernel:   firstOperandKernel{},
		Edge:     e,
		Distance: 1,
	})
	if res.Err != nil {
		t.Fatalf("ChamferSolid: %v", res.Err)
	}
	if !res.Rails.Closed {
		t.Error("rim rails not closed")
	}
	if res.Prism.Face(FaceCap0) != nil {
		t.Error("closed chamfer prism has end caps")
	}
}
