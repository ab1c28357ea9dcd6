package solid

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Canonical face labels for the box primitive.
const (
	FaceBottom = "bottom" // z = 0
	FaceTop    = "top"    // z = dz
	FaceFront  = "front"  // y = 0
	FaceBack   = "back"   // y = dy
	FaceLeft   = "left"   // x = 0
	FaceRight  = "right"  // x = dx
	FaceSide   = "side"   // cylinder barrel
)

// Box creates a box with its minimum corner at the origin and one named
// face per side, so edges between any two adjacent faces can be blended.
func Box(dx, dy, dz float64) *Solid {
	s := New()
	p := func(x, y, z float64) v3.Vec { return v3.Vec{X: x, Y: y, Z: z} }

	// Outward CCW windings per side.
	s.AddTriangle(FaceBottom, p(0, 0, 0), p(dx, dy, 0), p(dx, 0, 0))
	s.AddTriangle(FaceBottom, p(0, 0, 0), p(0, dy, 0), p(dx, dy, 0))
	s.AddTriangle(FaceTop, p(0, 0, dz), p(dx, 0, dz), p(dx, dy, dz))
	s.AddTriangle(FaceTop, p(0, 0, dz), p(dx, dy, dz), p(0, dy, dz))
	s.AddTriangle(FaceFront, p(0, 0, 0), p(dx, 0, 0), p(dx, 0, dz))
	s.AddTriangle(FaceFront, p(0, 0, 0), p(dx, 0, dz), p(0, 0, dz))
	s.AddTriangle(FaceBack, p(0, dy, 0), p(dx, dy, dz), p(dx, dy, 0))
	s.AddTriangle(FaceBack, p(0, dy, 0), p(0, dy, dz), p(dx, dy, dz))
	s.AddTriangle(FaceLeft, p(0, 0, 0), p(0, 0, dz), p(0, dy, dz))
	s.AddTriangle(FaceLeft, p(0, 0, 0), p(0, dy, dz), p(0, dy, 0))
	s.AddTriangle(FaceRight, p(dx, 0, 0), p(dx, dy, dz), p(dx, 0, dz))
	s.AddTriangle(FaceRight, p(dx, 0, 0), p(dx, dy, 0), p(dx, dy, dz))
	return s
}

// Cylinder creates a cylinder along the Z axis from z=0 to z=height,
// centered on the origin in XY, triangulated with the given segment count.
// Faces: "side", "top", "bottom".
func Cylinder(height, radius float64, segments int) *Solid {
	if segments < 3 {
		segments = 3
	}
	s := New()
	ring := func(z float64) []v3.Vec {
		pts := make([]v3.Vec, segments)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a), Z: z}
		}
		return pts
	}
	bottom := ring(0)
	top := ring(height)
	cb := v3.Vec{}
	ct := v3.Vec{Z: height}
	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		s.AddTriangle(FaceSide, bottom[i], bottom[j], top[j])
		s.AddTriangle(FaceSide, bottom[i], top[j], top[i])
		s.AddTriangle(FaceBottom, cb, bottom[j], bottom[i])
		s.AddTriangle(FaceTop, ct, top[i], top[j])
	}
	return s
}

// FromSDF tessellates a signed distance field into a single-face solid
// using marching cubes. Free-form inputs come in this way; their faces are
// split afterward by boolean provenance, not here.
func FromSDF(s3 sdf.SDF3, label string, cells int) (*Solid, error) {
	if cells <= 0 {
		cells = 200
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("solid: marching cubes produced no triangles")
	}
	out := New()
	for _, tri := range triangles {
		out.AddTriangle(label, tri[0], tri[1], tri[2])
	}
	return out, nil
}
