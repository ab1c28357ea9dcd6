// Package geom provides the vector geometry shared by the blend engine and
// the solid authoring layer: orthonormal section frames, planes, and polyline
// utilities. All math uses the sdfx vector types.
package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Lerp linearly interpolates between a and b.
func Lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}

// Orthonormal returns two unit vectors perpendicular to t and to each other.
// t must be non-zero but need not be normalized.
func Orthonormal(t v3.Vec) (u, v v3.Vec) {
	t = t.Normalize()
	// Pick the world axis least aligned with t as the reference.
	ref := v3.Vec{X: 1}
	if math.Abs(t.X) > math.Abs(t.Y) {
		ref = v3.Vec{Y: 1}
		if math.Abs(t.Y) > math.Abs(t.Z) {
			ref = v3.Vec{Z: 1}
		}
	} else if math.Abs(t.Y) > math.Abs(t.Z) {
		ref = v3.Vec{Z: 1}
	}
	u = ref.Cross(t).Normalize()
	v = t.Cross(u)
	return u, v
}

// RotateAbout rotates v around the unit axis by the given angle (radians),
// using Rodrigues' formula.
func RotateAbout(v, axis v3.Vec, angle float64) v3.Vec {
	c := math.Cos(angle)
	s := math.Sin(angle)
	return v.MulScalar(c).
		Add(axis.Cross(v).MulScalar(s)).
		Add(axis.MulScalar(axis.Dot(v) * (1 - c)))
}

// Frame is an orthonormal section frame along a path. Tangent is the
// out-of-plane axis; U and V span the section plane.
type Frame struct {
	Origin  v3.Vec
	Tangent v3.Vec
	U, V    v3.Vec
}

// FrameFromTangent builds a section frame at origin. If ref is non-degenerate
// the U axis is derived from ref x tangent so sections stay aligned with a
// face normal; otherwise an arbitrary perpendicular basis is used.
func FrameFromTangent(origin, tangent, ref v3.Vec) Frame {
	t := tangent.Normalize()
	u := ref.Cross(t)
	if u.Length() < 1e-12 {
		u, _ = Orthonormal(t)
	} else {
		u = u.Normalize()
	}
	v := t.Cross(u)
	return Frame{Origin: origin, Tangent: t, U: u, V: v}
}

// Transport advances the frame to a new origin and tangent by the minimal
// rotation between the old and new tangents (discrete parallel transport).
// Used to build rotation-minimizing frames along a path.
func (f Frame) Transport(origin, tangent v3.Vec) Frame {
	t := tangent.Normalize()
	axis := f.Tangent.Cross(t)
	sin := axis.Length()
	cos := f.Tangent.Dot(t)
	next := Frame{Origin: origin, Tangent: t}
	if sin < 1e-12 {
		if cos > 0 {
			// Tangent unchanged, carry the basis as-is.
			next.U, next.V = f.U, f.V
		} else {
			// 180 degree flip, no unique minimal rotation. Negate one axis
			// to keep the frame right-handed.
			next.U, next.V = f.U.Neg(), f.V
		}
		return next
	}
	axis = axis.DivScalar(sin)
	angle := math.Atan2(sin, cos)
	next.U = RotateAbout(f.U, axis, angle)
	next.V = RotateAbout(f.V, axis, angle)
	return next
}

// To2D expresses a world point in the frame's section plane.
func (f Frame) To2D(p v3.Vec) v2.Vec {
	d := p.Sub(f.Origin)
	return v2.Vec{X: d.Dot(f.U), Y: d.Dot(f.V)}
}

// From2D maps a section-plane point back to world space.
func (f Frame) From2D(p v2.Vec) v3.Vec {
	return f.Origin.Add(f.U.MulScalar(p.X)).Add(f.V.MulScalar(p.Y))
}

// Plane is a point-and-unit-normal plane.
type Plane struct {
	Point  v3.Vec
	Normal v3.Vec
}

// Distance returns the signed distance of q from the plane.
func (p Plane) Distance(q v3.Vec) float64 {
	return q.Sub(p.Point).Dot(p.Normal)
}

// Project returns the closest point on the plane to q.
func (p Plane) Project(q v3.Vec) v3.Vec {
	return q.Sub(p.Normal.MulScalar(p.Distance(q)))
}

// IntersectPlanes returns the single point common to three planes. ok is
// false when the normals are not linearly independent.
func IntersectPlanes(a, b, c Plane) (v3.Vec, bool) {
	n1, n2, n3 := a.Normal, b.Normal, c.Normal
	det := n1.Dot(n2.Cross(n3))
	if math.Abs(det) < 1e-12 {
		return v3.Vec{}, false
	}
	d1 := n1.Dot(a.Point)
	d2 := n2.Dot(b.Point)
	d3 := n3.Dot(c.Point)
	p := n2.Cross(n3).MulScalar(d1).
		Add(n3.Cross(n1).MulScalar(d2)).
		Add(n1.Cross(n2).MulScalar(d3))
	return p.DivScalar(det), true
}

// BestFitPlane fits a plane through the points using Newell's method.
// ok is false when the points are degenerate (fewer than three distinct
// points, or nearly collinear); callers should fall back to an arbitrary
// plane in that case.
func BestFitPlane(points []v3.Vec) (Plane, bool) {
	if len(points) < 3 {
		return Plane{}, false
	}
	var centroid, normal v3.Vec
	for i, p := range points {
		q := points[(i+1)%len(points)]
		normal.X += (p.Y - q.Y) * (p.Z + q.Z)
		normal.Y += (p.Z - q.Z) * (p.X + q.X)
		normal.Z += (p.X - q.X) * (p.Y + q.Y)
		centroid = centroid.Add(p)
	}
	centroid = centroid.DivScalar(float64(len(points)))
	if normal.Length() < 1e-12 {
		// Collinear or closed back on itself. Derive a normal from the
		// dominant direction instead.
		dir, ok := NetDirection(points)
		if !ok {
			return Plane{}, false
		}
		u, _ := Orthonormal(dir)
		return Plane{Point: centroid, Normal: u}, false
	}
	return Plane{Point: centroid, Normal: normal.Normalize()}, true
}

// SegmentIntersect2 intersects segments a0-a1 and b0-b1 in 2D. On a hit it
// returns the parameters s (along a) and t (along b), both in [0,1].
func SegmentIntersect2(a0, a1, b0, b1 v2.Vec) (s, t float64, ok bool) {
	da := a1.Sub(a0)
	db := b1.Sub(b0)
	denom := da.X*db.Y - da.Y*db.X
	if math.Abs(denom) < 1e-15 {
		return 0, 0, false
	}
	d := b0.Sub(a0)
	s = (d.X*db.Y - d.Y*db.X) / denom
	t = (d.X*da.Y - d.Y*da.X) / denom
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return 0, 0, false
	}
	return s, t, true
}
