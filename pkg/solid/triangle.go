package solid

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Triangle is a single triangle in world space.
type Triangle [3]v3.Vec

// Normal returns the unit normal implied by the vertex winding, or the zero
// vector for a degenerate triangle.
func (t Triangle) Normal() v3.Vec {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if n.Length() < 1e-18 {
		return v3.Vec{}
	}
	return n.Normalize()
}

// Area returns the triangle area.
func (t Triangle) Area() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}

// Centroid returns the triangle centroid.
func (t Triangle) Centroid() v3.Vec {
	return t[0].Add(t[1]).Add(t[2]).DivScalar(3)
}

// Flip reverses the winding.
func (t Triangle) Flip() Triangle {
	return Triangle{t[0], t[2], t[1]}
}

// Min returns the componentwise minimum of the vertices.
func (t Triangle) Min() v3.Vec {
	return t[0].Min(t[1]).Min(t[2])
}

// Max returns the componentwise maximum of the vertices.
func (t Triangle) Max() v3.Vec {
	return t[0].Max(t[1]).Max(t[2])
}

// ClosestPoint returns the point on the triangle closest to p.
// Standard region-classification approach (Ericson, Real-Time Collision
// Detection §5.1.5).
func (t Triangle) ClosestPoint(p v3.Vec) v3.Vec {
	a, b, c := t[0], t[1], t[2]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.MulScalar(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.MulScalar(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).MulScalar(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w))
}
