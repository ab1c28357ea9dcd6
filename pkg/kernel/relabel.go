package kernel

import "math"

// triangleRef is a precomputed centroid + unit normal for matching.
type triangleRef struct {
	cx, cy, cz float64
	nx, ny, nz float64
	faceID     uint32
}

func triangleRefs(m *Mesh) []triangleRef {
	refs := make([]triangleRef, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var p [3][3]float64
		for c := 0; c < 3; c++ {
			idx := int(m.Indices[t*3+c]) * 3
			p[c] = [3]float64{m.Positions[idx], m.Positions[idx+1], m.Positions[idx+2]}
		}
		r := triangleRef{
			cx: (p[0][0] + p[1][0] + p[2][0]) / 3,
			cy: (p[0][1] + p[1][1] + p[2][1]) / 3,
			cz: (p[0][2] + p[1][2] + p[2][2]) / 3,
		}
		e1 := [3]float64{p[1][0] - p[0][0], p[1][1] - p[0][1], p[1][2] - p[0][2]}
		e2 := [3]float64{p[2][0] - p[0][0], p[2][1] - p[0][1], p[2][2] - p[0][2]}
		r.nx = e1[1]*e2[2] - e1[2]*e2[1]
		r.ny = e1[2]*e2[0] - e1[0]*e2[2]
		r.nz = e1[0]*e2[1] - e1[1]*e2[0]
		l := math.Sqrt(r.nx*r.nx + r.ny*r.ny + r.nz*r.nz)
		if l > 1e-18 {
			r.nx /= l
			r.ny /= l
			r.nz /= l
		}
		if t < len(m.FaceIDs) {
			r.faceID = m.FaceIDs[t]
		}
		refs = append(refs, r)
	}
	return refs
}

// AssignFaceIDs labels every triangle of out by nearest-centroid/normal
// matching against the triangles of the source meshes. The returned slice
// holds, per output triangle, the match residual (centroid distance plus a
// normal-mismatch penalty scaled by the mesh diagonal); callers compare it
// against a scale-relative threshold to decide whether a match is confident.
//
// Boolean kernels that cannot track provenance natively use this after the
// operation; the combiner uses it to relabel repaired meshes.
func AssignFaceIDs(out *Mesh, sources ...*Mesh) []float64 {
	var refs []triangleRef
	for _, src := range sources {
		refs = append(refs, triangleRefs(src)...)
	}
	residuals := make([]float64, out.TriangleCount())
	if len(refs) == 0 {
		out.FaceIDs = make([]uint32, out.TriangleCount())
		return residuals
	}
	scale := meshDiagonal(out)
	if scale <= 0 {
		scale = 1
	}
	outRefs := triangleRefs(out)
	faceIDs := make([]uint32, len(outRefs))
	for i, o := range outRefs {
		best := math.MaxFloat64
		var bestID uint32
		for _, r := range refs {
			dx, dy, dz := o.cx-r.cx, o.cy-r.cy, o.cz-r.cz
			d := math.Sqrt(dx*dx + dy*dy + dz*dz)
			// A flipped or skew normal costs up to 10% of the diagonal so a
			// coplanar neighbor from the right face beats a closer triangle
			// from the wrong one.
			mismatch := 1 - (o.nx*r.nx + o.ny*r.ny + o.nz*r.nz)
			score := d + mismatch*scale*0.05
			if score < best {
				best = score
				bestID = r.faceID
			}
		}
		faceIDs[i] = bestID
		residuals[i] = best
	}
	out.FaceIDs = faceIDs
	return residuals
}

func meshDiagonal(m *Mesh) float64 {
	if m.VertexCount() == 0 {
		return 0
	}
	min := [3]float64{m.Positions[0], m.Positions[1], m.Positions[2]}
	max := min
	for i := 0; i < m.VertexCount(); i++ {
		for c := 0; c < 3; c++ {
			v := m.Positions[i*3+c]
			if v < min[c] {
				min[c] = v
			}
			if v > max[c] {
				max[c] = v
			}
		}
	}
	dx, dy, dz := max[0]-min[0], max[1]-min[1], max[2]-min[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
