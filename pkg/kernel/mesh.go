package kernel

import "fmt"

// Mesh is the wire layout consumed by boolean kernels. All arrays are flat:
// Positions has 3 floats per vertex (x,y,z), Indices has 3 uint32s per
// triangle, FaceIDs has one face-label id per triangle.
type Mesh struct {
	Positions []float64 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices   []uint32  `json:"indices"`   // [i0,i1,i2, ...] triangles
	FaceIDs   []uint32  `json:"faceIds"`   // one label id per triangle
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// Validate checks the array lengths against the layout contract.
func (m *Mesh) Validate() error {
	if len(m.Positions)%3 != 0 {
		return fmt.Errorf("kernel: positions length %d not a multiple of 3", len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("kernel: indices length %d not a multiple of 3", len(m.Indices))
	}
	if len(m.FaceIDs) != m.TriangleCount() {
		return fmt.Errorf("kernel: %d face ids for %d triangles", len(m.FaceIDs), m.TriangleCount())
	}
	nv := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= nv {
			return fmt.Errorf("kernel: index %d at %d out of range (%d vertices)", idx, i, nv)
		}
	}
	return nil
}

// MaxFaceID returns the largest face-label id present, or 0 for an empty mesh.
func (m *Mesh) MaxFaceID() uint32 {
	var max uint32
	for _, id := range m.FaceIDs {
		if id > max {
			max = id
		}
	}
	return max
}

// OffsetFaceIDs shifts every face-label id by delta. Callers use this to make
// the id domains of two boolean operands disjoint.
func (m *Mesh) OffsetFaceIDs(delta uint32) {
	for i := range m.FaceIDs {
		m.FaceIDs[i] += delta
	}
}

// Merge populates the duplicate-vertex bookkeeping the boolean kernels
// require: vertices closer than eps are collapsed to a single index and
// unreferenced vertices are dropped. Kernels reject meshes that have not
// been merged, so callers run this once before boolean construction.
func (m *Mesh) Merge(eps float64) {
	type cell struct{ x, y, z int64 }
	if eps <= 0 {
		eps = 1e-9
	}
	lookup := make(map[cell]uint32, m.VertexCount())
	remap := make([]uint32, m.VertexCount())
	var positions []float64
	for i := 0; i < m.VertexCount(); i++ {
		x := m.Positions[i*3]
		y := m.Positions[i*3+1]
		z := m.Positions[i*3+2]
		key := cell{
			x: int64(x/eps + 0.5),
			y: int64(y/eps + 0.5),
			z: int64(z/eps + 0.5),
		}
		if existing, ok := lookup[key]; ok {
			remap[i] = existing
			continue
		}
		id := uint32(len(positions) / 3)
		lookup[key] = id
		remap[i] = id
		positions = append(positions, x, y, z)
	}
	indices := make([]uint32, 0, len(m.Indices))
	faceIDs := make([]uint32, 0, len(m.FaceIDs))
	for t := 0; t < m.TriangleCount(); t++ {
		i0 := remap[m.Indices[t*3]]
		i1 := remap[m.Indices[t*3+1]]
		i2 := remap[m.Indices[t*3+2]]
		// Welding can collapse a sliver triangle onto an edge or point.
		if i0 == i1 || i1 == i2 || i2 == i0 {
			continue
		}
		indices = append(indices, i0, i1, i2)
		if t < len(m.FaceIDs) {
			faceIDs = append(faceIDs, m.FaceIDs[t])
		}
	}
	m.Positions = positions
	m.Indices = indices
	m.FaceIDs = faceIDs
}

// Concatenate merges two meshes by raw index-offset concatenation without
// any boolean logic. The result is generally not 2-manifold; it is the
// combiner's last resort when booleans fail, trading topological correctness
// for not losing geometry.
func Concatenate(a, b *Mesh) *Mesh {
	out := &Mesh{
		Positions: make([]float64, 0, len(a.Positions)+len(b.Positions)),
		Indices:   make([]uint32, 0, len(a.Indices)+len(b.Indices)),
		FaceIDs:   make([]uint32, 0, len(a.FaceIDs)+len(b.FaceIDs)),
	}
	out.Positions = append(out.Positions, a.Positions...)
	out.Positions = append(out.Positions, b.Positions...)
	out.Indices = append(out.Indices, a.Indices...)
	offset := uint32(a.VertexCount())
	for _, idx := range b.Indices {
		out.Indices = append(out.Indices, idx+offset)
	}
	out.FaceIDs = append(out.FaceIDs, a.FaceIDs...)
	out.FaceIDs = append(out.FaceIDs, b.FaceIDs...)
	return out
}
