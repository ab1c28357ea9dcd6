// Package solid implements the authoring and query surface for labeled
// triangle solids. A Solid stores triangles grouped by face label and
// answers the geometric queries the blend engine needs: average and local
// face normals, nearest-point projection onto a face's triangle set, and
// boolean combination through an abstract kernel with face-label provenance.
package solid

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/kernel"
)

// defaultEpsilon is the weld tolerance used before SetEpsilon is called.
// It is replaced by a scale-derived value as soon as the caller knows the
// model size.
const defaultEpsilon = 1e-9

// faceData is the per-label triangle store.
type faceData struct {
	tris  []Triangle
	index *triIndex // lazy spatial index, invalidated on mutation
	meta  any
}

// Solid is a triangle mesh with named triangle groups (face labels).
// The zero value is not usable; call New.
type Solid struct {
	order   []string // label insertion order, kept stable for id assignment
	faces   map[string]*faceData
	epsilon float64
}

// New returns an empty solid.
func New() *Solid {
	return &Solid{
		faces:   make(map[string]*faceData),
		epsilon: defaultEpsilon,
	}
}

// AddTriangle appends a triangle to the named face, creating the face on
// first use.
func (s *Solid) AddTriangle(label string, p0, p1, p2 v3.Vec) {
	fd, ok := s.faces[label]
	if !ok {
		fd = &faceData{}
		s.faces[label] = fd
		s.order = append(s.order, label)
	}
	fd.tris = append(fd.tris, Triangle{p0, p1, p2})
	fd.index = nil
}

// Face returns a handle for the named face, or nil if it does not exist.
func (s *Solid) Face(label string) *Face {
	fd, ok := s.faces[label]
	if !ok {
		return nil
	}
	return &Face{label: label, data: fd}
}

// FaceLabels returns the face labels in insertion order.
func (s *Solid) FaceLabels() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// SetFaceMetadata attaches arbitrary metadata to a face.
func (s *Solid) SetFaceMetadata(label string, data any) {
	if fd, ok := s.faces[label]; ok {
		fd.meta = data
	}
}

// FaceMetadata returns metadata previously attached to a face, or nil.
func (s *Solid) FaceMetadata(label string) any {
	if fd, ok := s.faces[label]; ok {
		return fd.meta
	}
	return nil
}

// TriangleCount returns the total number of triangles across all faces.
func (s *Solid) TriangleCount() int {
	var n int
	for _, fd := range s.faces {
		n += len(fd.tris)
	}
	return n
}

// Epsilon returns the current weld tolerance.
func (s *Solid) Epsilon() float64 {
	return s.epsilon
}

// SetEpsilon sets the weld tolerance and immediately re-welds the solid,
// dropping triangles that collapse below the tolerance.
func (s *Solid) SetEpsilon(eps float64) {
	if eps <= 0 {
		return
	}
	s.epsilon = eps
	m, labels := s.Mesh()
	m.Merge(eps)
	rebuilt := FromMesh(m, labels)
	rebuilt.epsilon = eps
	// Carry metadata for surviving faces.
	for label, fd := range s.faces {
		if nd, ok := rebuilt.faces[label]; ok {
			nd.meta = fd.meta
		}
	}
	*s = *rebuilt
}

// PushFace translates every triangle of the named face by dist along the
// face's average outward normal. Used to oversize tool faces slightly so
// they do not z-fight the geometry they border during booleans.
func (s *Solid) PushFace(label string, dist float64) {
	fd, ok := s.faces[label]
	if !ok {
		return
	}
	f := &Face{label: label, data: fd}
	n := f.AverageNormal()
	if n.Length() < 0.5 {
		return
	}
	d := n.MulScalar(dist)
	for i := range fd.tris {
		for c := 0; c < 3; c++ {
			fd.tris[i][c] = fd.tris[i][c].Add(d)
		}
	}
	fd.index = nil
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *Solid) BoundingBox() (min, max v3.Vec) {
	first := true
	for _, fd := range s.faces {
		for _, t := range fd.tris {
			if first {
				min, max = t.Min(), t.Max()
				first = false
				continue
			}
			min = min.Min(t.Min())
			max = max.Max(t.Max())
		}
	}
	return min, max
}

// Diagonal returns the bounding box diagonal length, the scale reference for
// derived tolerances.
func (s *Solid) Diagonal() float64 {
	min, max := s.BoundingBox()
	return max.Sub(min).Length()
}

// Mesh converts the solid to the kernel wire layout. Vertices are welded at
// the solid's epsilon. The returned label slice maps face-label ids back to
// names: FaceIDs[t] indexes into it.
func (s *Solid) Mesh() (*kernel.Mesh, []string) {
	m := &kernel.Mesh{}
	labels := make([]string, 0, len(s.order))
	for _, label := range s.order {
		fd := s.faces[label]
		if len(fd.tris) == 0 {
			continue
		}
		id := uint32(len(labels))
		labels = append(labels, label)
		for _, t := range fd.tris {
			base := uint32(m.VertexCount())
			for c := 0; c < 3; c++ {
				m.Positions = append(m.Positions, t[c].X, t[c].Y, t[c].Z)
			}
			m.Indices = append(m.Indices, base, base+1, base+2)
			m.FaceIDs = append(m.FaceIDs, id)
		}
	}
	m.Merge(s.epsilon)
	return m, labels
}

// FromMesh rebuilds a solid from the kernel wire layout. Face-label ids
// beyond the label table get generated names.
func FromMesh(m *kernel.Mesh, labels []string) *Solid {
	s := New()
	for t := 0; t < m.TriangleCount(); t++ {
		var id uint32
		if t < len(m.FaceIDs) {
			id = m.FaceIDs[t]
		}
		var label string
		if int(id) < len(labels) {
			label = labels[id]
		} else {
			label = fmt.Sprintf("FACE_%d", id)
		}
		var p [3]v3.Vec
		for c := 0; c < 3; c++ {
			idx := int(m.Indices[t*3+c]) * 3
			p[c] = v3.Vec{X: m.Positions[idx], Y: m.Positions[idx+1], Z: m.Positions[idx+2]}
		}
		s.AddTriangle(label, p[0], p[1], p[2])
	}
	return s
}

// combine runs one boolean operation through the kernel, keeping the two
// operands' face-id domains disjoint and translating ids back to labels.
func (s *Solid) combine(other *Solid, k kernel.Kernel, op string) (*Solid, error) {
	ma, labelsA := s.Mesh()
	mb, labelsB := other.Mesh()
	mb.OffsetFaceIDs(uint32(len(labelsA)))
	merged := mergeLabelTables(labelsA, labelsB)

	var (
		out *kernel.Mesh
		err error
	)
	switch op {
	case "union":
		out, err = k.Union(ma, mb)
	case "subtract":
		out, err = k.Subtract(ma, mb)
	case "intersect":
		out, err = k.Intersect(ma, mb)
	default:
		return nil, fmt.Errorf("solid: unknown boolean op %q", op)
	}
	if err != nil {
		return nil, fmt.Errorf("solid: %s failed: %w", op, err)
	}
	result := FromMesh(out, merged)
	result.epsilon = s.epsilon
	return result, nil
}

// mergeLabelTables concatenates the operand label tables, renaming
// second-operand names that collide with one already in the table. Both
// operands of a primitive pair carry the same face names ("top", "front"),
// and mapping the two id domains back to one string would merge the faces
// and lose which operand each triangle came from.
func mergeLabelTables(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, l := range a {
		out = append(out, l)
		seen[l] = true
	}
	for _, l := range b {
		name := l
		for n := 2; seen[name]; n++ {
			name = fmt.Sprintf("%s_%d", l, n)
		}
		out = append(out, name)
		seen[name] = true
	}
	return out
}

// Union returns the boolean union of s and other.
func (s *Solid) Union(other *Solid, k kernel.Kernel) (*Solid, error) {
	return s.combine(other, k, "union")
}

// Subtract returns the boolean difference s minus other.
func (s *Solid) Subtract(other *Solid, k kernel.Kernel) (*Solid, error) {
	return s.combine(other, k, "subtract")
}

// Intersect returns the boolean intersection of s and other.
func (s *Solid) Intersect(other *Solid, k kernel.Kernel) (*Solid, error) {
	return s.combine(other, k, "intersect")
}

// RenderMesh is the JSON-serializable mesh format sent to the viewer.
// All arrays are flat: 3 floats per vertex and normal, 3 uint32s per triangle.
type RenderMesh struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color,omitempty"`
}

// Visualize converts the solid to a render mesh with per-vertex normals
// averaged from incident triangle faces.
func (s *Solid) Visualize() *RenderMesh {
	m, _ := s.Mesh()
	rm := &RenderMesh{
		Vertices: make([]float32, len(m.Positions)),
		Indices:  append([]uint32{}, m.Indices...),
	}
	for i, v := range m.Positions {
		rm.Vertices[i] = float32(v)
	}
	rm.Normals = vertexNormals(m)
	return rm
}

// vertexNormals generates per-vertex normals by accumulating the face
// normals of all triangles incident on each vertex, then normalizing.
func vertexNormals(m *kernel.Mesh) []float32 {
	normals := make([]float64, len(m.Positions))
	for t := 0; t < m.TriangleCount(); t++ {
		var p [3]v3.Vec
		for c := 0; c < 3; c++ {
			idx := int(m.Indices[t*3+c]) * 3
			p[c] = v3.Vec{X: m.Positions[idx], Y: m.Positions[idx+1], Z: m.Positions[idx+2]}
		}
		n := p[1].Sub(p[0]).Cross(p[2].Sub(p[0]))
		for c := 0; c < 3; c++ {
			idx := int(m.Indices[t*3+c]) * 3
			normals[idx] += n.X
			normals[idx+1] += n.Y
			normals[idx+2] += n.Z
		}
	}
	out := make([]float32, len(normals))
	for i := 0; i < len(normals); i += 3 {
		l := math.Sqrt(normals[i]*normals[i] + normals[i+1]*normals[i+1] + normals[i+2]*normals[i+2])
		if l > 1e-12 {
			out[i] = float32(normals[i] / l)
			out[i+1] = float32(normals[i+1] / l)
			out[i+2] = float32(normals[i+2] / l)
		}
	}
	return out
}
