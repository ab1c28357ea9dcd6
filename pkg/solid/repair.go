package solid

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// Clone returns a deep copy of the solid.
func (s *Solid) Clone() *Solid {
	out := New()
	out.epsilon = s.epsilon
	for _, label := range s.order {
		fd := s.faces[label]
		nd := &faceData{
			tris: append([]Triangle{}, fd.tris...),
			meta: fd.meta,
		}
		out.faces[label] = nd
		out.order = append(out.order, label)
	}
	return out
}

// Repair returns a mesh-repaired copy of the solid: vertices welded at
// weldEps, degenerate triangles dropped, boundary gaps patched with fan
// triangles, and windings renormalized. The original is left untouched.
// Patch triangles inherit the dominant face label of the gap's boundary,
// with a synthetic label when no boundary label exists.
func (s *Solid) Repair(weldEps float64) *Solid {
	out := s.Clone()
	out.SetEpsilon(weldEps)
	out.patchGaps()
	out.FixTriangleWindingsByAdjacency()
	return out
}

// boundaryEdge is one directed edge that only a single triangle uses.
type boundaryEdge struct {
	from, to int
	label    string
}

// patchGaps finds open boundary loops and closes each with a centroid fan.
func (s *Solid) patchGaps() {
	eps := s.epsilon
	if eps <= 0 {
		eps = defaultEpsilon
	}
	type cell struct{ x, y, z int64 }
	vertexID := make(map[cell]int)
	var positions []v3.Vec
	weld := func(p v3.Vec) int {
		key := cell{
			x: int64(p.X/eps + 0.5),
			y: int64(p.Y/eps + 0.5),
			z: int64(p.Z/eps + 0.5),
		}
		id, ok := vertexID[key]
		if !ok {
			id = len(positions)
			vertexID[key] = id
			positions = append(positions, p)
		}
		return id
	}

	type edgeKey struct{ lo, hi int }
	type edgeUse struct {
		count int
		from  int
		to    int
		label string
	}
	uses := make(map[edgeKey]*edgeUse)
	for _, label := range s.order {
		for _, t := range s.faces[label].tris {
			ids := [3]int{weld(t[0]), weld(t[1]), weld(t[2])}
			for c := 0; c < 3; c++ {
				a, b := ids[c], ids[(c+1)%3]
				if a == b {
					continue
				}
				k := edgeKey{lo: a, hi: b}
				if a > b {
					k = edgeKey{lo: b, hi: a}
				}
				u, ok := uses[k]
				if !ok {
					u = &edgeUse{from: a, to: b, label: label}
					uses[k] = u
				}
				u.count++
			}
		}
	}

	// Boundary edges are used exactly once. Chain them into loops by
	// walking from each edge's end to the next edge starting there.
	next := make(map[int]boundaryEdge)
	for _, u := range uses {
		if u.count != 1 {
			continue
		}
		next[u.from] = boundaryEdge{from: u.from, to: u.to, label: u.label}
	}

	for len(next) > 0 {
		var start int
		for k := range next {
			start = k
			break
		}
		var loop []boundaryEdge
		cur := start
		for {
			e, ok := next[cur]
			if !ok {
				break
			}
			delete(next, cur)
			loop = append(loop, e)
			cur = e.to
			if cur == start {
				break
			}
		}
		if len(loop) < 3 || loop[len(loop)-1].to != start {
			// Open chain, not a closable hole. Leave it to the caller's
			// escalating weld tolerance to merge the stray vertices.
			continue
		}
		s.fillLoop(loop, positions)
	}
}

// fillLoop closes one boundary loop with a fan around its centroid.
func (s *Solid) fillLoop(loop []boundaryEdge, positions []v3.Vec) {
	var centroid v3.Vec
	counts := make(map[string]int)
	for _, e := range loop {
		centroid = centroid.Add(positions[e.from])
		counts[e.label]++
	}
	centroid = centroid.DivScalar(float64(len(loop)))

	label := ""
	best := 0
	for l, n := range counts {
		if n > best {
			best = n
			label = l
		}
	}
	if label == "" {
		label = "PATCH_" + uuid.NewString()
	}

	for _, e := range loop {
		// Reverse of the boundary direction so the patch opposes the open
		// half-edge; the adjacency pass settles the global orientation.
		s.AddTriangle(label, positions[e.to], positions[e.from], centroid)
	}
}
