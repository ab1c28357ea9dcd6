package solid

// FixTriangleWindingsByAdjacency makes triangle windings consistent across
// the whole solid by propagating orientation over shared edges, then flips
// everything if the enclosed signed volume comes out negative. Works per
// connected component; open shells keep their propagated orientation.
func (s *Solid) FixTriangleWindingsByAdjacency() {
	type triRef struct {
		label string
		idx   int
	}
	var refs []triRef
	for _, label := range s.order {
		fd := s.faces[label]
		for i := range fd.tris {
			refs = append(refs, triRef{label: label, idx: i})
		}
	}
	if len(refs) == 0 {
		return
	}

	// Weld vertices so adjacency survives float noise.
	eps := s.epsilon
	if eps <= 0 {
		eps = defaultEpsilon
	}
	type cell struct{ x, y, z int64 }
	vertexID := make(map[cell]int)
	weld := func(t Triangle, c int) int {
		key := cell{
			x: int64(t[c].X/eps + 0.5),
			y: int64(t[c].Y/eps + 0.5),
			z: int64(t[c].Z/eps + 0.5),
		}
		id, ok := vertexID[key]
		if !ok {
			id = len(vertexID)
			vertexID[key] = id
		}
		return id
	}
	ids := make([][3]int, len(refs))
	for i, r := range refs {
		t := s.faces[r.label].tris[r.idx]
		ids[i] = [3]int{weld(t, 0), weld(t, 1), weld(t, 2)}
	}

	// Undirected edge -> incident triangles.
	type edgeKey struct{ lo, hi int }
	adjacency := make(map[edgeKey][]int)
	for i, tri := range ids {
		for c := 0; c < 3; c++ {
			a, b := tri[c], tri[(c+1)%3]
			if a == b {
				continue
			}
			k := edgeKey{lo: a, hi: b}
			if a > b {
				k = edgeKey{lo: b, hi: a}
			}
			adjacency[k] = append(adjacency[k], i)
		}
	}

	// directed reports whether triangle i traverses a->b in its winding.
	directed := func(i, a, b int, flipped bool) bool {
		tri := ids[i]
		for c := 0; c < 3; c++ {
			u, v := tri[c], tri[(c+1)%3]
			if flipped {
				u, v = v, u
			}
			if u == a && v == b {
				return true
			}
		}
		return false
	}

	flipped := make([]bool, len(refs))
	visited := make([]bool, len(refs))
	for seed := range refs {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		queue := []int{seed}
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			tri := ids[i]
			for c := 0; c < 3; c++ {
				a, b := tri[c], tri[(c+1)%3]
				if a == b {
					continue
				}
				k := edgeKey{lo: a, hi: b}
				if a > b {
					k = edgeKey{lo: b, hi: a}
				}
				for _, j := range adjacency[k] {
					if j == i || visited[j] {
						continue
					}
					// Consistent neighbors traverse the shared edge in
					// opposite directions.
					same := directed(i, a, b, flipped[i]) == directed(j, a, b, false)
					flipped[j] = same
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
	}

	for i, r := range refs {
		if flipped[i] {
			fd := s.faces[r.label]
			fd.tris[r.idx] = fd.tris[r.idx].Flip()
			fd.index = nil
		}
	}

	// Orient outward: the divergence-theorem volume of a closed mesh with
	// outward windings is positive.
	var volume float64
	for _, label := range s.order {
		for _, t := range s.faces[label].tris {
			volume += t[0].Dot(t[1].Cross(t[2])) / 6
		}
	}
	if volume < 0 {
		for _, label := range s.order {
			fd := s.faces[label]
			for i := range fd.tris {
				fd.tris[i] = fd.tris[i].Flip()
			}
			fd.index = nil
		}
	}
}
