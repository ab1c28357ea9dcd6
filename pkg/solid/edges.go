package solid

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SharedEdge extracts the polyline where two named faces meet: the chain of
// triangle edges used by both faces. Returns the ordered points and whether
// the chain closes into a loop (closed loops do not repeat the first point).
// When the faces meet along several disjoint chains, the longest is
// returned.
func (s *Solid) SharedEdge(faceA, faceB string) (points []v3.Vec, closed bool, err error) {
	fa, ok := s.faces[faceA]
	if !ok {
		return nil, false, fmt.Errorf("solid: no face %q", faceA)
	}
	fb, ok := s.faces[faceB]
	if !ok {
		return nil, false, fmt.Errorf("solid: no face %q", faceB)
	}

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
	edgesOf := func(fd *faceData) map[edgeKey]bool {
		out := make(map[edgeKey]bool)
		for _, t := range fd.tris {
			ids := [3]int{weld(t[0]), weld(t[1]), weld(t[2])}
			for c := 0; c < 3; c++ {
				a, b := ids[c], ids[(c+1)%3]
				if a == b {
					continue
				}
				if a > b {
					a, b = b, a
				}
				out[edgeKey{lo: a, hi: b}] = true
			}
		}
		return out
	}

	ea := edgesOf(fa)
	eb := edgesOf(fb)
	neighbors := make(map[int][]int)
	var sharedCount int
	for k := range ea {
		if !eb[k] {
			continue
		}
		sharedCount++
		neighbors[k.lo] = append(neighbors[k.lo], k.hi)
		neighbors[k.hi] = append(neighbors[k.hi], k.lo)
	}
	if sharedCount == 0 {
		return nil, false, fmt.Errorf("solid: faces %q and %q share no edge", faceA, faceB)
	}

	// Walk chains. Prefer starting at endpoints (degree 1); a pure loop has
	// none, so fall back to any vertex.
	visited := make(map[[2]int]bool)
	edgeSeen := func(a, b int) bool {
		if a > b {
			a, b = b, a
		}
		return visited[[2]int{a, b}]
	}
	markEdge := func(a, b int) {
		if a > b {
			a, b = b, a
		}
		visited[[2]int{a, b}] = true
	}
	walk := func(start int) []int {
		chain := []int{start}
		cur := start
		for {
			advanced := false
			for _, nb := range neighbors[cur] {
				if edgeSeen(cur, nb) {
					continue
				}
				markEdge(cur, nb)
				chain = append(chain, nb)
				cur = nb
				advanced = true
				break
			}
			if !advanced {
				return chain
			}
		}
	}

	var bestChain []int
	var starts []int
	for v, nbs := range neighbors {
		if len(nbs) == 1 {
			starts = append(starts, v)
		}
	}
	if len(starts) == 0 {
		for v := range neighbors {
			starts = append(starts, v)
		}
	}
	for _, start := range starts {
		chain := walk(start)
		if len(chain) > len(bestChain) {
			bestChain = chain
		}
	}
	if len(bestChain) < 2 {
		return nil, false, fmt.Errorf("solid: shared edge between %q and %q is degenerate", faceA, faceB)
	}

	closed = len(bestChain) > 3 && bestChain[0] == bestChain[len(bestChain)-1]
	if closed {
		bestChain = bestChain[:len(bestChain)-1]
	}
	points = make([]v3.Vec, len(bestChain))
	for i, id := range bestChain {
		points[i] = positions[id]
	}
	return points, closed, nil
}
