package solid

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Translate returns a copy of the solid moved by d.
func (s *Solid) Translate(d v3.Vec) *Solid {
	out := s.Clone()
	for _, fd := range out.faces {
		for i := range fd.tris {
			for c := 0; c < 3; c++ {
				fd.tris[i][c] = fd.tris[i][c].Add(d)
			}
		}
		fd.index = nil
	}
	return out
}

// Scale returns a copy of the solid scaled about the origin.
func (s *Solid) Scale(k float64) *Solid {
	out := s.Clone()
	for _, fd := range out.faces {
		for i := range fd.tris {
			for c := 0; c < 3; c++ {
				fd.tris[i][c] = fd.tris[i][c].MulScalar(k)
			}
		}
		fd.index = nil
	}
	return out
}
