package engine

import (
	"github.com/chazu/filigree/pkg/solid"
)

// Scene is the output of one evaluation: named solids in definition order.
type Scene struct {
	order  []string
	solids map[string]*solid.Solid
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{solids: make(map[string]*solid.Solid)}
}

// Add registers a solid under name. Redefining a name replaces the solid
// but keeps its original position in the order.
func (s *Scene) Add(name string, sol *solid.Solid) {
	if _, ok := s.solids[name]; !ok {
		s.order = append(s.order, name)
	}
	s.solids[name] = sol
}

// Get returns the named solid, or nil.
func (s *Scene) Get(name string) *solid.Solid {
	return s.solids[name]
}

// Names returns defined solid names in definition order.
func (s *Scene) Names() []string {
	return append([]string{}, s.order...)
}

// Len reports the number of defined solids.
func (s *Scene) Len() int {
	return len(s.order)
}
