// Package kernel defines the abstract boolean CSG kernel interface.
// Implementations (manifold) provide exact mesh boolean operations behind
// this interface. The kernel abstraction allows swapping backends without
// changing the rest of the system.
package kernel

// Kernel is the abstract boolean kernel interface. Operations consume two
// merged meshes and return one, propagating each output triangle's
// originating face-label id. Face-id domains of the two operands are assumed
// disjoint; use OffsetFaceIDs before combining meshes whose ids collide.
type Kernel interface {
	Union(a, b *Mesh) (*Mesh, error)
	Subtract(a, b *Mesh) (*Mesh, error)
	Intersect(a, b *Mesh) (*Mesh, error)
}
