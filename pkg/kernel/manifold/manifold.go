//go:build manifold

// Package manifold provides a CGo-based boolean kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold provides
// guaranteed-manifold mesh boolean operations.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/filigree/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel implements kernel.Kernel using the Manifold C library. Manifold
// does not carry our face-label ids through its booleans, so labels are
// reassigned on the output by centroid/normal matching against the operands.
type Kernel struct{}

// New creates a new manifold-backed kernel.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

// solid wraps a C ManifoldManifold pointer with a finalizer so the C-side
// allocation is released when the Go wrapper is collected.
type solid struct {
	ptr *C.ManifoldManifold
}

func newSolid(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

// fromMesh builds a Manifold solid from a kernel mesh. The mesh must have
// been merged; Manifold rejects triangle soups with unreferenced duplicate
// vertices.
func fromMesh(m *kernel.Mesh) (*solid, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.IsEmpty() {
		return nil, fmt.Errorf("manifold: empty operand mesh")
	}

	numVert := m.VertexCount()
	numTri := m.TriangleCount()

	props := make([]C.float, numVert*3)
	for i, v := range m.Positions {
		props[i] = C.float(v)
	}
	tris := make([]C.uint32_t, numTri*3)
	for i, idx := range m.Indices {
		tris[i] = C.uint32_t(idx)
	}

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_meshgl(meshAlloc,
		(*C.float)(unsafe.Pointer(&props[0])), C.size_t(numVert), C.size_t(3),
		(*C.uint32_t)(unsafe.Pointer(&tris[0])), C.size_t(numTri),
	)
	defer C.manifold_delete_meshgl(meshGL)

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_of_meshgl(alloc, meshGL)
	s := newSolid(ptr)
	if C.manifold_is_empty(s.ptr) == 1 {
		return nil, fmt.Errorf("manifold: operand is not a valid manifold mesh (%d verts, %d tris)", numVert, numTri)
	}
	return s, nil
}

// toMesh extracts a kernel mesh from a Manifold solid. FaceIDs are left
// empty; the caller reassigns them from the operands.
func toMesh(s *solid) (*kernel.Mesh, error) {
	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, s.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	propData := make([]C.float, numVert*numProp)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)
	indexData := make([]C.uint32_t, numTri*3)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indexData[0])),
		meshGL,
	)

	out := &kernel.Mesh{
		Positions: make([]float64, numVert*3),
		Indices:   make([]uint32, numTri*3),
	}
	for i := 0; i < numVert; i++ {
		base := i * numProp
		out.Positions[i*3+0] = float64(propData[base+0])
		out.Positions[i*3+1] = float64(propData[base+1])
		out.Positions[i*3+2] = float64(propData[base+2])
	}
	for i, idx := range indexData {
		out.Indices[i] = uint32(idx)
	}
	return out, nil
}

func (k *Kernel) combine(a, b *kernel.Mesh, op string) (*kernel.Mesh, error) {
	sa, err := fromMesh(a)
	if err != nil {
		return nil, fmt.Errorf("manifold %s: operand a: %w", op, err)
	}
	sb, err := fromMesh(b)
	if err != nil {
		return nil, fmt.Errorf("manifold %s: operand b: %w", op, err)
	}

	alloc := C.manifold_alloc_manifold()
	var ptr *C.ManifoldManifold
	switch op {
	case "union":
		ptr = C.manifold_union(alloc, sa.ptr, sb.ptr)
	case "subtract":
		ptr = C.manifold_difference(alloc, sa.ptr, sb.ptr)
	case "intersect":
		ptr = C.manifold_intersection(alloc, sa.ptr, sb.ptr)
	}
	result := newSolid(ptr)

	out, err := toMesh(result)
	if err != nil {
		return nil, fmt.Errorf("manifold %s: %w", op, err)
	}
	kernel.AssignFaceIDs(out, a, b)
	return out, nil
}

// Union returns the boolean union of two meshes.
func (k *Kernel) Union(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return k.combine(a, b, "union")
}

// Subtract returns the boolean difference (a minus b).
func (k *Kernel) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return k.combine(a, b, "subtract")
}

// Intersect returns the boolean intersection of two meshes.
func (k *Kernel) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return k.combine(a, b, "intersect")
}
