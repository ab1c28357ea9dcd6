package blend

import (
	"errors"

	"github.com/chazu/filigree/pkg/kernel"
)

// Fake kernels for pipeline tests. A real boolean backend is too heavy to
// stand up here; these exercise the pipeline's control flow while keeping
// the geometry inspectable.

func copyMesh(m *kernel.Mesh) *kernel.Mesh {
	return kernel.Concatenate(m, &kernel.Mesh{})
}

// firstOperandKernel returns the first operand unchanged for every
// operation. Self-unions come back the same size, so the fast tube path
// accepts its sweep.
type firstOperandKernel struct{}

func (firstOperandKernel) Union(a, b *kernel.Mesh) (*kernel.Mesh, error)     { return copyMesh(a), nil }
func (firstOperandKernel) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error)  { return copyMesh(a), nil }
func (firstOperandKernel) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) { return copyMesh(a), nil }

// concatKernel unions by raw concatenation. Self-unions double, which makes
// the fast tube path reject itself and fall back to the capsule chain.
type concatKernel struct{}

func (concatKernel) Union(a, b *kernel.Mesh) (*kernel.Mesh, error) {
	return kernel.Concatenate(a, b), nil
}
func (concatKernel) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error)  { return copyMesh(a), nil }
func (concatKernel) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) { return copyMesh(a), nil }

var errKernelRefused = errors.New("kernel refused")

// failNKernel errors on the first n operations, then behaves like
// firstOperandKernel.
type failNKernel struct {
	n     int
	calls int
}

func (k *failNKernel) op(a *kernel.Mesh) (*kernel.Mesh, error) {
	k.calls++
	if k.calls <= k.n {
		return nil, errKernelRefused
	}
	return copyMesh(a), nil
}

func (k *failNKernel) Union(a, b *kernel.Mesh) (*kernel.Mesh, error)     { return k.op(a) }
func (k *failNKernel) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error)  { return k.op(a) }
func (k *failNKernel) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) { return k.op(a) }

// brokenKernel always errors.
type brokenKernel struct{}

func (brokenKernel) Union(a, b *kernel.Mesh) (*kernel.Mesh, error)     { return nil, errKernelRefused }
func (brokenKernel) Subtract(a, b *kernel.Mesh) (*kernel.Mesh, error)  { return nil, errKernelRefused }
func (brokenKernel) Intersect(a, b *kernel.Mesh) (*kernel.Mesh, error) { return nil, errKernelRefused }
