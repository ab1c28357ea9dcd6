package solid

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// bruteForceLimit is the triangle count below which projection queries skip
// the spatial index entirely.
const bruteForceLimit = 64

// nearestCandidates is how many index hits are refined with exact
// point-triangle distance. Bounding-box nearest-neighbor order is not exact
// distance order, so a few extra candidates are checked.
const nearestCandidates = 8

// triEntry adapts one triangle to the rtreego Spatial interface.
type triEntry struct {
	rect rtreego.Rect
	i    int
}

func (e *triEntry) Bounds() rtreego.Rect {
	return e.rect
}

// triIndex is an R-tree over triangle bounding boxes.
type triIndex struct {
	tree *rtreego.Rtree
}

func newTriIndex(tris []Triangle) *triIndex {
	tree := rtreego.NewTree(3, 8, 24)
	for i, t := range tris {
		min := t.Min()
		size := t.Max().Sub(min)
		// Degenerate-thin boxes break R-tree area math; pad them out.
		const pad = 1e-9
		rect, err := rtreego.NewRect(
			rtreego.Point{min.X - pad, min.Y - pad, min.Z - pad},
			[]float64{size.X + 2*pad, size.Y + 2*pad, size.Z + 2*pad},
		)
		if err != nil {
			continue
		}
		tree.Insert(&triEntry{rect: rect, i: i})
	}
	return &triIndex{tree: tree}
}

func (ix *triIndex) nearest(p v3.Vec, k int) []int {
	hits := ix.tree.NearestNeighbors(k, rtreego.Point{p.X, p.Y, p.Z})
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		if h == nil {
			continue
		}
		out = append(out, h.(*triEntry).i)
	}
	return out
}

// Face is a handle to one named triangle group of a Solid. The handle stays
// valid while the solid is alive but observes mutations; do not retain it
// across topology-changing calls.
type Face struct {
	label string
	data  *faceData
}

// Label returns the face's label.
func (f *Face) Label() string {
	return f.label
}

// Triangles returns the face's triangles. The slice is shared with the
// solid; callers must not mutate it.
func (f *Face) Triangles() []Triangle {
	return f.data.tris
}

// AverageNormal returns the area-weighted average outward normal of the
// face, or the zero vector for an empty or fully degenerate face.
func (f *Face) AverageNormal() v3.Vec {
	var sum v3.Vec
	for _, t := range f.data.tris {
		// Unnormalized cross product weights by twice the area.
		sum = sum.Add(t[1].Sub(t[0]).Cross(t[2].Sub(t[0])))
	}
	if sum.Length() < 1e-18 {
		return v3.Vec{}
	}
	return sum.Normalize()
}

func (f *Face) ensureIndex() *triIndex {
	if f.data.index == nil {
		f.data.index = newTriIndex(f.data.tris)
	}
	return f.data.index
}

// candidateTris returns the triangle indices worth testing exactly for a
// query near p.
func (f *Face) candidateTris(p v3.Vec) []int {
	n := len(f.data.tris)
	if n == 0 {
		return nil
	}
	if n <= bruteForceLimit {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return f.ensureIndex().nearest(p, nearestCandidates)
}

// Project returns the nearest point on the face's triangle set to p, and
// the index of the triangle it lies on. ok is false for an empty face.
func (f *Face) Project(p v3.Vec) (q v3.Vec, tri int, ok bool) {
	best := math.MaxFloat64
	tri = -1
	for _, i := range f.candidateTris(p) {
		c := f.data.tris[i].ClosestPoint(p)
		d := c.Sub(p).Length2()
		if d < best {
			best = d
			q = c
			tri = i
		}
	}
	return q, tri, tri >= 0
}

// LocalNormalAt estimates the face normal near p by inverse-distance
// weighting the normals of the nearby triangles. For curved faces this
// tracks the local surface orientation instead of the face average. ok is
// false when no usable normal could be estimated; callers fall back to
// AverageNormal.
func (f *Face) LocalNormalAt(p v3.Vec) (v3.Vec, bool) {
	var sum v3.Vec
	for _, i := range f.candidateTris(p) {
		t := f.data.tris[i]
		n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
		if n.Length() < 1e-18 {
			continue
		}
		d := t.ClosestPoint(p).Sub(p).Length()
		w := 1 / (d + 1e-9)
		sum = sum.Add(n.Normalize().MulScalar(w))
	}
	if sum.Length() < 1e-9 {
		return v3.Vec{}, false
	}
	return sum.Normalize(), true
}

// Extents returns the axis-aligned bounding box of the face's triangles.
func (f *Face) Extents() (min, max v3.Vec) {
	for i, t := range f.data.tris {
		if i == 0 {
			min, max = t.Min(), t.Max()
			continue
		}
		min = min.Min(t.Min())
		max = max.Max(t.Max())
	}
	return min, max
}

// ExitDistance returns the distance along dir from origin to the boundary of
// the face's bounding box, a cheap bound on how far geometry can slide along
// the face before falling off it. Returns +Inf when dir never exits (zero
// direction) and 0 when origin is already outside the box.
func (f *Face) ExitDistance(origin, dir v3.Vec) float64 {
	if len(f.data.tris) == 0 {
		return 0
	}
	min, max := f.Extents()
	tExit := math.MaxFloat64
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	lo := [3]float64{min.X, min.Y, min.Z}
	hi := [3]float64{max.X, max.Y, max.Z}
	for c := 0; c < 3; c++ {
		if math.Abs(d[c]) < 1e-15 {
			continue
		}
		t1 := (lo[c] - o[c]) / d[c]
		t2 := (hi[c] - o[c]) / d[c]
		far := math.Max(t1, t2)
		if far < tExit {
			tExit = far
		}
	}
	if tExit < 0 {
		return 0
	}
	return tExit
}
