package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Dedup removes consecutive points closer than eps, and a trailing point
// that duplicates the first (the wrap point of a closed loop).
func Dedup(points []v3.Vec, eps float64) []v3.Vec {
	if len(points) == 0 {
		return nil
	}
	out := make([]v3.Vec, 0, len(points))
	out = append(out, points[0])
	for _, p := range points[1:] {
		if p.Sub(out[len(out)-1]).Length() > eps {
			out = append(out, p)
		}
	}
	if len(out) > 1 && out[len(out)-1].Sub(out[0]).Length() <= eps {
		out = out[:len(out)-1]
	}
	return out
}

// Reverse reverses the polyline in place.
func Reverse(points []v3.Vec) {
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
}

// IsClosed reports whether the polyline ends where it starts.
func IsClosed(points []v3.Vec, eps float64) bool {
	if len(points) < 3 {
		return false
	}
	return points[len(points)-1].Sub(points[0]).Length() <= eps
}

// NetDirection returns the normalized sum of the consecutive deltas, the
// dominant progression direction of the polyline. ok is false when the
// polyline has no net progression (closed, or a single point).
func NetDirection(points []v3.Vec) (v3.Vec, bool) {
	var sum v3.Vec
	for i := 1; i < len(points); i++ {
		sum = sum.Add(points[i].Sub(points[i-1]))
	}
	if sum.Length() < 1e-12 {
		return v3.Vec{}, false
	}
	return sum.Normalize(), true
}

// InsertMidpoints returns the polyline with one extra point between every
// pair of consecutive vertices. Closed loops also get a midpoint between the
// last and first vertices. The original vertices are preserved in order.
func InsertMidpoints(points []v3.Vec, closed bool) []v3.Vec {
	if len(points) < 2 {
		return points
	}
	out := make([]v3.Vec, 0, len(points)*2)
	for i := 0; i < len(points); i++ {
		out = append(out, points[i])
		j := i + 1
		if j == len(points) {
			if !closed {
				break
			}
			j = 0
		}
		out = append(out, Lerp(points[i], points[j], 0.5))
	}
	return out
}

// ArcLength returns the total length of the polyline, including the closing
// segment when closed.
func ArcLength(points []v3.Vec, closed bool) float64 {
	var sum float64
	for i := 1; i < len(points); i++ {
		sum += points[i].Sub(points[i-1]).Length()
	}
	if closed && len(points) > 2 {
		sum += points[0].Sub(points[len(points)-1]).Length()
	}
	return sum
}

// BoundsDiagonal returns the length of the axis-aligned bounding box diagonal
// of the points. Zero when the polyline is empty.
func BoundsDiagonal(points []v3.Vec) float64 {
	if len(points) == 0 {
		return 0
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return max.Sub(min).Length()
}
