package blend

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/chazu/filigree/pkg/geom"
)

// Orientation correction: independently solved samples can disagree on
// progression direction, leaving the centerline and its companion curves
// mismatched per index. Correction only ever reverses whole arrays in
// lockstep with each other, never reorders individual indices.

// orientCenterline makes the centerline and both tangency curves agree on
// index correspondence and progression direction. With a known radius the
// eight whole-array reversal combinations are scored against the tangency
// distance invariant; without one a direction-alignment heuristic is used.
// The correction is idempotent: a consistent triple scores best as-is.
func orientCenterline(c *Centerline, radius float64) {
	n := len(c.Points)
	if n < 2 || len(c.TangentA) != n || len(c.TangentB) != n {
		return
	}
	if radius > 0 {
		orientByRadius(c, radius)
		return
	}
	orientByDirection(c.Points, c.TangentA, c.TangentB, c.Edge)
}

// orientByRadius searches the 8 {reverse centerline, reverse A, reverse B}
// combinations and applies the one minimizing the summed deviation of the
// center-to-tangency distances from the radius at a few representative
// cross-sections. The identity combination wins ties, which makes the
// search idempotent.
func orientByRadius(c *Centerline, radius float64) {
	n := len(c.Points)
	probes := []int{n / 4, n / 2, (3 * n) / 4}

	at := func(arr []v3.Vec, i int, reversed bool) v3.Vec {
		if reversed {
			return arr[len(arr)-1-i]
		}
		return arr[i]
	}

	bestScore := math.MaxFloat64
	var bestCombo int
	for combo := 0; combo < 8; combo++ {
		revC := combo&1 != 0
		revA := combo&2 != 0
		revB := combo&4 != 0
		var score float64
		for _, i := range probes {
			center := at(c.Points, i, revC)
			score += math.Abs(at(c.TangentA, i, revA).Sub(center).Length() - radius)
			score += math.Abs(at(c.TangentB, i, revB).Sub(center).Length() - radius)
		}
		if score < bestScore {
			bestScore = score
			bestCombo = combo
		}
	}

	if bestCombo&1 != 0 {
		geom.Reverse(c.Points)
		geom.Reverse(c.Edge)
	}
	if bestCombo&2 != 0 {
		geom.Reverse(c.TangentA)
	}
	if bestCombo&4 != 0 {
		geom.Reverse(c.TangentB)
	}
}

// orientByDirection aligns the companion curves with the primary curve's
// net progression direction. If both companions would need flipping, the
// primary is flipped instead, minimizing total reversals. A secondary
// cross-product-sign vote over sampled index triples refines ambiguous
// cases by reversing the whole group when the local frames are majority
// left-handed.
func orientByDirection(primary, compA, compB []v3.Vec, withPrimary ...[]v3.Vec) {
	reversePrimary := func() {
		geom.Reverse(primary)
		for _, arr := range withPrimary {
			geom.Reverse(arr)
		}
	}
	dirP, okP := geom.NetDirection(primary)
	dirA, okA := geom.NetDirection(compA)
	dirB, okB := geom.NetDirection(compB)
	if okP && okA && okB {
		flipA := dirP.Dot(dirA) < 0
		flipB := dirP.Dot(dirB) < 0
		switch {
		case flipA && flipB:
			reversePrimary()
		case flipA:
			geom.Reverse(compA)
		case flipB:
			geom.Reverse(compB)
		}
	}

	// Secondary vote: at sampled triples the A->B cross product should
	// agree with the progression direction; a majority disagreement means
	// the whole group runs backwards.
	n := len(primary)
	if n < 3 {
		return
	}
	votes := 0
	for _, i := range []int{n / 4, n / 2, (3 * n) / 4} {
		if i+1 >= n {
			continue
		}
		da := compA[i].Sub(primary[i])
		db := compB[i].Sub(primary[i])
		step := primary[i+1].Sub(primary[i])
		if da.Cross(db).Dot(step) < 0 {
			votes--
		} else {
			votes++
		}
	}
	if votes < 0 {
		reversePrimary()
		geom.Reverse(compA)
		geom.Reverse(compB)
	}
}
