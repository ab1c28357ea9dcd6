package blend

import "go.uber.org/zap"

// SideMode selects which side of the dihedral the blend is built on.
type SideMode int

const (
	// SideInset removes material: the fillet or chamfer cuts into the
	// solid. This is the common case for convex edges.
	SideInset SideMode = iota
	// SideOutset adds material, filling a concave edge.
	SideOutset
)

func (m SideMode) String() string {
	switch m {
	case SideInset:
		return "inset"
	case SideOutset:
		return "outset"
	default:
		return "unknown"
	}
}

// DefaultResolution is the ring segment count for tube construction.
const DefaultResolution = 24

// Config carries the per-call options of the blend entry points. The zero
// value is usable: inset side, default resolution, no inflation, no logging.
type Config struct {
	Side SideMode
	// Resolution is the radial segment count for the fillet tube.
	Resolution int
	// Inflate oversizes the chamfer tool slightly before boolean
	// combination so coincident-vertex failures are avoided.
	Inflate float64
	// ForceSlowTube skips the fast ring-extrusion tube path and always
	// builds the tube from chained capsules.
	ForceSlowTube bool
	// Log receives per-stage diagnostics. Nil disables logging.
	Log *zap.SugaredLogger
}

func (c Config) resolution() int {
	if c.Resolution < 3 {
		return DefaultResolution
	}
	return c.Resolution
}

func (c Config) logger() *zap.SugaredLogger {
	if c.Log == nil {
		return zap.NewNop().Sugar()
	}
	return c.Log
}
