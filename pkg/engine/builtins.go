package engine

import (
	"fmt"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/filigree/pkg/blend"
	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/solid"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Filigree Lisp source code before passing it
// to zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: face-a -> face_a
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when the hyphen sits between identifier characters (not a
		// minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpSolid wraps a *solid.Solid so it can flow between builtins.
type sexpSolid struct {
	sol  *solid.Solid
	name string // definition name, if any, for error messages
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	if s.name != "" {
		return fmt.Sprintf("(solid %q %d tris)", s.name, s.sol.TriangleCount())
	}
	return fmt.Sprintf("(solid %d tris)", s.sol.TriangleCount())
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a v3.Vec.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument
// list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_inset) and plain strings
// ("inset").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toSide converts a keyword or string to a blend.SideMode.
func toSide(s zygo.Sexp) (blend.SideMode, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected side keyword (:inset, :outset): %w", err)
	}
	switch name {
	case "inset":
		return blend.SideInset, nil
	case "outset":
		return blend.SideOutset, nil
	}
	return 0, fmt.Errorf("invalid side %q, expected inset or outset", name)
}

// toSolid extracts the wrapped solid from a sexpSolid.
func toSolid(s zygo.Sexp) (*solid.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.sol, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// blendConfig assembles a blend.Config from the common keyword arguments
// shared by the fillet and chamfer builtins.
func blendConfig(pa kwArgs) (blend.Config, error) {
	var cfg blend.Config
	if v, ok := pa.kw["side"]; ok {
		side, err := toSide(v)
		if err != nil {
			return cfg, err
		}
		cfg.Side = side
	}
	if v, ok := pa.kw["resolution"]; ok {
		n, err := toInt(v)
		if err != nil {
			return cfg, fmt.Errorf("resolution: %w", err)
		}
		cfg.Resolution = n
	}
	if v, ok := pa.kw["inflate"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return cfg, fmt.Errorf("inflate: %w", err)
		}
		cfg.Inflate = f
	}
	if v, ok := pa.kw["slow"]; ok {
		cfg.ForceSlowTube = v != zygo.SexpNull
		if bv, isBool := v.(*zygo.SexpBool); isBool {
			cfg.ForceSlowTube = bv.Val
		}
	}
	return cfg, nil
}

// edgeForArgs resolves the :face-a/:face-b keywords into a shared edge on
// the model.
func edgeForArgs(model *solid.Solid, pa kwArgs, op string) (*blend.Edge, error) {
	fa, ok := pa.kw["face-a"]
	if !ok {
		return nil, fmt.Errorf("%s: missing :face-a", op)
	}
	fb, ok := pa.kw["face-b"]
	if !ok {
		return nil, fmt.Errorf("%s: missing :face-b", op)
	}
	labelA, err := toString(fa)
	if err != nil {
		return nil, fmt.Errorf("%s: face-a: %w", op, err)
	}
	labelB, err := toString(fb)
	if err != nil {
		return nil, fmt.Errorf("%s: face-b: %w", op, err)
	}
	edge, err := blend.EdgeBetween(model, labelA, labelB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return edge, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the Filigree DSL builtins into a zygomys
// environment. The builtins populate the provided Scene during evaluation
// and run booleans on the provided kernel.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable string
// literals.
func registerBuiltins(env *zygo.Zlisp, scene *Scene, k kernel.Kernel) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: v3.Vec{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (box 40 20 10)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("box requires 3 dimensions, got %d", len(args))
		}
		dims := [3]float64{}
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("box: dimension %d must be positive, got %g", i, f)
			}
			dims[i] = f
		}
		return &sexpSolid{sol: solid.Box(dims[0], dims[1], dims[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 30 :radius 8 :segments 48)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		height, radius := 1.0, 1.0
		segments := 32

		if v, ok := pa.kw["height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: height: %w", err)
			}
			height = f
		}
		if v, ok := pa.kw["radius"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: radius: %w", err)
			}
			radius = f
		}
		if v, ok := pa.kw["segments"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
			}
			segments = n
		}
		if height <= 0 || radius <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height and radius must be positive")
		}
		return &sexpSolid{sol: solid.Cylinder(height, radius, segments)}, nil
	})

	// -----------------------------------------------------------------------
	// (translate shape (vec3 0 0 19))
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a solid and a vec3")
		}
		sol, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		d, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		return &sexpSolid{sol: sol.Translate(d)}, nil
	})

	// -----------------------------------------------------------------------
	// (scale shape 2.5)
	// -----------------------------------------------------------------------
	env.AddFunction("scale", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("scale requires a solid and a factor")
		}
		sol, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		f, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scale: %w", err)
		}
		if f <= 0 {
			return zygo.SexpNull, fmt.Errorf("scale: factor %g must be positive", f)
		}
		return &sexpSolid{sol: sol.Scale(f)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b c ...) / (subtract a b) / (intersect a b)
	// -----------------------------------------------------------------------
	env.AddFunction("union", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("union requires at least 2 solids")
		}
		acc, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("union: %w", err)
		}
		for i := 1; i < len(args); i++ {
			next, err := toSolid(args[i])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: argument %d: %w", i, err)
			}
			acc, err = acc.Union(next, k)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("union: %w", err)
			}
		}
		return &sexpSolid{sol: acc}, nil
	})

	env.AddFunction("subtract", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("subtract requires exactly 2 solids")
		}
		a, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		b, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		out, err := a.Subtract(b, k)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		return &sexpSolid{sol: out}, nil
	})

	env.AddFunction("intersect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("intersect requires exactly 2 solids")
		}
		a, err := toSolid(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		b, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		out, err := a.Intersect(b, k)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("intersect: %w", err)
		}
		return &sexpSolid{sol: out}, nil
	})

	// -----------------------------------------------------------------------
	// (fillet shape :face-a "top" :face-b "front" :radius 2
	//         :side :inset :resolution 32 :inner 0.5 :inflate 0.01 :slow true)
	// -----------------------------------------------------------------------
	env.AddFunction("fillet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("fillet requires a solid as first argument")
		}
		model, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fillet: %w", err)
		}

		radiusArg, ok := pa.kw["radius"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("fillet: missing :radius")
		}
		radius, err := toFloat64(radiusArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fillet: radius: %w", err)
		}

		inner := 0.0
		if v, ok := pa.kw["inner"]; ok {
			inner, err = toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fillet: inner: %w", err)
			}
		}

		cfg, err := blendConfig(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fillet: %w", err)
		}

		edge, err := edgeForArgs(model, pa, "fillet")
		if err != nil {
			return zygo.SexpNull, err
		}

		res := blend.FilletSolid(blend.FilletRequest{
			Model:       model,
			Kernel:      k,
			Edge:        edge,
			Radius:      radius,
			InnerRadius: inner,
			Config:      cfg,
		})
		if res.Final == nil {
			if res.RadiusClamp > 0 {
				return zygo.SexpNull, fmt.Errorf("fillet: %v (try radius <= %g)", res.Err, res.RadiusClamp)
			}
			return zygo.SexpNull, fmt.Errorf("fillet: %v", res.Err)
		}
		return &sexpSolid{sol: res.Final}, nil
	})

	// -----------------------------------------------------------------------
	// (chamfer shape :face-a "top" :face-b "front" :distance 2
	//          :side :inset :base "C1")
	// -----------------------------------------------------------------------
	env.AddFunction("chamfer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("chamfer requires a solid as first argument")
		}
		model, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("chamfer: %w", err)
		}

		distArg, ok := pa.kw["distance"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("chamfer: missing :distance")
		}
		distance, err := toFloat64(distArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("chamfer: distance: %w", err)
		}

		base := ""
		if v, ok := pa.kw["base"]; ok {
			base, err = toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("chamfer: base: %w", err)
			}
		}

		cfg, err := blendConfig(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("chamfer: %w", err)
		}

		edge, err := edgeForArgs(model, pa, "chamfer")
		if err != nil {
			return zygo.SexpNull, err
		}

		res := blend.ChamferSolid(blend.ChamferRequest{
			Model:    model,
			Kernel:   k,
			Edge:     edge,
			Distance: distance,
			Base:     base,
			Config:   cfg,
		})
		if res.Final == nil {
			return zygo.SexpNull, fmt.Errorf("chamfer: %v", res.Err)
		}
		return &sexpSolid{sol: res.Final}, nil
	})

	// -----------------------------------------------------------------------
	// (defsolid "name" shape)
	// -----------------------------------------------------------------------
	env.AddFunction("defsolid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("defsolid requires a name and a solid expression")
		}
		solName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: name: %w", err)
		}
		sol, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defsolid: %w", err)
		}
		scene.Add(solName, sol)
		return &sexpSolid{sol: sol, name: solName}, nil
	})

	// -----------------------------------------------------------------------
	// (solid "name")
	// -----------------------------------------------------------------------
	env.AddFunction("solid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("solid requires a name argument")
		}
		solName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("solid: name: %w", err)
		}
		sol := scene.Get(solName)
		if sol == nil {
			return zygo.SexpNull, fmt.Errorf("solid: no solid named %q", solName)
		}
		return &sexpSolid{sol: sol, name: solName}, nil
	})
}
