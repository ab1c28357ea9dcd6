package main

import (
	"context"
	"log"

	"github.com/chazu/filigree/pkg/engine"
	"github.com/chazu/filigree/pkg/kernel"
	"github.com/chazu/filigree/pkg/kernel/manifold"
	"github.com/chazu/filigree/pkg/solid"
)

// colorPalette assigns distinct colors to solids in definition order.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via
// bindings.
type App struct {
	ctx     context.Context
	engine  *engine.Engine
	kernel  kernel.Kernel
	initErr error
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes []*solid.RenderMesh `json:"meshes"`
	Errors []EvalErrorData     `json:"errors"`
}

// NewApp creates the App with the boolean kernel and an engine bound to
// it. A missing kernel is reported per-evaluation rather than aborting
// startup, so the editor still loads and shows the reason.
func NewApp() *App {
	a := &App{}
	k, err := manifold.New()
	if err != nil {
		a.initErr = err
		return a
	}
	a.kernel = k
	a.engine = engine.NewEngine(k)
	return a
}

// startup is called by Wails on app startup. The context is saved so we
// can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes Lisp source and returns render meshes + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes: []*solid.RenderMesh{},
		Errors: []EvalErrorData{},
	}

	if a.initErr != nil {
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "kernel unavailable: " + a.initErr.Error(),
		})
		return result
	}

	scene, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: err.Error(),
		})
		return result
	}

	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	for i, name := range scene.Names() {
		sol := scene.Get(name)
		if sol == nil {
			continue
		}
		rm := sol.Visualize()
		rm.Name = name
		rm.Color = colorPalette[i%len(colorPalette)]
		result.Meshes = append(result.Meshes, rm)
	}

	return result
}
