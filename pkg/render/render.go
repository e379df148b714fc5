// Package render defines the rendering boundary of the pipeline.
//
// The pipeline never draws anything itself: it produces a [stack.Layout]
// and hands it to whatever Renderer the caller injects. Drawing engines
// (SVG, canvas, terminal plotting) live outside this module; the sinks in
// the sink subpackage cover the data-interchange formats the application
// ships with (JSON and CSV).
package render

import (
	"github.com/matzehuels/spanstack/pkg/stack"
)

// Renderer consumes a computed layout and produces output bytes.
// Implementations must not mutate the layout; the same layout value may be
// rendered by several renderers concurrently.
type Renderer interface {
	Render(l stack.Layout) ([]byte, error)
}

// Func adapts an ordinary function to the Renderer interface.
type Func func(l stack.Layout) ([]byte, error)

// Render implements Renderer.
func (f Func) Render(l stack.Layout) ([]byte, error) {
	return f(l)
}
