package texgraph

import (
	"log/slog"

	"github.com/gogpu/texgraph/shader"
)

// GraphOption configures a Graph during creation.
//
// Example:
//
//	g := texgraph.NewGraph(
//	    texgraph.WithUndoLimit(500),
//	    texgraph.WithDisposer(renderer.Release),
//	)
type GraphOption func(*graphOptions)

// graphOptions holds optional configuration for Graph creation.
type graphOptions struct {
	undoLimit int
	disposer  func(*Node)
	compiler  *shader.Compiler
	library   shader.Library
	logger    *slog.Logger
}

// defaultGraphOptions returns the default graph options.
func defaultGraphOptions() graphOptions {
	return graphOptions{
		undoLimit: DefaultUndoLimit,
	}
}

// WithUndoLimit sets how many actions the undo stack keeps. Older actions
// are dropped first. A limit of 0 keeps every action.
func WithUndoLimit(n int) GraphOption {
	return func(o *graphOptions) {
		if n >= 0 {
			o.undoLimit = n
		}
	}
}

// WithDisposer sets a callback invoked when a node leaves the graph, before
// it becomes unreachable. Renderers use it to release resources held for the
// node.
func WithDisposer(fn func(*Node)) GraphOption {
	return func(o *graphOptions) {
		o.disposer = fn
	}
}

// WithCompiler sets the shader compiler used by Source, Program, and
// TransitiveImports. The default compiler emits GLSL and resolves imported
// fragments through the library set with WithLibrary.
func WithCompiler(c *shader.Compiler) GraphOption {
	return func(o *graphOptions) {
		o.compiler = c
	}
}

// WithLibrary sets the fragment library of the default compiler. Without one
// the default compiler knows no fragments, and programs of operators that
// import any fail with shader.ErrUnknownFragment. It has no effect together
// with WithCompiler.
//
// The built-in operators import from operators/shaders:
//
//	g := texgraph.NewGraph(texgraph.WithLibrary(shaders.Library()))
func WithLibrary(lib shader.Library) GraphOption {
	return func(o *graphOptions) {
		o.library = lib
	}
}

// WithLogger sets the graph's logger. The default is Logger().
func WithLogger(l *slog.Logger) GraphOption {
	return func(o *graphOptions) {
		o.logger = l
	}
}
