package shader

import "errors"

var (
	// ErrUnsupportedExpr is returned when the generator meets an expression
	// it cannot emit, including inputs and forks left unresolved.
	ErrUnsupportedExpr = errors.New("shader: unsupported expression")

	// ErrUnsupportedType is returned for a data type the dialect cannot
	// declare.
	ErrUnsupportedType = errors.New("shader: unsupported data type")

	// ErrUnknownFragment is returned when an import names a fragment the
	// library does not have.
	ErrUnknownFragment = errors.New("shader: unknown library fragment")

	// ErrUnknownDialect is returned for a dialect name that is not
	// registered.
	ErrUnknownDialect = errors.New("shader: unknown dialect")

	// ErrNoOutput is returned when compiling a node without outputs.
	ErrNoOutput = errors.New("shader: node has no output")

	// ErrCycle is returned when upstream resolution revisits a node it is
	// still expanding.
	ErrCycle = errors.New("shader: cycle in upstream graph")

	// ErrNotWGSL is returned when SPIR-V compilation is requested for a
	// program in another dialect.
	ErrNotWGSL = errors.New("shader: SPIR-V requires a WGSL program")
)
