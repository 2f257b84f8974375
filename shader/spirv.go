package shader

import (
	"fmt"

	"github.com/gogpu/naga"
)

// SPIRVOptions configures CompileSPIRV.
type SPIRVOptions struct {
	// Debug keeps names and line information in the module.
	Debug bool

	// SkipValidation disables IR validation before code generation.
	SkipValidation bool
}

// CompileSPIRV compiles a WGSL program to a SPIR-V module.
func CompileSPIRV(p *Program, opts SPIRVOptions) ([]byte, error) {
	if p.Dialect != WGSL {
		return nil, fmt.Errorf("%w: got %s", ErrNotWGSL, p.Dialect)
	}
	return CompileWGSL(p.Source, opts)
}

// CompileWGSL compiles WGSL source to a SPIR-V module.
func CompileWGSL(source string, opts SPIRVOptions) ([]byte, error) {
	o := naga.DefaultOptions()
	o.Debug = opts.Debug
	o.Validate = !opts.SkipValidation

	spirv, err := naga.CompileWithOptions(source, o)
	if err != nil {
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	return spirv, nil
}

// ParseWGSL checks that source is syntactically valid WGSL.
func ParseWGSL(source string) error {
	if _, err := naga.Parse(source); err != nil {
		return fmt.Errorf("failed to parse shader: %w", err)
	}
	return nil
}
