package shader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/expr"
)

// Library provides the source of shader library fragments by name.
type Library interface {
	// Fragment returns the source of the named fragment in dialect.
	Fragment(name, dialect string) (string, bool)
}

// MapLibrary is a Library held in memory, keyed by dialect and then by
// fragment name.
type MapLibrary map[string]map[string]string

// Fragment implements Library.
func (m MapLibrary) Fragment(name, dialect string) (string, bool) {
	src, ok := m[dialect][name]
	return src, ok
}

// Program is a compiled fragment shader.
type Program struct {
	// Node is the id of the node the program renders.
	Node int

	// Dialect is the name of the dialect Source is written in.
	Dialect string

	// Source is the complete shader text.
	Source string

	// Imports lists the library fragments included, in order.
	Imports []string

	// Uniforms lists every declared uniform, upstream nodes first.
	Uniforms []Uniform

	// Bindings is the bind group 0 layout of the uniforms. It is empty for
	// dialects without explicit bindings.
	Bindings []gputypes.BindGroupLayoutEntry
}

// assembler builds the text of a program.
type assembler struct {
	d     Dialect
	lib   Library
	width int
}

// assemble returns the program rendering n from its lowered statements.
func (a assembler) assemble(n Node, stmts []expr.Expr) (*Program, error) {
	p := &Program{
		Node:    n.ID(),
		Dialect: a.d.Name(),
		Imports: TransitiveImports(n),
	}

	var lines []string
	lines = append(lines, a.d.Prelude(n.Title())...)

	for _, name := range p.Imports {
		src, ok := a.lib.Fragment(name, a.d.Name())
		if !ok {
			return nil, fmt.Errorf("%w: %s%s", ErrUnknownFragment, name, a.d.Ext())
		}
		lines = append(lines, "// Imported from "+name+a.d.Ext(), src)
	}

	lines = append(lines, a.d.Attribs()...)

	var bindings Bindings
	for _, node := range append(UpstreamNodes(n), n) {
		us := node.Uniforms()
		if len(us) == 0 {
			continue
		}
		decls, err := a.d.DeclareUniforms(us, &bindings)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", node.ID(), err)
		}
		lines = append(lines, "// Uniforms for "+node.OperatorID()+strconv.Itoa(node.ID()))
		lines = append(lines, decls...)
		lines = append(lines, "")
		p.Uniforms = append(p.Uniforms, us...)
	}
	p.Bindings = bindings.Entries

	body, err := a.body(stmts)
	if err != nil {
		return nil, err
	}
	lines = append(lines, a.d.Main(body)...)

	p.Source = strings.Join(lines, "\n")
	return p, nil
}

func (a assembler) body(stmts []expr.Expr) (string, error) {
	chunks := make([]codefmt.Chunk, len(stmts))
	for i, s := range stmts {
		c, err := Generate(a.d, s)
		if err != nil {
			return "", err
		}
		chunks[i] = c
	}
	return codefmt.Print(chunks, codefmt.WithMaxWidth(a.width), codefmt.WithInitialIndent(1))
}
