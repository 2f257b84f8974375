package texgraph

import (
	"fmt"
	"maps"
	"strings"

	"github.com/gogpu/texgraph/expr"
	"github.com/gogpu/texgraph/shader"
)

// Node is one operator instance in a graph.
//
// Only overridden parameter values are stored; every other parameter reads
// as the operator's default. The terminal lists are created once from the
// operator's terminal declarations and never change.
type Node struct {
	id int
	op Operator

	// X and Y position the node in document coordinates.
	X, Y float64

	// Selected is the UI selection state.
	Selected bool

	deleted bool
	params  map[string]any
	inputs  []*Terminal
	outputs []*Terminal
}

// NewNode creates a node of op with the given id. It fails with
// ErrDuplicateTerminal if op declares two terminals with the same id.
func NewNode(op Operator, id int) (*Node, error) {
	seen := make(map[string]bool)
	for _, s := range append(append([]TerminalSpec(nil), op.Inputs()...), op.Outputs()...) {
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateTerminal, op.ID(), s.ID)
		}
		seen[s.ID] = true
	}
	return &Node{
		id:      id,
		op:      op,
		params:  make(map[string]any),
		inputs:  layoutTerminals(TerminalInput, id, op.Inputs()),
		outputs: layoutTerminals(TerminalOutput, id, op.Outputs()),
	}, nil
}

func (n *Node) ID() int            { return n.id }
func (n *Node) Operator() Operator { return n.op }
func (n *Node) Deleted() bool      { return n.deleted }

// Title returns the operator's human readable name.
func (n *Node) Title() string { return n.op.Name() }

func (n *Node) String() string {
	return fmt.Sprintf("%s%d", n.op.ID(), n.id)
}

// Inputs returns the input terminals in display order.
func (n *Node) Inputs() []*Terminal { return n.inputs }

// Outputs returns the output terminals in display order.
func (n *Node) Outputs() []*Terminal { return n.outputs }

// Input returns the input terminal with the given id, or nil.
func (n *Node) Input(id string) *Terminal {
	return findTerminal(n.inputs, id)
}

// Output returns the output terminal with the given id, or nil.
func (n *Node) Output(id string) *Terminal {
	return findTerminal(n.outputs, id)
}

// Terminal returns the input or output terminal with the given id, or nil.
func (n *Node) Terminal(id string) *Terminal {
	if t := n.Input(id); t != nil {
		return t
	}
	return n.Output(id)
}

func findTerminal(ts []*Terminal, id string) *Terminal {
	for _, t := range ts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Param returns the value of the parameter: the override if one is set,
// otherwise the operator default.
func (n *Node) Param(id string) (any, error) {
	p, ok := findParam(n.op.Params(), id)
	if !ok {
		return nil, &ReferenceError{Kind: RefParam, ID: n.op.ID() + "." + id}
	}
	if v, ok := n.params[id]; ok {
		return v, nil
	}
	return p.Default, nil
}

// ParamFloat returns a numeric parameter as float64, or 0.
func (n *Node) ParamFloat(id string) float64 {
	v, _ := n.Param(id)
	return toFloat(v)
}

// ParamInt returns a numeric parameter as int, or 0.
func (n *Node) ParamInt(id string) int {
	return int(n.ParamFloat(id))
}

// Params returns the effective value of every parameter, group members
// included.
func (n *Node) Params() map[string]any {
	out := make(map[string]any)
	for _, p := range flattenParams(n.op.Params()) {
		if v, ok := n.params[p.ID]; ok {
			out[p.ID] = v
		} else if p.Default != nil {
			out[p.ID] = p.Default
		}
	}
	return out
}

// Overrides returns the parameters whose values differ from the default
// because they were set explicitly.
func (n *Node) Overrides() map[string]any {
	return maps.Clone(n.params)
}

// override returns the stored value of a parameter, or nil.
func (n *Node) override(id string) any {
	return n.params[id]
}

// setParam stores v as the override of parameter id. A nil v removes the
// override.
func (n *Node) setParam(id string, v any) {
	if v == nil {
		delete(n.params, id)
		return
	}
	n.params[id] = v
}

// UniformName returns the uniform name of a parameter or buffered input.
func (n *Node) UniformName(id string) string {
	return shader.UniformName(n.op.ID(), n.id, id)
}

// RefUniform returns a read of the uniform bound to parameter paramID.
func (n *Node) RefUniform(paramID string) expr.Expr {
	t := expr.Other
	if p, ok := findParam(n.op.Params(), paramID); ok {
		t = p.Type
	}
	return expr.RefUniform(n.UniformName(paramID), t, n.id, paramID)
}

// RefInput returns a read of input inputID at the coordinate uv.
func (n *Node) RefInput(inputID string, uv expr.Expr) expr.Expr {
	t := expr.Other
	if in := n.Input(inputID); in != nil {
		t = in.Type
	}
	return expr.RefInput(n.id, inputID, t, uv)
}

// Uniforms returns the uniforms read by the node's code: samplers for
// buffered inputs first, then every parameter that is not compile-time.
func (n *Node) Uniforms() []shader.Uniform {
	var out []shader.Uniform
	for _, in := range n.inputs {
		if in.Buffered {
			out = append(out, shader.Uniform{Name: n.UniformName(in.ID), Type: expr.Image})
		}
	}
	var declare func([]Param)
	declare = func(ps []Param) {
		for _, p := range ps {
			switch {
			case p.Pre:
			case p.Type == expr.Group:
				declare(p.Children)
			default:
				out = append(out, shader.Uniform{Name: n.UniformName(p.ID), Type: p.Type})
			}
		}
	}
	declare(n.op.Params())
	return out
}

// CodeKey identifies the compile-time parameter values of n. Nodes with
// equal keys and equal upstream topology generate identical code.
func (n *Node) CodeKey() string {
	var sb strings.Builder
	for _, p := range flattenParams(n.op.Params()) {
		if !p.Pre {
			continue
		}
		v, _ := n.Param(p.ID)
		fmt.Fprintf(&sb, "%s=%v;", p.ID, v)
	}
	return sb.String()
}

// document returns the serialized form of n with every parameter's
// effective value.
func (n *Node) document() NodeDoc {
	return NodeDoc{
		ID:       n.id,
		X:        n.X,
		Y:        n.Y,
		Operator: n.op.ID(),
		Params:   n.Params(),
	}
}

// restoreParams sets an override for every parameter present in params,
// ignoring unknown ids.
func (n *Node) restoreParams(params map[string]any) error {
	for _, p := range flattenParams(n.op.Params()) {
		v, ok := params[p.ID]
		if !ok {
			continue
		}
		cv, err := coerceParam(p, v)
		if err != nil {
			return fmt.Errorf("node %d: %w", n.id, err)
		}
		n.setParam(p.ID, cv)
	}
	return nil
}
