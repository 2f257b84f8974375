package texgraph

import (
	"github.com/gogpu/texgraph/expr"
)

// Operator describes one kind of node: its terminals, its parameters, and
// the code it contributes to a shader. Operators are immutable and shared by
// every node created from them.
type Operator interface {
	// ID returns the unique id of the operator, e.g. "filter_invert".
	ID() string

	// Name returns the human readable name.
	Name() string

	// Group returns the catalog group, e.g. "filter" or "generator".
	Group() string

	// Description returns a short description for the catalog.
	Description() string

	// Inputs returns the input terminal specs, in display order.
	Inputs() []TerminalSpec

	// Outputs returns the output terminal specs, in display order.
	Outputs() []TerminalSpec

	// Params returns the parameter list. Group parameters carry their
	// members in Children.
	Params() []Param

	// Code returns the expression computing output of n.
	Code(n *Node, output string) (expr.Expr, error)

	// Imports returns the shader library fragments the code of n needs.
	Imports(n *Node) []string
}

// TerminalSpec declares one terminal of an operator.
type TerminalSpec struct {
	ID   string
	Name string
	Type expr.DataType

	// Buffered inputs are read from a rendered texture.
	Buffered bool
}

// Param declares one operator parameter.
//
// Default fixes the Go type of the parameter's values: float64 for Float,
// int for Int, [4]float64 for RGBA, []ColorStop for RGBAGradient, and so on.
// Values read from documents are converted to that type.
type Param struct {
	ID   string
	Name string
	Type expr.DataType

	Default any

	// Min, Max and Precision hint the editing range of scalar parameters.
	Min, Max  float64
	Precision int

	// Enum names the choices of an enumerated Int parameter.
	Enum []string

	// Pre marks a compile-time parameter. It is substituted into the code
	// instead of being declared as a uniform.
	Pre bool

	// Children are the members of a Group parameter.
	Children []Param
}

// ColorStop is one stop of an RGBAGradient value.
type ColorStop struct {
	Value    [4]float64 `json:"value"`
	Position float64    `json:"position"`
}

// flattenParams returns the value-carrying parameters of ps, with group
// members in place of their groups.
func flattenParams(ps []Param) []Param {
	var out []Param
	for _, p := range ps {
		if p.Type == expr.Group {
			out = append(out, flattenParams(p.Children)...)
			continue
		}
		out = append(out, p)
	}
	return out
}

// BaseOperator implements the metadata methods of Operator. Concrete
// operators embed it and provide Code.
type BaseOperator struct {
	OpID          string
	OpName        string
	OpGroup       string
	OpDescription string
	InputSpecs    []TerminalSpec
	OutputSpecs   []TerminalSpec
	ParamSpecs    []Param
	ImportNames   []string
}

func (o *BaseOperator) ID() string              { return o.OpID }
func (o *BaseOperator) Name() string            { return o.OpName }
func (o *BaseOperator) Group() string           { return o.OpGroup }
func (o *BaseOperator) Description() string     { return o.OpDescription }
func (o *BaseOperator) Inputs() []TerminalSpec  { return o.InputSpecs }
func (o *BaseOperator) Outputs() []TerminalSpec { return o.OutputSpecs }
func (o *BaseOperator) Params() []Param         { return o.ParamSpecs }

// Imports returns ImportNames regardless of n.
func (o *BaseOperator) Imports(*Node) []string { return o.ImportNames }
