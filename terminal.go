package texgraph

import (
	"slices"

	"github.com/gogpu/texgraph/expr"
)

// TerminalKind is the direction of a terminal.
type TerminalKind uint8

const (
	TerminalInput  TerminalKind = iota // Receives at most one connection
	TerminalOutput                     // Feeds any number of connections
)

// String returns the string representation of a TerminalKind.
func (k TerminalKind) String() string {
	switch k {
	case TerminalInput:
		return "input"
	case TerminalOutput:
		return "output"
	default:
		return "unknown"
	}
}

// Terminal layout, in node-local coordinates.
const (
	NodeWidth  = 94
	NodeHeight = 120

	inputX          = -9
	outputX         = 93
	terminalSpacing = 36
)

// Terminal is an input or output socket of a node.
type Terminal struct {
	Kind TerminalKind

	// Node is the id of the owning node.
	Node int

	ID   string
	Name string
	Type expr.DataType

	// Buffered is set on inputs whose upstream image must be rendered to a
	// texture and sampled instead of inlined.
	Buffered bool

	// X and Y position the terminal relative to its node.
	X, Y int

	// Hover is a transient UI flag.
	Hover bool

	conn  *Connection   // inputs
	conns []*Connection // outputs
}

// IsOutput reports whether t is an output terminal.
func (t *Terminal) IsOutput() bool { return t.Kind == TerminalOutput }

// Endpoint returns the endpoint naming t.
func (t *Terminal) Endpoint() Endpoint {
	return Endpoint{Node: t.Node, Terminal: t.ID}
}

// Connection returns the connection of an input terminal, or nil.
func (t *Terminal) Connection() *Connection {
	return t.conn
}

// Connections returns the connections of t: the outgoing list of an output
// terminal, or the single connection of a connected input.
func (t *Terminal) Connections() []Connection {
	if t.Kind == TerminalInput {
		if t.conn == nil {
			return nil
		}
		return []Connection{*t.conn}
	}
	out := make([]Connection, len(t.conns))
	for i, c := range t.conns {
		out[i] = *c
	}
	return out
}

// Connected reports whether t has at least one connection.
func (t *Terminal) Connected() bool {
	return t.conn != nil || len(t.conns) > 0
}

// detach removes c from t. It reports whether c was attached.
func (t *Terminal) detach(c *Connection) bool {
	if t.Kind == TerminalInput {
		if t.conn != c {
			return false
		}
		t.conn = nil
		return true
	}
	i := slices.Index(t.conns, c)
	if i < 0 {
		return false
	}
	t.conns = slices.Delete(t.conns, i, i+1)
	return true
}

// layoutTerminals creates the terminals of one side of a node, spread
// vertically and centered on the node.
func layoutTerminals(kind TerminalKind, node int, specs []TerminalSpec) []*Terminal {
	if len(specs) == 0 {
		return nil
	}
	n := len(specs)
	spacing := min(terminalSpacing, NodeHeight/float64(n))
	y := float64(int((NodeHeight - float64(n)*spacing) / 2))
	x := inputX
	if kind == TerminalOutput {
		x = outputX
	}

	out := make([]*Terminal, n)
	for i, s := range specs {
		out[i] = &Terminal{
			Kind:     kind,
			Node:     node,
			ID:       s.ID,
			Name:     s.Name,
			Type:     s.Type,
			Buffered: s.Buffered && kind == TerminalInput,
			X:        x,
			Y:        int(y),
		}
		y += spacing
	}
	return out
}
