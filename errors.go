package texgraph

import (
	"errors"
	"fmt"
)

// Errors returned by graph operations. Lookup failures are reported as a
// *ReferenceError that unwraps to one of the NotFound sentinels.
var (
	// ErrNodeNotFound is returned when a node id is not in the graph.
	ErrNodeNotFound = errors.New("texgraph: node not found")

	// ErrTerminalNotFound is returned when a node has no terminal with the
	// given id and direction.
	ErrTerminalNotFound = errors.New("texgraph: terminal not found")

	// ErrOperatorNotFound is returned when a registry has no operator with
	// the given id.
	ErrOperatorNotFound = errors.New("texgraph: operator not found")

	// ErrParamNotFound is returned when an operator has no parameter with the
	// given id.
	ErrParamNotFound = errors.New("texgraph: parameter not found")

	// ErrDirection is returned when a connection does not run from an output
	// terminal to an input terminal.
	ErrDirection = errors.New("texgraph: connection must run from an output to an input")

	// ErrCycle is returned when a connection would make the graph cyclic.
	ErrCycle = errors.New("texgraph: connection would create a cycle")

	// ErrDuplicateTerminal is returned when an operator declares two
	// terminals with the same id.
	ErrDuplicateTerminal = errors.New("texgraph: duplicate terminal id")

	// ErrDuplicateNode is returned when a node id is already in use.
	ErrDuplicateNode = errors.New("texgraph: duplicate node id")

	// ErrInvalidParam is returned when a parameter value cannot be converted
	// to the parameter's type.
	ErrInvalidParam = errors.New("texgraph: invalid parameter value")
)

// ReferenceKind identifies what a ReferenceError failed to find.
type ReferenceKind uint8

const (
	RefNode     ReferenceKind = iota // Node id
	RefTerminal                      // Terminal id on a node
	RefOperator                      // Operator id in a registry
	RefParam                         // Parameter id on an operator
)

var referenceKindNames = [...]string{
	RefNode:     "node",
	RefTerminal: "terminal",
	RefOperator: "operator",
	RefParam:    "parameter",
}

// String returns the string representation of a ReferenceKind.
func (k ReferenceKind) String() string {
	if int(k) < len(referenceKindNames) {
		return referenceKindNames[k]
	}
	return "unknown"
}

// ReferenceError reports a lookup of an unknown node, terminal, operator, or
// parameter.
type ReferenceError struct {
	Kind ReferenceKind
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("texgraph: %s %q not found", e.Kind, e.ID)
}

// Unwrap returns the sentinel matching e.Kind.
func (e *ReferenceError) Unwrap() error {
	switch e.Kind {
	case RefNode:
		return ErrNodeNotFound
	case RefTerminal:
		return ErrTerminalNotFound
	case RefOperator:
		return ErrOperatorNotFound
	case RefParam:
		return ErrParamNotFound
	default:
		return nil
	}
}

func nodeNotFound(id int) error {
	return &ReferenceError{Kind: RefNode, ID: fmt.Sprint(id)}
}

func terminalNotFound(node int, id string) error {
	return &ReferenceError{Kind: RefTerminal, ID: fmt.Sprintf("%d.%s", node, id)}
}
