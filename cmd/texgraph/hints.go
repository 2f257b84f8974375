package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/shader"
)

// withHints attaches a user hint to errors with a known remedy.
func withHints(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, texgraph.ErrOperatorNotFound):
		return errors.WithHint(err, "run 'texgraph operators' to list the available operators")
	case errors.Is(err, texgraph.ErrNodeNotFound), errors.Is(err, texgraph.ErrTerminalNotFound):
		return errors.WithHint(err, "connections and --node must name nodes and terminals present in the document")
	case errors.Is(err, texgraph.ErrInvalidParam):
		return errors.WithHint(err, "run 'texgraph operators' to see the parameters of each operator")
	case errors.Is(err, texgraph.ErrCycle):
		return errors.WithHint(err, "a node cannot feed its own input, directly or through other nodes")
	case errors.Is(err, shader.ErrUnknownDialect):
		return errors.WithHintf(err, "use one of: %s", strings.Join(shader.Dialects(), ", "))
	case errors.Is(err, os.ErrNotExist):
		return errors.WithHint(err, "check the document path")
	default:
		return err
	}
}
