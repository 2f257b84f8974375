// Command texgraph compiles procedural texture graph documents to shaders.
//
// Usage:
//
//	texgraph compile graph.json              # GLSL for the graph's output node
//	texgraph compile --dialect wgsl --node 3 graph.yaml
//	texgraph spirv --node 3 -o out.spv graph.json
//	texgraph validate graph.json
//	texgraph fmt graph.json
//	texgraph operators
//
// Flags can also be set in ./texgraph.yaml or through TEXGRAPH_* environment
// variables, e.g. TEXGRAPH_DIALECT=wgsl.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line args and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(stderr, withHints(err))
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}
