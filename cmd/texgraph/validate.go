package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/shader"
)

func (a *app) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Check that a document loads and every node compiles",
		Long: `Validate loads a document and compiles every node in every dialect.
WGSL output is parsed with naga; with --spirv it is also validated and
translated to SPIR-V.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.validate(args[0])
		},
	}
	cmd.Flags().Bool("spirv", false, "also translate every node to SPIR-V")
	return cmd
}

func (a *app) validate(path string) error {
	g, err := a.open(path, a.compiler(nil))
	if err != nil {
		return err
	}
	failed := 0
	for _, n := range g.Nodes() {
		if err := a.checkNode(g, n); err != nil {
			failed++
			a.log.Error("node failed", "node", n.ID(), "operator", n.Operator().ID(), "err", err)
		}
	}
	if failed > 0 {
		return errors.WithHint(
			errors.Newf("%s: %d of %d nodes failed to compile", path, failed, g.Len()),
			"run with --log-level debug for compiler details")
	}
	doc := g.Document()
	fmt.Fprintf(a.stdout, "%s: %d nodes, %d connections ok\n", path, len(doc.Nodes), len(doc.Connections))
	return nil
}

func (a *app) checkNode(g *texgraph.Graph, n *texgraph.Node) error {
	var wgsl *shader.Program
	for _, d := range shader.Dialects() {
		p, err := g.ProgramDialect(n.ID(), d)
		if err != nil {
			return errors.Wrapf(err, "%s", d)
		}
		if d == shader.WGSL {
			wgsl = p
		}
	}
	if wgsl == nil {
		return nil
	}
	if err := shader.ParseWGSL(wgsl.Source); err != nil {
		return err
	}
	if a.v.GetBool("spirv") {
		if _, err := shader.CompileSPIRV(wgsl, shader.SPIRVOptions{}); err != nil {
			return err
		}
	}
	return nil
}
