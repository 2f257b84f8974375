package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/codefmt"
	"github.com/gogpu/texgraph/shader"
)

const watchDebounce = 100 * time.Millisecond

func (a *app) compileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile <document>",
		Short: "Print the shader rendering one node of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := prometheus.NewRegistry()
			c := a.compiler(reg)
			if !a.v.GetBool("watch") {
				return a.compileOnce(args[0], c, reg)
			}
			return a.watchCompile(cmd.Context(), args[0], c, reg)
		},
	}
	f := cmd.Flags()
	f.Int("node", 0, "id of the node to render (default: the only node whose outputs are unconnected)")
	f.String("dialect", shader.GLSL, "shader dialect: glsl or wgsl")
	f.Int("width", codefmt.DefaultMaxWidth, "maximum width of generated statements")
	f.StringP("out", "o", "", "write the shader to a file instead of stdout")
	f.Bool("color", false, "highlight the shader source")
	f.String("style", "monokai", "highlighting style used by --color")
	f.Bool("watch", false, "recompile whenever the document changes")
	f.String("metrics-out", "", "write compiler metrics to a file in Prometheus text format")
	return cmd
}

func (a *app) compileOnce(path string, c *shader.Compiler, reg *prometheus.Registry) error {
	g, err := a.open(path, c)
	if err != nil {
		return err
	}
	id, err := pickNode(g, a.v.GetInt("node"))
	if err != nil {
		return err
	}
	p, err := g.Program(id)
	if err != nil {
		return errors.Wrapf(err, "compile node %d", id)
	}
	if err := a.writeSource(p); err != nil {
		return err
	}
	if out := a.v.GetString("metrics-out"); out != "" {
		if err := prometheus.WriteToTextfile(out, reg); err != nil {
			return errors.Wrap(err, "write metrics")
		}
	}
	return nil
}

func (a *app) watchCompile(ctx context.Context, path string, c *shader.Compiler, reg *prometheus.Registry) error {
	a.log.Info("watching", "path", path)
	return watchFile(ctx, path, watchDebounce, func() {
		if err := a.compileOnce(path, c, reg); err != nil {
			a.log.Error("compile failed", "path", path, "err", withHints(err))
		}
	})
}

// writeSource writes p to the --out file, or to stdout.
func (a *app) writeSource(p *shader.Program) error {
	if out := a.v.GetString("out"); out != "" {
		if err := renameio.WriteFile(out, []byte(p.Source+"\n"), 0o644); err != nil {
			return err
		}
		a.log.Info("shader written", "path", out, "node", p.Node, "dialect", p.Dialect)
		return nil
	}
	if a.v.GetBool("color") {
		if err := highlight(a.stdout, p.Source+"\n", p.Dialect, a.v.GetString("style")); err != nil {
			return errors.Wrap(err, "highlight")
		}
		return nil
	}
	_, err := fmt.Fprintln(a.stdout, p.Source)
	return err
}

// pickNode returns id if g has such a node. A zero id selects the only node
// whose outputs are unconnected.
func pickNode(g *texgraph.Graph, id int) (int, error) {
	if id != 0 {
		if _, err := g.Node(id); err != nil {
			return 0, err
		}
		return id, nil
	}
	sinks := lo.FilterMap(g.Nodes(), func(n *texgraph.Node, _ int) (int, bool) {
		return n.ID(), !lo.SomeBy(n.Outputs(), (*texgraph.Terminal).Connected)
	})
	switch len(sinks) {
	case 1:
		return sinks[0], nil
	case 0:
		return 0, errors.WithHint(errors.New("document has no nodes"), "add a node to the document first")
	default:
		return 0, errors.WithHintf(errors.Newf("document has %d output nodes", len(sinks)),
			"choose one with --node: %v", sinks)
	}
}
