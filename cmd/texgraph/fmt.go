package main

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/gogpu/texgraph"
)

func (a *app) fmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt <document>",
		Short: "Rewrite a document in canonical form",
		Long: `Fmt loads a document and writes it back with every parameter value
spelled out, nodes sorted by id, and connections sorted by destination.
The output format follows the file extension, so -o graph.yaml converts a
JSON document to YAML.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.format(args[0])
		},
	}
	f := cmd.Flags()
	f.StringP("out", "o", "", "write to this file instead of rewriting the document")
	f.Bool("check", false, "only report whether the document is already canonical")
	return cmd
}

func (a *app) format(path string) error {
	g := texgraph.NewGraph(texgraph.WithLogger(a.log))
	if err := g.OpenFile(path, a.reg); err != nil {
		return err
	}

	if a.v.GetBool("check") {
		want, err := g.Document().Marshal(texgraph.FormatForPath(path))
		if err != nil {
			return err
		}
		got, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !bytes.Equal(got, want) {
			return errors.WithHintf(errors.Newf("%s is not formatted", path), "run 'texgraph fmt %s'", path)
		}
		return nil
	}

	out := a.v.GetString("out")
	if out == "" {
		out = path
	}
	return g.SaveFile(out)
}
