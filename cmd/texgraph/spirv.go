package main

import (
	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/texgraph/shader"
)

func (a *app) spirvCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spirv <document>",
		Short: "Compile one node of a document to a SPIR-V module",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.spirv(args[0])
		},
	}
	f := cmd.Flags()
	f.Int("node", 0, "id of the node to render (default: the only node whose outputs are unconnected)")
	f.StringP("out", "o", "", "SPIR-V output file")
	f.Bool("debug", false, "keep names and line information in the module")
	if err := cmd.MarkFlagRequired("out"); err != nil {
		panic(err)
	}
	return cmd
}

func (a *app) spirv(path string) error {
	g, err := a.open(path, a.compiler(nil))
	if err != nil {
		return err
	}
	id, err := pickNode(g, a.v.GetInt("node"))
	if err != nil {
		return err
	}
	p, err := g.ProgramDialect(id, shader.WGSL)
	if err != nil {
		return errors.Wrapf(err, "compile node %d", id)
	}
	spv, err := shader.CompileSPIRV(p, shader.SPIRVOptions{Debug: a.v.GetBool("debug")})
	if err != nil {
		return errors.Wrapf(err, "node %d", id)
	}
	out := a.v.GetString("out")
	if err := renameio.WriteFile(out, spv, 0o644); err != nil {
		return err
	}
	a.log.Info("spir-v written", "path", out, "node", id, "bytes", len(spv))
	return nil
}
