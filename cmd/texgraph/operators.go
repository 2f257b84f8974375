package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/gogpu/texgraph"
	"github.com/gogpu/texgraph/expr"
)

func (a *app) operatorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "operators",
		Short: "List the available operators",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return a.listOperators(a.v.GetString("group"))
		},
	}
	cmd.Flags().String("group", "", "only list operators of this group")
	return cmd
}

func (a *app) listOperators(group string) error {
	ops := a.reg.List()
	if group != "" {
		ops = lo.Filter(ops, func(op texgraph.Operator, _ int) bool { return op.Group() == group })
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tGROUP\tNAME\tINPUTS\tOUTPUTS\tPARAMS")
	for _, op := range ops {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			op.ID(), op.Group(), op.Name(),
			terminalList(op.Inputs()), terminalList(op.Outputs()), paramList(op.Params()))
	}
	return tw.Flush()
}

func terminalList(specs []texgraph.TerminalSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(specs, func(s texgraph.TerminalSpec, _ int) string {
		label := s.ID + ":" + s.Type.String()
		if s.Buffered {
			label += "*"
		}
		return label
	}), ",")
}

func paramList(ps []texgraph.Param) string {
	if len(ps) == 0 {
		return "-"
	}
	return strings.Join(lo.Map(ps, func(p texgraph.Param, _ int) string {
		if p.Type == expr.Group {
			return p.ID + "{" + paramList(p.Children) + "}"
		}
		return p.ID
	}), ",")
}
