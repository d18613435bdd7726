package main

import (
	"github.com/spf13/cobra"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/lattice"
	"github.com/infrasnipe/infrasnipe/render"
)

var (
	graphInitialPath string
	graphTargetPath  string
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print a Graphviz dot rendering of a template's dataflow graph",
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphInitialPath, "initial", "", "path to the initial-state template")
	graphCmd.Flags().StringVar(&graphTargetPath, "target", "", "path to the target-state template; renders the upgrade graph when given")
	_ = graphCmd.MarkFlagRequired("initial")
}

func runGraph(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if graphTargetPath == "" {
		root, err := loadPureGraph(graphInitialPath, capability.OriginInitial, logger)
		if err != nil {
			return err
		}
		return render.Write(out, root)
	}

	root, _, err := loadUpgradeGraph(graphInitialPath, graphTargetPath, logger)
	if err != nil {
		return err
	}
	root.SetSecurity(lattice.None())
	root.ComputeSecurity()
	return render.Write(out, root)
}
