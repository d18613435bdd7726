package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/checker"
	"github.com/infrasnipe/infrasnipe/lattice"
	"github.com/infrasnipe/infrasnipe/upgrade"
)

var (
	checkInitialPath string
	checkTargetPath  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a rolling upgrade for transient security-level violations",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkInitialPath, "initial", "", "path to the initial-state template")
	checkCmd.Flags().StringVar(&checkTargetPath, "target", "", "path to the target-state template")
	_ = checkCmd.MarkFlagRequired("initial")
	_ = checkCmd.MarkFlagRequired("target")
}

func runCheck(cmd *cobra.Command, args []string) error {
	graphBefore, err := loadPureGraph(checkInitialPath, capability.OriginInitial, logger)
	if err != nil {
		return err
	}
	graphAfter, err := loadPureGraph(checkTargetPath, capability.OriginTarget, logger)
	if err != nil {
		return err
	}

	upgradeRoot, upgradeTop, err := loadUpgradeGraph(checkInitialPath, checkTargetPath, logger)
	if err != nil {
		return err
	}

	var findings []checker.Finding
	for _, split := range upgrade.SplitDependencies(upgradeTop, upgradeRoot) {
		split.Root.SetSecurity(lattice.None())
		split.Root.ComputeSecurity()

		f, err := checker.Check(graphBefore, split.Root, graphAfter)
		if err != nil {
			return fmt.Errorf("checking split: %w", err)
		}
		findings = append(findings, f...)
	}
	findings = dedupeFindings(findings)

	out := cmd.OutOrStdout()
	if len(findings) == 0 {
		fmt.Fprintln(out, "No issues were found!")
		return nil
	}

	fmt.Fprintf(out, "%d issues were found:\n", len(findings))
	for _, f := range findings {
		fmt.Fprintln(out, f.Message)
	}
	return nil
}

func dedupeFindings(findings []checker.Finding) []checker.Finding {
	seen := make(map[string]bool, len(findings))
	result := make([]checker.Finding, 0, len(findings))
	for _, f := range findings {
		if seen[f.NodeID] {
			continue
		}
		seen[f.NodeID] = true
		result = append(result, f)
	}
	return result
}
