package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/infrasnipe/infrasnipe/builder"
	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/dataflow"
	"github.com/infrasnipe/infrasnipe/lattice"
	"github.com/infrasnipe/infrasnipe/template"
	"github.com/infrasnipe/infrasnipe/upgrade"
)

// loadPureGraph loads one template in isolation and builds its stable-state
// graph: the graph this template would settle into with no rollout in
// flight. It never produces a KindChoice node, since it only ever sees one
// origin.
func loadPureGraph(path string, origin capability.Origin, log *zap.Logger) (*dataflow.Node, error) {
	loader := template.NewFileLoader(origin, log)
	nodes, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	edges, deps, securities, containers, err := capability.Collect(nodes)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}

	root, _ := builder.Build(nodes, edges, deps, securities, containers)
	root.SetSecurity(lattice.None())
	root.ComputeSecurity()
	return root, nil
}

// loadUpgradeGraph loads both templates and composes the transient graph a
// rolling upgrade from initial to target passes through.
func loadUpgradeGraph(initialPath, targetPath string, log *zap.Logger) (*dataflow.Node, []*dataflow.Node, error) {
	initialLoader := template.NewFileLoader(capability.OriginInitial, log)
	initial, err := initialLoader.Load(initialPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", initialPath, err)
	}

	targetLoader := template.NewFileLoader(capability.OriginTarget, log)
	target, err := targetLoader.Load(targetPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", targetPath, err)
	}

	root, top, err := upgrade.Compose(initial, target)
	if err != nil {
		return nil, nil, fmt.Errorf("composing upgrade graph: %w", err)
	}
	return root, top, nil
}
