// Package upgrade composes the transient rollout graph for an upgrade from
// one CloudFormation-shaped template to another, and splits it along its
// rollout dependencies into the set of graphs that represent every valid
// intermediate state a rolling upgrade can pass through (§4.5).
package upgrade

import (
	"reflect"

	"github.com/infrasnipe/infrasnipe/builder"
	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/dataflow"
)

// Compose builds the transient graph for a rollout from initial to target
// (§4.5 steps 1-5): the merged node list runs through the full builder, then
// an Empty placeholder is spliced in for every resource that only exists on
// one side, paired with its surviving counterpart as a Choice.
func Compose(initial, target []capability.AbstractNode) (*dataflow.Node, []*dataflow.Node, error) {
	merged := mergeNodes(initial, target)

	edges, deps, securities, containers, err := capability.Collect(merged)
	if err != nil {
		return nil, nil, err
	}

	root, top := builder.Build(merged, edges, deps, securities, containers)
	root, top = spliceDisappeared(root, top, initial, target)
	root, top = spliceAppeared(root, top, initial, target)

	return root, top, nil
}

// mergeNodes keeps every initial-state node and adds a target-state node
// only when it is new or its raw configuration changed (§4.5 steps 1-2).
func mergeNodes(initial, target []capability.AbstractNode) []capability.AbstractNode {
	merged := append([]capability.AbstractNode(nil), initial...)

	for _, t := range target {
		var counterpart *capability.AbstractNode
		for i := range initial {
			if initial[i].ID == t.ID {
				counterpart = &initial[i]
				break
			}
		}
		if counterpart != nil && reflect.DeepEqual(counterpart.Config, t.Config) {
			continue
		}
		merged = append(merged, t)
	}

	return merged
}

// spliceDisappeared handles §4.5 step 4: every initial-origin resource
// absent from target gets an Empty(OriginTarget) counterpart, and the graph
// node that used to stand alone for that id is replaced everywhere by a
// Choice wrapping the two.
func spliceDisappeared(root *dataflow.Node, top []*dataflow.Node, initial, target []capability.AbstractNode) (*dataflow.Node, []*dataflow.Node) {
	for _, i := range initial {
		if hasID(target, i.ID) {
			continue
		}
		top = spliceChoice(root, top, i.ID, capability.OriginTarget)
	}
	return root, top
}

// spliceAppeared handles §4.5 step 5: the dual of spliceDisappeared, for
// resources brand new in target.
func spliceAppeared(root *dataflow.Node, top []*dataflow.Node, initial, target []capability.AbstractNode) (*dataflow.Node, []*dataflow.Node) {
	for _, t := range target {
		if hasID(initial, t.ID) {
			continue
		}
		top = spliceChoice(root, top, t.ID, capability.OriginInitial)
	}
	return root, top
}

func hasID(nodes []capability.AbstractNode, id string) bool {
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// spliceChoice replaces the single existing node for id with a Choice
// wrapping it and a freshly created Empty node of the given origin — Alt1
// initial, Alt2 target, per the Choice ordering invariant — rewriting every
// reference to the old node throughout the graph.
func spliceChoice(root *dataflow.Node, top []*dataflow.Node, id string, emptyOrigin capability.Origin) []*dataflow.Node {
	var existing *dataflow.Node
	idx := -1
	for i, n := range top {
		if n.ID == id {
			existing = n
			idx = i
			break
		}
	}
	if existing == nil {
		return top
	}

	empty := dataflow.NewEmpty(id, existing.Name)
	empty.Origin = emptyOrigin

	var choice *dataflow.Node
	if emptyOrigin == capability.OriginTarget {
		choice = dataflow.NewChoice(existing, empty)
	} else {
		choice = dataflow.NewChoice(empty, existing)
	}
	choice.Capability = existing.Capability

	allNodes := append([]*dataflow.Node{root}, top...)
	for _, n := range allNodes {
		n.ReplaceChild(existing, choice)
		n.ReplaceDependency(existing, choice)
	}

	top[idx] = choice
	return top
}
