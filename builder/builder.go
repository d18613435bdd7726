// Package builder assembles a dataflow.Node graph from the flat, id-keyed
// output of the capability model: abstract nodes, direct-flow edges,
// rollout dependencies, security relations, and containment relations.
// Construction runs in nine order-sensitive phases (materialize, external
// reachability, direct edges, dependencies, container expansion,
// security-edge resolution, grafting, conditional removal, dissolution);
// later phases depend on earlier ones having already run.
package builder

import "github.com/infrasnipe/infrasnipe/capability"
import "github.com/infrasnipe/infrasnipe/dataflow"
import "github.com/infrasnipe/infrasnipe/lattice"

// Build assembles a complete graph and returns its synthetic root together
// with the flat list of top-level materialized nodes (one per resource id;
// a resource present under both origins collapses to a single
// dataflow.KindChoice node). Unresolvable identifiers in edges, deps,
// securities, or containers are silently dropped, matching the capability
// model's own silence on unknown references elsewhere in the pipeline.
func Build(
	nodes []capability.AbstractNode,
	edges []capability.EdgeRef,
	deps []capability.DepRef,
	securities []capability.SecurityRef,
	containers []capability.ContainRef,
) (*dataflow.Node, []*dataflow.Node) {
	byID, order := materialize(nodes)

	root := dataflow.NewRoot()
	top := make([]*dataflow.Node, 0, len(order))
	for _, id := range order {
		top = append(top, byID[id])
	}

	connectExternal(root, top)
	addDirectEdges(byID, edges)
	addDependencies(byID, deps)

	// Grafting and dissolution need to see root as a potential parent (an
	// accessible container node is a direct child of root too), so they
	// operate over the whole graph, not just the resource-level top list.
	allNodes := append([]*dataflow.Node{root}, top...)

	expandedContainers := expandContainers(byID, containers)
	expandedSecurities := expandSecurities(byID, securities)
	graftSecurityNodes(allNodes, expandedSecurities, expandedContainers)
	dissolveContainers(allNodes, expandedContainers)

	return root, top
}

// resolved looks up id among the deduplicated top-level nodes. It returns
// nil for an unknown id, never for a known one — every materialized
// resource, including one collapsed into a KindChoice, is reachable by its
// own id.
func resolved(byID map[string]*dataflow.Node, id string) *dataflow.Node {
	return byID[id]
}

// materialize turns each abstract node into a dataflow.Node, collapsing a
// same-id Initial/Target pair into a single KindChoice node (§4.5's
// "Choice(i, t)" — Alt1 is always the initial side regardless of discovery
// order). order preserves first-seen insertion order so the returned node
// list is deterministic.
func materialize(nodes []capability.AbstractNode) (map[string]*dataflow.Node, []string) {
	byID := make(map[string]*dataflow.Node)
	groups := make(map[string][]capability.AbstractNode)
	var order []string

	for _, ad := range nodes {
		if _, ok := groups[ad.ID]; !ok {
			order = append(order, ad.ID)
		}
		groups[ad.ID] = append(groups[ad.ID], ad)
	}

	for _, id := range order {
		group := groups[id]
		if len(group) == 1 {
			byID[id] = materializeOne(group[0])
			continue
		}

		var initial, target capability.AbstractNode
		haveInitial, haveTarget := false, false
		for _, ad := range group {
			switch ad.Origin {
			case capability.OriginInitial:
				initial, haveInitial = ad, true
			case capability.OriginTarget:
				target, haveTarget = ad, true
			}
		}
		if haveInitial && haveTarget {
			initNode := materializeOne(initial)
			targetNode := materializeOne(target)
			choice := dataflow.NewChoice(initNode, targetNode)
			choice.Capability = initNode.Capability
			byID[id] = choice
			continue
		}

		// Defensive fallback for a shape outside §4.5 (more than two entries,
		// or two entries sharing an origin): materialize the first and drop
		// the rest rather than silently merging unrelated resources.
		byID[id] = materializeOne(group[0])
	}

	return byID, order
}

func materializeOne(ad capability.AbstractNode) *dataflow.Node {
	var n *dataflow.Node
	if ad.Type != nil && ad.Type.Security {
		// The zero Credential defaults NewSecurity's intrinsic credential to
		// Module(name); the capability catalog never specifies a bespoke one.
		n = dataflow.NewSecurity(ad.ID, ad.Name, lattice.Credential{})
	} else {
		n = dataflow.NewPlain(ad.ID, ad.Name)
	}
	n.Capability = ad.Type
	n.Origin = ad.Origin
	n.RawConfig = ad.Config
	return n
}

// connectExternal adds every directly accessible, non-security node as a
// child of root (§4.3 step 2).
func connectExternal(root *dataflow.Node, top []*dataflow.Node) {
	for _, n := range top {
		if n.Capability.IsAccessible() {
			root.AddChild(n)
		}
	}
}

// addDirectEdges resolves and adds the direct-flow edges (§4.3 step 3).
func addDirectEdges(byID map[string]*dataflow.Node, edges []capability.EdgeRef) {
	for _, e := range edges {
		from := resolved(byID, e.From)
		to := resolved(byID, e.To)
		if from == nil || to == nil {
			continue
		}
		from.AddChild(to)
	}
}

// addDependencies resolves and adds rollout dependencies (§4.3 step 4).
// Dependencies only ever hold between the target-origin sides of their
// endpoints, so a resource collapsed into a KindChoice contributes only its
// Alt2 here — never both alternatives, unlike direct-flow edges.
func addDependencies(byID map[string]*dataflow.Node, deps []capability.DepRef) {
	for _, d := range deps {
		from := targetSide(resolved(byID, d.From))
		to := targetSide(resolved(byID, d.To))
		if from == nil || to == nil {
			continue
		}
		from.AddDependency(to)
	}
}

// targetSide returns the OriginTarget representation of n: n.Alt2 if n is a
// KindChoice, n itself if its Origin is already OriginTarget, else nil.
func targetSide(n *dataflow.Node) *dataflow.Node {
	if n == nil {
		return nil
	}
	if n.Kind == dataflow.KindChoice {
		return n.Alt2
	}
	if n.Origin == capability.OriginTarget {
		return n
	}
	return nil
}
