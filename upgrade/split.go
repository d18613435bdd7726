package upgrade

import (
	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/dataflow"
)

// Graph is one leaf configuration produced by SplitDependencies: a flat node
// list (with every dependency resolved to a fixed origin) and its root.
type Graph struct {
	Nodes []*dataflow.Node
	Root  *dataflow.Node
}

// SplitDependencies removes every rollout dependency from the transient
// graph by duplicating it into the set of graphs that each represent one
// consistent, fully-ordered intermediate state a rolling upgrade can pass
// through (§4.5). A graph with no dependencies left is a leaf and is
// returned as-is.
func SplitDependencies(nodes []*dataflow.Node, root *dataflow.Node) []Graph {
	for _, n := range nodes {
		deps := n.EffectiveDependencies()
		if len(deps) == 0 {
			continue
		}

		var result []Graph
		for _, g := range splitDependency(root, nodes, n, deps[0]) {
			result = append(result, SplitDependencies(g.Nodes, g.Root)...)
		}
		return result
	}
	return []Graph{{Nodes: nodes, Root: root}}
}

// splitDependency removes the single dependency f -> t and duplicates the
// graph into up to three branches, each fixing f and t to one origin
// (initial/initial, initial/target, target/target); the fourth combination,
// target f with initial t, is unreachable during a valid rollout and is
// never produced.
func splitDependency(root *dataflow.Node, nodes []*dataflow.Node, f, t *dataflow.Node) []Graph {
	f.RemoveDependency(t)

	nodes, root = CopyGraph(nodes, root)
	nodes1, root1 := CopyGraph(nodes, root)
	nodes2, root2 := CopyGraph(nodes, root)

	if findByID(nodes, f.ID) == nil || findByID(nodes, t.ID) == nil {
		return []Graph{{Nodes: nodes, Root: root}}
	}

	var result []Graph

	if nf, nt := findByID(nodes, f.ID), findByID(nodes, t.ID); fitsOrigin(nf, capability.OriginInitial) && fitsOrigin(nt, capability.OriginInitial) {
		ns := collapseIfChoice(nodes, f.ID, true)
		ns = collapseIfChoice(ns, t.ID, true)
		result = append(result, Graph{Nodes: ns, Root: root})
	}

	if nf, nt := findByID(nodes1, f.ID), findByID(nodes1, t.ID); fitsOrigin(nf, capability.OriginInitial) && fitsOrigin(nt, capability.OriginTarget) {
		ns := collapseIfChoice(nodes1, f.ID, true)
		ns = collapseIfChoice(ns, t.ID, false)
		result = append(result, Graph{Nodes: ns, Root: root1})
	}

	if nf, nt := findByID(nodes2, f.ID), findByID(nodes2, t.ID); fitsOrigin(nf, capability.OriginTarget) && fitsOrigin(nt, capability.OriginTarget) {
		ns := collapseIfChoice(nodes2, f.ID, false)
		ns = collapseIfChoice(ns, t.ID, false)
		result = append(result, Graph{Nodes: ns, Root: root2})
	}

	return result
}

// fitsOrigin reports whether n can stand for the given origin: a Choice
// node always can (one branch is always that origin), anything else only if
// its fixed Origin already matches.
func fitsOrigin(n *dataflow.Node, origin capability.Origin) bool {
	return n.Kind == dataflow.KindChoice || n.Origin == origin
}

// collapseIfChoice, when the node with this id is a Choice, keeps only the
// requested alternative across the whole graph, replacing every reference
// to the Choice wrapper with the survivor and dropping the wrapper from
// nodes. A non-Choice node is returned untouched: it had only one
// representation to begin with.
func collapseIfChoice(nodes []*dataflow.Node, id string, keepInitial bool) []*dataflow.Node {
	n := findByID(nodes, id)
	if n == nil || n.Kind != dataflow.KindChoice {
		return nodes
	}

	keep := n.Alt2
	if keepInitial {
		keep = n.Alt1
	}

	for _, x := range nodes {
		x.ReplaceChild(n, keep)
		x.ReplaceDependency(n, keep)
	}

	result := make([]*dataflow.Node, 0, len(nodes))
	for _, x := range nodes {
		if x == n {
			result = append(result, keep)
			continue
		}
		result = append(result, x)
	}
	return result
}

func findByID(nodes []*dataflow.Node, id string) *dataflow.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}
