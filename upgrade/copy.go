package upgrade

import "github.com/infrasnipe/infrasnipe/dataflow"

// CopyGraph produces a fully detached copy of a graph: every node in nodes,
// plus the Alt1/Alt2 of any KindChoice node among them (never themselves
// separate entries of nodes), plus root whether or not nodes lists it, is
// copied once, then every reference —
// Children, Dependencies, and a choice's Alt1/Alt2 — is rewritten in a
// second pass to point at the copies. SplitDependencies relies on this to
// mutate each branch of a split independently, with no aliasing back to the
// original or to a sibling branch.
func CopyGraph(nodes []*dataflow.Node, root *dataflow.Node) ([]*dataflow.Node, *dataflow.Node) {
	newOf := cloneClosure(append([]*dataflow.Node{root}, nodes...))

	for old, nw := range newOf {
		if old.Kind == dataflow.KindChoice {
			nw.Alt1 = newOf[old.Alt1]
			nw.Alt2 = newOf[old.Alt2]
		}
	}

	for old, nw := range newOf {
		for _, other := range newOf {
			other.ReplaceChild(old, nw)
			other.ReplaceDependency(old, nw)
		}
	}

	result := make([]*dataflow.Node, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, newOf[n])
	}
	return result, newOf[root]
}

// cloneClosure copies every node in nodes and, transitively, the Alt1/Alt2
// of any KindChoice node reached along the way (Alt1/Alt2 are themselves
// never KindChoice, so this never recurses more than one level deep).
func cloneClosure(nodes []*dataflow.Node) map[*dataflow.Node]*dataflow.Node {
	newOf := make(map[*dataflow.Node]*dataflow.Node, len(nodes))

	var ensure func(n *dataflow.Node)
	ensure = func(n *dataflow.Node) {
		if _, ok := newOf[n]; ok {
			return
		}
		newOf[n] = n.Copy()
		if n.Kind == dataflow.KindChoice {
			ensure(n.Alt1)
			ensure(n.Alt2)
		}
	}
	for _, n := range nodes {
		ensure(n)
	}
	return newOf
}
