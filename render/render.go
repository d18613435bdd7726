// Package render produces a human-readable Graphviz dot rendering of a
// computed dataflow graph. It is a leaf, out-of-core formatting concern:
// nothing here feeds back into analysis.
package render

import (
	"fmt"
	"io"

	"github.com/infrasnipe/infrasnipe/dataflow"
)

// Write renders root as a Graphviz dot digraph to w: one cluster per
// reachable Choice node (its two alternatives ranked side by side and
// joined by a blue edge), one node per Plain/Security/Empty/Root node
// labeled with its security credential and name.
func Write(w io.Writer, root *dataflow.Node) error {
	fmt.Fprintln(w, "digraph {")
	fmt.Fprintln(w, "  compound=true;")

	ids := make(map[*dataflow.Node]string)
	if err := renderEdges(w, root, "n", ids); err != nil {
		return err
	}

	fmt.Fprintln(w, "}")
	return nil
}

// renderEdges assigns root a dot node id (deriving each child's from its
// own, numbered in visit order), recurses into it, and draws the edges from
// root to whatever dot id(s) its traversal surfaces — a single id for an
// ordinary node, or the Choice cluster's initial-side id via an lhead edge
// into the cluster when the child is itself a Choice.
func renderEdges(w io.Writer, n *dataflow.Node, id string, ids map[*dataflow.Node]string) error {
	if _, seen := ids[n]; seen {
		return nil
	}
	ids[n] = id

	if n.Kind == dataflow.KindChoice {
		return renderChoice(w, n, id, ids)
	}

	if err := renderNode(w, n, id); err != nil {
		return err
	}

	for i, child := range n.Children {
		childID := fmt.Sprintf("%s%d", id, i+1)
		if err := renderEdges(w, child, childID, ids); err != nil {
			return err
		}
		if child.Kind == dataflow.KindChoice {
			fmt.Fprintf(w, "  %s -> %s [lhead=cluster_%s];\n", id, ids[child.Alt1], ids[child])
		} else {
			fmt.Fprintf(w, "  %s -> %s;\n", id, ids[child])
		}
	}
	return nil
}

// renderChoice lays out both alternatives under one dot cluster, rooted at
// the initial-side alternative's id so a parent edge into the cluster has
// somewhere concrete to land.
func renderChoice(w io.Writer, n *dataflow.Node, id string, ids map[*dataflow.Node]string) error {
	if err := renderEdges(w, n.Alt1, id+"l", ids); err != nil {
		return err
	}
	if err := renderEdges(w, n.Alt2, id+"r", ids); err != nil {
		return err
	}

	fmt.Fprintf(w, "  subgraph cluster_%s {\n", id)
	fmt.Fprintf(w, "    %s -> %s [color=blue];\n", ids[n.Alt1], ids[n.Alt2])
	fmt.Fprintf(w, "    {rank=same;%s;%s}\n", ids[n.Alt1], ids[n.Alt2])
	fmt.Fprintln(w, "  }")
	return nil
}

func renderNode(w io.Writer, n *dataflow.Node, id string) error {
	switch n.Kind {
	case dataflow.KindSecurity:
		fmt.Fprintf(w, "  %s [label=\"%s(%s)\", color=red];\n", id, n.Security, n.Name)
	case dataflow.KindEmpty:
		fmt.Fprintf(w, "  %s [label=\"%s(%s)\", color=gray];\n", id, n.Security, n.Name)
	case dataflow.KindRoot:
		fmt.Fprintf(w, "  %s [label=\"%s(%s)\", fillcolor=gray, style=filled];\n", id, n.Security, n.Name)
	default:
		fmt.Fprintf(w, "  %s [label=\"%s(%s)\"];\n", id, n.Security, n.Name)
	}
	return nil
}
