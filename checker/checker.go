// Package checker runs the security-credential fixed point over a split
// transient graph and compares the result against the two stable end-state
// graphs, reporting every place a rolling upgrade exposes a resource more
// than either its before or after configuration would allow (§4.6).
package checker

import (
	"errors"
	"fmt"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/dataflow"
	"github.com/infrasnipe/infrasnipe/lattice"
)

// ErrInconsistentGraph indicates the checker observed a node in a transient
// graph whose id has no counterpart at all in the reference end-state graph
// it was about to be checked against. Every transient node's id was mined
// from one of the two input templates, so this can only mean the builder (or
// upgrade composition) produced a graph inconsistent with its own inputs; it
// is not a condition a caller can recover from.
var ErrInconsistentGraph = errors.New("checker: node has no counterpart in reference graph")

// FindingKind distinguishes the two things a Finding can report.
type FindingKind int

const (
	// FindingWeakened reports a node reachable with a strictly weaker
	// credential during the rollout than either stable end-state requires.
	FindingWeakened FindingKind = iota
	// FindingExistence reports a node reachable during the rollout that
	// does not exist at all in the end-state being compared against.
	FindingExistence
)

// Finding is one reported sniping opportunity.
type Finding struct {
	NodeID   string
	Kind     FindingKind
	Required lattice.Credential
	Actual   lattice.Credential
	Message  string
}

// Check propagates security from root on upgradeGraph (the caller must have
// already done so on graphBefore and graphAfter) and compares every
// reachable node against its same-id counterpart in whichever stable
// end-state it belongs to, deduplicating findings by node id.
func Check(graphBefore, upgradeGraph, graphAfter *dataflow.Node) ([]Finding, error) {
	upgradeGraph.SetSecurity(lattice.None())
	upgradeGraph.ComputeSecurity()

	beforeNodes := graphBefore.Flatten()
	afterNodes := graphAfter.Flatten()

	var findings []Finding
	for _, n := range upgradeGraph.Flatten() {
		r1, r2, ok := sides(n)
		if !ok {
			continue
		}

		if r1 != nil {
			f, err := checkSide(r1, beforeNodes)
			if err != nil {
				return nil, err
			}
			if f != nil {
				findings = append(findings, *f)
			}
		}
		if r2 != nil {
			f, err := checkSide(r2, afterNodes)
			if err != nil {
				return nil, err
			}
			if f != nil {
				findings = append(findings, *f)
			}
		}
	}

	return dedupeByNodeID(findings), nil
}

// sides splits a transient node into its before-side and after-side
// representations, per §4.6: a Choice yields both alternatives; a plain
// node yields itself on whichever side its Origin names; anything else (the
// root, a dissolved container) is skipped.
func sides(n *dataflow.Node) (r1, r2 *dataflow.Node, ok bool) {
	switch {
	case n.Kind == dataflow.KindChoice:
		return n.Alt1, n.Alt2, true
	case n.Origin == capability.OriginInitial:
		return n, nil, true
	case n.Origin == capability.OriginTarget:
		return nil, n, true
	default:
		return nil, nil, false
	}
}

// checkSide runs the per-node check for one side of a transient node
// against its reference end-state graph.
func checkSide(n *dataflow.Node, reference []*dataflow.Node) (*Finding, error) {
	if n.Kind == dataflow.KindEmpty {
		return checkEmptyPermission(n), nil
	}
	return checkNodePermission(n, reference)
}

// checkEmptyPermission implements the existence check: a resource absent
// from this end-state must never be reachable during the transient.
// Silenced when the transient node is itself a security resource.
func checkEmptyPermission(n *dataflow.Node) *Finding {
	if lattice.Equal(n.Security, lattice.Inaccessible()) {
		return nil
	}
	if n.Kind == dataflow.KindSecurity {
		return nil
	}
	return &Finding{
		NodeID:   n.ID,
		Kind:     FindingExistence,
		Required: lattice.Inaccessible(),
		Actual:   n.Security,
		Message: fmt.Sprintf("%s does not exist in this end-state but is reachable with %s during the rollout",
			n.Name, n.Security),
	}
}

// checkNodePermission implements the weakening check: the transient must
// never reach a node with a credential weaker than the stable end-state
// would have required. Silenced when the transient node is itself a
// security resource.
func checkNodePermission(n *dataflow.Node, reference []*dataflow.Node) (*Finding, error) {
	m := findByID(reference, n.ID)
	if m == nil {
		return nil, fmt.Errorf("%w: %s (%s)", ErrInconsistentGraph, n.ID, n.Name)
	}

	if n.Kind == dataflow.KindSecurity {
		return nil, nil
	}
	if lattice.Weaker(m.Security, n.Security) {
		return nil, nil
	}

	return &Finding{
		NodeID:   n.ID,
		Kind:     FindingWeakened,
		Required: m.Security,
		Actual:   n.Security,
		Message: fmt.Sprintf("%s is not sufficiently protected: it needs at least %s and is only protected by %s during the rollout",
			n.Name, m.Security, n.Security),
	}, nil
}

func findByID(nodes []*dataflow.Node, id string) *dataflow.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func dedupeByNodeID(findings []Finding) []Finding {
	seen := make(map[string]bool, len(findings))
	result := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if seen[f.NodeID] {
			continue
		}
		seen[f.NodeID] = true
		result = append(result, f)
	}
	return result
}
