package capability

import "fmt"

// Collect applies the capability model to a whole list of abstract nodes,
// producing the flat, id-keyed relations the builder consumes: direct-flow
// edges and security/containment relations from every node's Properties,
// and rollout dependencies mined from the whole resource entry of every
// target-origin node only (§4.5 — a dependency only ever expresses "this
// target-state resource must be reconfigured after that one").
func Collect(nodes []AbstractNode) ([]EdgeRef, []DepRef, []SecurityRef, []ContainRef, error) {
	var edges []EdgeRef
	var deps []DepRef
	var securities []SecurityRef
	var containers []ContainRef

	for _, n := range nodes {
		props := properties(n.Config)

		e, err := n.Type.Edges(n.ID, props)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("capability: edges for %s: %w", n.ID, err)
		}
		edges = append(edges, e...)

		s, err := n.Type.SecurityEdges(n.ID, props)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("capability: security edges for %s: %w", n.ID, err)
		}
		securities = append(securities, s...)

		c, err := n.Type.ContainRefs(n.ID, props)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("capability: contain refs for %s: %w", n.ID, err)
		}
		containers = append(containers, c...)

		if n.Origin != OriginTarget {
			continue
		}
		targets, err := FindDependencies(n.Config)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("capability: dependencies for %s: %w", n.ID, err)
		}
		for _, to := range targets {
			deps = append(deps, DepRef{From: n.ID, To: to})
		}
	}

	return edges, deps, securities, containers, nil
}

// properties extracts the "Properties" sub-map a Descriptor's rules are
// written against, defaulting to an empty map when absent so rule
// application never needs a nil check of its own.
func properties(config map[string]interface{}) map[string]interface{} {
	if config == nil {
		return map[string]interface{}{}
	}
	if props, ok := config["Properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}
