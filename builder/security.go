package builder

import "github.com/infrasnipe/infrasnipe/capability"
import "github.com/infrasnipe/infrasnipe/dataflow"

// expandedContainer is a container node together with the full set of
// nodes it contains, after expanding every identifier-keyed entry to its
// node (or nodes).
type expandedContainer struct {
	container *dataflow.Node
	contents  []*dataflow.Node
}

// expandedSecurity is a single security relation fully resolved to nodes:
// From is empty for an undirected relation (§4.3 step 6).
type expandedSecurity struct {
	security *dataflow.Node
	from     []*dataflow.Node
	to       []*dataflow.Node
}

func expandContainers(byID map[string]*dataflow.Node, containers []capability.ContainRef) []expandedContainer {
	byContainer := make(map[*dataflow.Node]*expandedContainer)
	var order []*dataflow.Node

	for _, c := range containers {
		container := resolved(byID, c.Container)
		content := resolved(byID, c.Content)
		if container == nil || content == nil {
			continue
		}
		ec, ok := byContainer[container]
		if !ok {
			ec = &expandedContainer{container: container}
			byContainer[container] = ec
			order = append(order, container)
		}
		ec.contents = append(ec.contents, content)
	}

	result := make([]expandedContainer, 0, len(order))
	for _, c := range order {
		result = append(result, *byContainer[c])
	}
	return result
}

func expandSecurities(byID map[string]*dataflow.Node, securities []capability.SecurityRef) []expandedSecurity {
	bySecurity := make(map[*dataflow.Node]*expandedSecurity)
	var order []*dataflow.Node

	for _, s := range securities {
		sec := resolved(byID, s.Security)
		if sec == nil {
			continue
		}
		es, ok := bySecurity[sec]
		if !ok {
			es = &expandedSecurity{security: sec}
			bySecurity[sec] = es
			order = append(order, sec)
		}
		if s.From != "" {
			if f := resolved(byID, s.From); f != nil {
				es.from = append(es.from, f)
			}
		}
		if s.To != "" {
			if t := resolved(byID, s.To); t != nil {
				es.to = append(es.to, t)
			}
		}
	}

	result := make([]expandedSecurity, 0, len(order))
	for _, s := range order {
		result = append(result, *bySecurity[s])
	}
	return result
}

// containerContents returns the content set registered for container, and
// whether one is registered. Contents of a contained node that is itself a
// container are not added.
func containerContents(containers []expandedContainer, container *dataflow.Node) ([]*dataflow.Node, bool) {
	for _, c := range containers {
		if c.container == container {
			return c.contents, true
		}
	}
	return nil, false
}

// extendWithContainerContents appends, for every container among nodes, its
// registered contents — used to widen a security relation's from/to set
// before grafting when one endpoint is itself a container.
func extendWithContainerContents(nodes []*dataflow.Node, containers []expandedContainer) []*dataflow.Node {
	extended := append([]*dataflow.Node(nil), nodes...)
	for _, n := range nodes {
		if n.Capability == nil || !n.Capability.Container {
			continue
		}
		if contents, ok := containerContents(containers, n); ok {
			extended = append(extended, contents...)
		}
	}
	return extended
}

// graftSecurityNodes grafts every security relation onto the matching
// direct-flow edges (§4.3 step 7), then removes the edges the graft made
// redundant (step 8). Directed relations (non-empty from) are grafted
// before undirected ones, per spec.
func graftSecurityNodes(allNodes []*dataflow.Node, securities []expandedSecurity, containers []expandedContainer) {
	var directed, undirected []expandedSecurity
	for _, s := range securities {
		if len(s.from) > 0 {
			directed = append(directed, s)
		} else {
			undirected = append(undirected, s)
		}
	}

	type obsoleteEdge struct{ from, to, via *dataflow.Node }
	var obsolete []obsoleteEdge

	graft := func(s expandedSecurity) {
		from := extendWithContainerContents(s.from, containers)
		to := extendWithContainerContents(s.to, containers)

		var matches []struct{ from, to *dataflow.Node }
		if len(from) == 0 {
			for _, t := range to {
				for _, x := range allNodes {
					if !x.HasChild(t) {
						continue
					}
					if containsNode(to, x) {
						continue
					}
					if x.ID == s.security.ID {
						continue
					}
					matches = append(matches, struct{ from, to *dataflow.Node }{x, t})
				}
			}
		} else {
			for _, f := range from {
				for _, t := range to {
					if f.HasChild(t) {
						matches = append(matches, struct{ from, to *dataflow.Node }{f, t})
					}
				}
			}
		}

		for _, m := range matches {
			m.from.AddChild(s.security)
			s.security.AddChild(m.to)
			obsolete = append(obsolete, obsoleteEdge{from: m.from, to: m.to, via: s.security})
		}
	}

	for _, s := range directed {
		graft(s)
	}
	for _, s := range undirected {
		graft(s)
	}

	for _, e := range obsolete {
		conditionalRemoveEdge(allNodes, e.from, e.to, e.via)
	}
}

func containsNode(nodes []*dataflow.Node, n *dataflow.Node) bool {
	for _, x := range nodes {
		if x == n {
			return true
		}
	}
	return false
}

// conditionalRemoveEdge removes the direct edge from->to only if every node
// sharing via's id across the whole graph is already a child of from and
// itself reaches to (§4.3 step 8). The global node count (not just the
// reachable subset) is used deliberately — see DESIGN.md.
func conditionalRemoveEdge(allNodes []*dataflow.Node, from, to, via *dataflow.Node) {
	var guards []*dataflow.Node
	for _, c := range from.EffectiveChildren() {
		if c.ID == via.ID {
			guards = append(guards, c)
		}
	}

	totalWithID := 0
	for _, n := range allNodes {
		if n.ID == via.ID {
			totalWithID++
		}
	}
	if len(guards) != totalWithID {
		return
	}

	for _, g := range guards {
		if !g.HasChild(to) {
			return
		}
	}

	from.RemoveChild(to)
}

// dissolveContainers removes every container node from the live graph,
// rewiring its parents directly to its contents and its contents to its
// children (§4.3 step 9).
func dissolveContainers(allNodes []*dataflow.Node, containers []expandedContainer) {
	for _, c := range containers {
		var parents []*dataflow.Node
		for _, x := range allNodes {
			if x != c.container && x.HasChild(c.container) {
				parents = append(parents, x)
			}
		}
		var kids []*dataflow.Node
		for _, child := range c.container.EffectiveChildren() {
			if child != c.container {
				kids = append(kids, child)
			}
		}

		for _, content := range c.contents {
			if content == c.container {
				continue
			}
			for _, child := range kids {
				content.AddChild(child)
			}
			for _, parent := range parents {
				parent.AddChild(content)
			}
		}

		for _, parent := range parents {
			parent.RemoveChild(c.container)
		}
	}
}
