package capability

// Edges resolves a Descriptor's Outgoing, Incoming, and CreateBetween rules
// against one resource's raw configuration, producing the direct-flow edges
// that resource contributes to the graph (§4.4).
func (d *Descriptor) Edges(id string, config interface{}) ([]EdgeRef, error) {
	if d == nil {
		return nil, nil
	}

	var edges []EdgeRef

	for _, path := range d.Outgoing {
		refs, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			edges = append(edges, EdgeRef{From: id, To: ref})
		}
	}

	for _, path := range d.Incoming {
		refs, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			edges = append(edges, EdgeRef{From: ref, To: id})
		}
	}

	for _, pair := range d.CreateBetween {
		firsts, err := References(config, pair[0])
		if err != nil {
			return nil, err
		}
		seconds, err := References(config, pair[1])
		if err != nil {
			return nil, err
		}
		for _, from := range firsts {
			for _, to := range seconds {
				edges = append(edges, EdgeRef{From: from, To: to})
			}
		}
	}

	return edges, nil
}

// SecurityEdges resolves a Descriptor's Protect* rules against one
// resource's raw configuration, producing the security relations that
// resource contributes to the graph (§4.4). Non-security descriptors carry
// these rules too (ProtectEntranceBy names the security nodes guarding the
// resource itself); the method is safe to call on any Descriptor.
func (d *Descriptor) SecurityEdges(id string, config interface{}) ([]SecurityRef, error) {
	if d == nil {
		return nil, nil
	}

	var refs []SecurityRef

	for _, path := range d.ProtectEntranceOf {
		targets, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, to := range targets {
			refs = append(refs, SecurityRef{Security: id, To: to})
		}
	}

	for _, path := range d.ProtectEntranceBy {
		securities, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, sec := range securities {
			refs = append(refs, SecurityRef{Security: sec, To: id})
		}
	}

	for _, pair := range d.ProtectBetween {
		securities, err := References(config, pair[0])
		if err != nil {
			return nil, err
		}
		targets, err := References(config, pair[1])
		if err != nil {
			return nil, err
		}
		for _, sec := range securities {
			for _, to := range targets {
				refs = append(refs, SecurityRef{Security: sec, To: to})
			}
		}
	}

	for _, path := range d.ProtectExitOf {
		securities, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, sec := range securities {
			refs = append(refs, SecurityRef{Security: sec, From: id})
		}
	}

	for _, path := range d.ProtectExitBy {
		targets, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, from := range targets {
			refs = append(refs, SecurityRef{Security: id, From: from})
		}
	}

	return refs, nil
}

// ContainRefs resolves a Descriptor's Contains and ContainedIn rules against
// one resource's raw configuration, producing the containment relations
// that resource contributes to the graph (§4.4, consumed by container
// expansion and dissolution in package builder).
func (d *Descriptor) ContainRefs(id string, config interface{}) ([]ContainRef, error) {
	if d == nil {
		return nil, nil
	}

	var refs []ContainRef

	for _, path := range d.Contains {
		contents, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, content := range contents {
			refs = append(refs, ContainRef{Container: id, Content: content})
		}
	}

	for _, path := range d.ContainedIn {
		containers, err := References(config, path)
		if err != nil {
			return nil, err
		}
		for _, container := range containers {
			refs = append(refs, ContainRef{Container: container, Content: id})
		}
	}

	return refs, nil
}
