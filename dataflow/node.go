// Package dataflow implements the resource graph: a closed, five-variant
// tagged union of nodes connected by direct-flow edges and rollout
// dependencies, plus the monotone fixed-point that propagates security
// credentials through it.
//
// A Node is built only through the constructors below. Its Children and
// Dependencies sets are ordered by insertion but logically sets: AddChild
// and AddDependency reject duplicates and self-loops silently, matching the
// graph invariants the builder relies on.
package dataflow

import "github.com/infrasnipe/infrasnipe/lattice"
import "github.com/infrasnipe/infrasnipe/capability"

// Kind discriminates the five node variants. It is exported (unlike
// lattice's credential kind) because callers — the builder, the checker,
// the renderer — all need to branch on it.
type Kind int

const (
	// KindPlain is an ordinary resource: no intrinsic credential of its own.
	KindPlain Kind = iota
	// KindSecurity is a filter node: traversing it imposes Self on everyone
	// downstream, in addition to the usual join from its own reachability.
	KindSecurity
	// KindEmpty is a placeholder for "this resource does not exist in this
	// end-state". It appears only in transient (upgrade) graphs.
	KindEmpty
	// KindRoot is the synthetic source of all external traffic, "Web".
	// Exactly one exists per graph.
	KindRoot
	// KindChoice stands for "either Alt1 (initial) or Alt2 (target)" at
	// rollout time.
	KindChoice
)

// Node is one vertex of a resource graph. Which fields are meaningful
// depends on Kind: Self only for KindSecurity, Alt1/Alt2 only for
// KindChoice; all other fields apply uniformly.
type Node struct {
	ID   string
	Name string
	Kind Kind

	Children     []*Node
	Dependencies []*Node

	Security lattice.Credential

	Capability *capability.Descriptor
	Origin     capability.Origin
	RawConfig  map[string]interface{}

	// Self is the intrinsic credential of a KindSecurity node, stacked onto
	// its propagated Security via Meet. Unused for every other Kind.
	Self lattice.Credential

	// Alt1 and Alt2 are the two alternatives of a KindChoice node. Alt1 is
	// always the initial-state resource, Alt2 always the target-state one,
	// regardless of discovery order. Unused for every other Kind.
	Alt1, Alt2 *Node
}

// NewPlain returns an ordinary resource node with Security initialized to
// Inaccessible, the default every node starts propagation from.
func NewPlain(id, name string) *Node {
	return &Node{ID: id, Name: name, Kind: KindPlain, Security: lattice.Inaccessible()}
}

// NewSecurity returns a security node whose intrinsic credential is self.
// If self is the zero Credential, it defaults to Module(name), matching the
// reference implementation's default of naming the module after the node.
func NewSecurity(id, name string, self lattice.Credential) *Node {
	if lattice.Equal(self, lattice.Credential{}) {
		self = lattice.Module(name)
	}
	return &Node{ID: id, Name: name, Kind: KindSecurity, Security: lattice.Inaccessible(), Self: self}
}

// NewEmpty returns a placeholder node for a resource absent from one
// end-state of an upgrade.
func NewEmpty(id, name string) *Node {
	return &Node{ID: id, Name: name, Kind: KindEmpty, Security: lattice.Inaccessible()}
}

// NewRoot returns the synthetic source of external traffic, with Security
// set to None — every request starts unauthenticated.
func NewRoot() *Node {
	return &Node{ID: "Web", Name: "Web", Kind: KindRoot, Security: lattice.None()}
}

// NewChoice returns a choice node standing for alt1 (initial) or alt2
// (target). It takes alt1's id and name as its own, mirroring the reference
// implementation.
func NewChoice(alt1, alt2 *Node) *Node {
	return &Node{ID: alt1.ID, Name: alt1.Name, Kind: KindChoice, Security: lattice.Inaccessible(), Alt1: alt1, Alt2: alt2}
}

// HasChild reports whether n already has child as an out-edge target. For a
// KindChoice node this checks both alternatives, since a choice node's own
// Children set is never populated.
func (n *Node) HasChild(child *Node) bool {
	if n.Kind == KindChoice {
		return n.Alt1.HasChild(child) || n.Alt2.HasChild(child)
	}
	for _, c := range n.Children {
		if c == child {
			return true
		}
	}
	return false
}

// AddChild adds child as an out-edge target. A self-loop or a duplicate
// edge is silently ignored. For a KindChoice node the edge is added to both
// alternatives, so whichever branch survives dependency splitting keeps it.
func (n *Node) AddChild(child *Node) {
	if n.Kind == KindChoice {
		n.Alt1.AddChild(child)
		n.Alt2.AddChild(child)
		return
	}
	if child == n || n.HasChild(child) {
		return
	}
	n.Children = append(n.Children, child)
}

// RemoveChild removes child from the out-edge set, if present. Delegated to
// both alternatives for a KindChoice node.
func (n *Node) RemoveChild(child *Node) {
	if n.Kind == KindChoice {
		n.Alt1.RemoveChild(child)
		n.Alt2.RemoveChild(child)
		return
	}
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return
		}
	}
}

// ReplaceChild substitutes old with to among n's children. If to is already
// a child, old is simply dropped (to avoid a duplicate edge); otherwise old
// is replaced in place, preserving order. For a KindChoice node the
// substitution is delegated to both alternatives, since a choice node's own
// Children set is never populated.
func (n *Node) ReplaceChild(old, to *Node) {
	if n.Kind == KindChoice {
		n.Alt1.ReplaceChild(old, to)
		n.Alt2.ReplaceChild(old, to)
		return
	}
	if n.HasChild(to) {
		n.RemoveChild(old)
		return
	}
	for i, c := range n.Children {
		if c == old {
			n.Children[i] = to
		}
	}
}

// HasDependency reports whether n already depends on dep. Delegated to both
// alternatives for a KindChoice node.
func (n *Node) HasDependency(dep *Node) bool {
	if n.Kind == KindChoice {
		return n.Alt1.HasDependency(dep) || n.Alt2.HasDependency(dep)
	}
	for _, d := range n.Dependencies {
		if d == dep {
			return true
		}
	}
	return false
}

// AddDependency adds dep as an ordering dependency. A self-dependency or a
// duplicate is silently ignored. Delegated to both alternatives for a
// KindChoice node.
func (n *Node) AddDependency(dep *Node) {
	if n.Kind == KindChoice {
		n.Alt1.AddDependency(dep)
		n.Alt2.AddDependency(dep)
		return
	}
	if dep == n || n.HasDependency(dep) {
		return
	}
	n.Dependencies = append(n.Dependencies, dep)
}

// RemoveDependency removes dep from the dependency set, if present.
// Delegated to both alternatives for a KindChoice node.
func (n *Node) RemoveDependency(dep *Node) {
	if n.Kind == KindChoice {
		n.Alt1.RemoveDependency(dep)
		n.Alt2.RemoveDependency(dep)
		return
	}
	for i, d := range n.Dependencies {
		if d == dep {
			n.Dependencies = append(n.Dependencies[:i], n.Dependencies[i+1:]...)
			return
		}
	}
}

// ReplaceDependency is the dependency analogue of ReplaceChild.
func (n *Node) ReplaceDependency(old, to *Node) {
	if n.Kind == KindChoice {
		n.Alt1.ReplaceDependency(old, to)
		n.Alt2.ReplaceDependency(old, to)
		return
	}
	if n.HasDependency(to) {
		n.RemoveDependency(old)
		return
	}
	for i, d := range n.Dependencies {
		if d == old {
			n.Dependencies[i] = to
		}
	}
}

// SetSecurity overwrites n's current security requirement outright, with no
// join against the previous value. Used to seed propagation (root to None,
// everyone else to Inaccessible — already the constructors' defaults) and
// by tests.
func (n *Node) SetSecurity(c lattice.Credential) {
	n.Security = c
}

// UpdateSecurity joins c into n's current security requirement. A
// KindSecurity node additionally stacks its own Self credential via Meet,
// so traversing it never weakens the requirement below what it itself
// demands. A KindChoice node propagates into both alternatives as well as
// updating its own (otherwise unused) Security field, so Flatten-based
// reporting still sees a joined value on the choice node itself.
func (n *Node) UpdateSecurity(c lattice.Credential) {
	n.Security = lattice.Join(n.Security, c)
	if n.Kind == KindSecurity {
		n.Security = lattice.Meet(n.Security, n.Self)
	}
	if n.Kind == KindChoice {
		n.Alt1.UpdateSecurity(c)
		n.Alt2.UpdateSecurity(c)
	}
}

// ComputeSecurity propagates n's current Security to every child, recursing
// only where the child's requirement became strictly weaker — the standard
// early-exit for a monotone fixed point over a finite-height lattice. A
// KindChoice node instead recurses directly into both alternatives, since
// its own Children set is never populated.
func (n *Node) ComputeSecurity() {
	if n.Kind == KindChoice {
		n.Alt1.ComputeSecurity()
		n.Alt2.ComputeSecurity()
		return
	}
	for _, child := range n.Children {
		before := child.Security
		child.UpdateSecurity(n.Security)
		if lattice.Weaker(child.Security, before) && !lattice.Weaker(before, child.Security) {
			child.ComputeSecurity()
		}
	}
}

// Flatten returns the reachable closure of n, including n itself, each node
// appearing exactly once in discovery order. A KindChoice node's closure
// includes both alternatives' closures.
func (n *Node) Flatten() []*Node {
	return n.flattenInto(nil)
}

// EffectiveChildren returns n's out-edge targets for read-only enumeration.
// A KindChoice node's own Children field is never populated, so this
// returns the union (deduplicated) of both alternatives' children instead —
// used by container dissolution (package builder), which needs to read a
// container's child set rather than just test membership.
func (n *Node) EffectiveChildren() []*Node {
	if n.Kind != KindChoice {
		return n.Children
	}
	var result []*Node
	seen := func(c *Node) bool {
		for _, r := range result {
			if r == c {
				return true
			}
		}
		return false
	}
	for _, c := range n.Alt1.Children {
		if !seen(c) {
			result = append(result, c)
		}
	}
	for _, c := range n.Alt2.Children {
		if !seen(c) {
			result = append(result, c)
		}
	}
	return result
}

// EffectiveDependencies returns n's ordering dependencies for read-only
// enumeration. A KindChoice node's own Dependencies field is never
// populated (the builder's addDependencies attaches dependencies to the
// target side, Alt2, only), so this returns the
// union (deduplicated) of both alternatives' dependencies instead.
func (n *Node) EffectiveDependencies() []*Node {
	if n.Kind != KindChoice {
		return n.Dependencies
	}
	var result []*Node
	seen := func(d *Node) bool {
		for _, r := range result {
			if r == d {
				return true
			}
		}
		return false
	}
	for _, d := range n.Alt1.Dependencies {
		if !seen(d) {
			result = append(result, d)
		}
	}
	for _, d := range n.Alt2.Dependencies {
		if !seen(d) {
			result = append(result, d)
		}
	}
	return result
}

func (n *Node) flattenInto(result []*Node) []*Node {
	for _, r := range result {
		if r == n {
			return result
		}
	}
	result = append(result, n)
	if n.Kind == KindChoice {
		result = n.Alt1.flattenInto(result)
		result = n.Alt2.flattenInto(result)
		return result
	}
	for _, child := range n.Children {
		result = child.flattenInto(result)
	}
	return result
}

// Copy returns a detached copy of n: same id, name, kind, capability,
// origin, raw config, and (for a KindChoice node) the same Alt1/Alt2
// pointers, with Children and Dependencies copied into fresh slices that
// still reference the *old* nodes — CopyGraph (package upgrade) rewrites
// those references in a second pass. Security resets to Inaccessible,
// matching the reference implementation: a copy is a blank slate for
// propagation, not a snapshot of it.
func (n *Node) Copy() *Node {
	return &Node{
		ID:           n.ID,
		Name:         n.Name,
		Kind:         n.Kind,
		Children:     append([]*Node(nil), n.Children...),
		Dependencies: append([]*Node(nil), n.Dependencies...),
		Security:     lattice.Inaccessible(),
		Capability:   n.Capability,
		Origin:       n.Origin,
		RawConfig:    n.RawConfig,
		Self:         n.Self,
		Alt1:         n.Alt1,
		Alt2:         n.Alt2,
	}
}
