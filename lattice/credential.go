// Package lattice implements the small security-credential lattice that the
// dataflow engine propagates through a resource graph.
//
// A Credential is an immutable, acyclic value: the bottom element None
// (satisfied by any caller), the top element Inaccessible (satisfied by no
// caller), a named Module atom, and the two composites And/Or built from
// smaller credentials. Credentials are built only through the constructors
// below and never mutated in place, so Weaker terminates on any credential
// tree regardless of how it was assembled.
//
// Complexity:
//
//   - Weaker, Join, Meet: O(size of a × size of b) in the worst case, since
//     each Module leaf of one operand may be compared against every leaf of
//     the other.
package lattice

import "fmt"

// kind enumerates the five credential variants. It is unexported: Credential
// is a closed type, and callers distinguish variants through the
// constructors and Weaker/Join/Meet rather than a type switch.
type kind int

const (
	kindNone kind = iota
	kindInaccessible
	kindModule
	kindAnd
	kindOr
)

// Credential is a value in the security lattice. The zero Credential is not
// meaningful; always obtain one from None, Inaccessible, Module, And, or Or.
type Credential struct {
	kind kind
	name string      // kindModule: the module name
	a, b *Credential // kindAnd, kindOr: the two operands
}

// None returns the bottom credential: weaker than everything, including
// itself. It models "no authentication required".
func None() Credential {
	return Credential{kind: kindNone}
}

// Inaccessible returns the top credential: stronger than everything except
// itself. It models "cannot be reached at all", and is the default security
// requirement assigned to every node before propagation runs.
func Inaccessible() Credential {
	return Credential{kind: kindInaccessible}
}

// Module returns an atomic credential identified by name. Two Module
// credentials are comparable only by equality of name.
func Module(name string) Credential {
	return Credential{kind: kindModule, name: name}
}

// And returns the conjunction of a and b: satisfied only when both are.
func And(a, b Credential) Credential {
	return Credential{kind: kindAnd, a: &a, b: &b}
}

// Or returns the disjunction of a and b: satisfied when either is.
func Or(a, b Credential) Credential {
	return Credential{kind: kindOr, a: &a, b: &b}
}

// String renders a Credential for diagnostics and findings messages.
func (c Credential) String() string {
	switch c.kind {
	case kindNone:
		return "None"
	case kindInaccessible:
		return "Inaccessible"
	case kindModule:
		return c.name
	case kindAnd:
		return fmt.Sprintf("(%s and %s)", c.a, c.b)
	case kindOr:
		return fmt.Sprintf("(%s or %s)", c.a, c.b)
	default:
		return "Unknown"
	}
}

// Equal reports structural equality: atoms compare by name, composites
// recurse into both operands in order.
func Equal(a, b Credential) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case kindNone, kindInaccessible:
		return true
	case kindModule:
		return a.name == b.name
	case kindAnd, kindOr:
		return Equal(*a.a, *b.a) && Equal(*a.b, *b.b)
	default:
		return false
	}
}

// Weaker reports whether a is weaker than (or equal to) b, i.e. anyone who
// holds b can also pass a check for a. This is the lattice's partial order,
// "≤" in the specification.
//
//   - None ≤ x for all x.
//   - x ≤ Inaccessible for all x.
//   - Module(m) ≤ Module(n) ⇔ m = n.
//   - And(a,b) ≤ x ⇔ a ≤ x ∧ b ≤ x;   x ≤ And(a,b) ⇔ x ≤ a ∨ x ≤ b.
//   - Or(a,b)  ≤ x ⇔ a ≤ x ∨ b ≤ x;   x ≤ Or(a,b)  ⇔ x ≤ a ∧ x ≤ b.
//
// Weaker and moreSecure are mutually recursive, dispatching on the left
// operand's shape, mirroring the reference implementation's
// is_less_secure_than/is_more_secure_than pair exactly so that the x ≤
// And(a,b) / x ≤ Or(a,b) cases (which only make sense when *read from b's
// side*) are handled by recursing into moreSecure rather than duplicating
// the logic inline. Structurally equal credentials are checked first, so
// Weaker(a, a) holds for every a, including Or(x, y), which the
// left-operand dispatch alone would reject.
func Weaker(a, b Credential) bool {
	if Equal(a, b) {
		return true
	}
	switch a.kind {
	case kindNone:
		return true
	case kindInaccessible:
		return b.kind == kindInaccessible
	case kindModule:
		if b.kind == kindModule {
			return a.name == b.name
		}
		return moreSecure(b, a)
	case kindAnd:
		return Weaker(*a.a, b) && Weaker(*a.b, b)
	case kindOr:
		return Weaker(*a.a, b) || Weaker(*a.b, b)
	default:
		return false
	}
}

// moreSecure reports a.is_more_secure_than(b) from the reference
// implementation: the dual of Weaker, used only to resolve Module vs.
// composite comparisons from the stronger side.
func moreSecure(a, b Credential) bool {
	switch a.kind {
	case kindNone:
		return b.kind == kindNone
	case kindInaccessible:
		return true
	case kindModule:
		if b.kind == kindModule {
			return a.name == b.name
		}
		return Weaker(b, a)
	case kindAnd:
		return moreSecure(*a.a, b) || moreSecure(*a.b, b)
	case kindOr:
		return moreSecure(*a.a, b) && moreSecure(*a.b, b)
	default:
		return false
	}
}

// Join returns the weaker of a and b when they are comparable, otherwise
// Or(a,b). Join models "either path reaches the node" — used when two
// dataflow paths converge on the same node during propagation.
func Join(a, b Credential) Credential {
	if Weaker(a, b) {
		return a
	}
	if Weaker(b, a) {
		return b
	}
	return Or(a, b)
}

// Meet returns the stronger of a and b when they are comparable, otherwise
// And(a,b). Meet models "both credentials are required" — used when a
// security node stacks its own requirement onto an already-required one.
func Meet(a, b Credential) Credential {
	if Weaker(a, b) {
		return b
	}
	if Weaker(b, a) {
		return a
	}
	return And(a, b)
}
