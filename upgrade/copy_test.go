package upgrade_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrasnipe/infrasnipe/dataflow"
	"github.com/infrasnipe/infrasnipe/upgrade"
)

func TestCopyGraph_DetachesChildren(t *testing.T) {
	root := dataflow.NewRoot()
	a := dataflow.NewPlain("a", "a")
	b := dataflow.NewPlain("b", "b")
	root.AddChild(a)
	a.AddChild(b)

	nodes, newRoot := upgrade.CopyGraph([]*dataflow.Node{root, a, b}, root)
	require.Len(t, nodes, 3)

	newA := findByID(nodes, "a")
	newB := findByID(nodes, "b")
	require.NotNil(t, newA)
	require.NotNil(t, newB)

	assert.NotSame(t, a, newA)
	assert.True(t, newRoot.HasChild(newA))
	assert.True(t, newA.HasChild(newB))
	assert.False(t, newA.HasChild(b), "copy must reference the new b, not the original")

	newA.RemoveChild(newB)
	assert.True(t, a.HasChild(b), "mutating the copy must not affect the original")
}

func TestCopyGraph_RewritesChoiceAlternatives(t *testing.T) {
	init := dataflow.NewPlain("a", "a")
	target := dataflow.NewPlain("a", "a")
	choice := dataflow.NewChoice(init, target)
	root := dataflow.NewRoot()
	root.AddChild(choice)

	nodes, newRoot := upgrade.CopyGraph([]*dataflow.Node{root, choice}, root)

	newChoice := findByID(nodes, "a")
	require.NotNil(t, newChoice)
	assert.NotSame(t, init, newChoice.Alt1)
	assert.NotSame(t, target, newChoice.Alt2)
	assert.True(t, newRoot.HasChild(newChoice))
}
