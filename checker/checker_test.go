package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/checker"
	"github.com/infrasnipe/infrasnipe/dataflow"
	"github.com/infrasnipe/infrasnipe/lattice"
)

func propagated(root *dataflow.Node) *dataflow.Node {
	root.SetSecurity(lattice.None())
	root.ComputeSecurity()
	return root
}

func TestCheck_UnchangedProtectedResourceHasNoFinding(t *testing.T) {
	before := dataflow.NewRoot()
	sec := dataflow.NewSecurity("s", "s", lattice.Credential{})
	protectedBefore := dataflow.NewPlain("p", "p")
	protectedBefore.Origin = capability.OriginInitial
	before.AddChild(sec)
	sec.AddChild(protectedBefore)
	propagated(before)

	after := dataflow.NewRoot()
	sec2 := dataflow.NewSecurity("s", "s", lattice.Credential{})
	protectedAfter := dataflow.NewPlain("p", "p")
	protectedAfter.Origin = capability.OriginTarget
	after.AddChild(sec2)
	sec2.AddChild(protectedAfter)
	propagated(after)

	upgradeGraph := dataflow.NewRoot()
	secU := dataflow.NewSecurity("s", "s", lattice.Credential{})
	protectedU := dataflow.NewPlain("p", "p")
	protectedU.Origin = capability.OriginInitial
	upgradeGraph.AddChild(secU)
	secU.AddChild(protectedU)
	propagated(upgradeGraph)

	findings, err := checker.Check(before, upgradeGraph, after)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheck_DroppedGuardDuringRolloutIsFlagged(t *testing.T) {
	before := dataflow.NewRoot()
	sec := dataflow.NewSecurity("s", "s", lattice.Credential{})
	protectedBefore := dataflow.NewPlain("p", "p")
	before.AddChild(sec)
	sec.AddChild(protectedBefore)
	propagated(before)

	after := dataflow.NewRoot()
	sec2 := dataflow.NewSecurity("s", "s", lattice.Credential{})
	protectedAfter := dataflow.NewPlain("p", "p")
	after.AddChild(sec2)
	sec2.AddChild(protectedAfter)
	propagated(after)

	// In the transient, p is briefly directly reachable from root (the
	// guard has not been wired back up yet).
	upgradeGraph := dataflow.NewRoot()
	protectedU := dataflow.NewPlain("p", "p")
	protectedU.Origin = capability.OriginInitial
	upgradeGraph.AddChild(protectedU)
	propagated(upgradeGraph)

	findings, err := checker.Check(before, upgradeGraph, after)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, "p", findings[0].NodeID)
	assert.Equal(t, checker.FindingWeakened, findings[0].Kind)
}

func TestCheck_DisappearingExposedResourceIsFlagged(t *testing.T) {
	before := dataflow.NewRoot()
	bucket := dataflow.NewPlain("b", "b")
	before.AddChild(bucket)
	propagated(before)

	after := dataflow.NewRoot()
	propagated(after)

	upgradeGraph := dataflow.NewRoot()
	bucketU := dataflow.NewPlain("b", "b")
	bucketU.Origin = capability.OriginInitial
	empty := dataflow.NewEmpty("b", "b")
	empty.Origin = capability.OriginTarget
	choice := dataflow.NewChoice(bucketU, empty)
	upgradeGraph.AddChild(choice)
	propagated(upgradeGraph)

	findings, err := checker.Check(before, upgradeGraph, after)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, checker.FindingExistence, findings[0].Kind)
}

func TestCheck_InconsistentGraphIsAnError(t *testing.T) {
	before := dataflow.NewRoot()
	propagated(before)
	after := dataflow.NewRoot()
	propagated(after)

	upgradeGraph := dataflow.NewRoot()
	orphan := dataflow.NewPlain("ghost", "ghost")
	orphan.Origin = capability.OriginInitial
	upgradeGraph.AddChild(orphan)
	propagated(upgradeGraph)

	_, err := checker.Check(before, upgradeGraph, after)
	require.Error(t, err)
}
