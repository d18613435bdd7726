package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrasnipe/infrasnipe/capability"
)

func ref(id string) map[string]interface{} {
	return map[string]interface{}{"Ref": id}
}

func TestDescriptor_Edges_Outgoing(t *testing.T) {
	d := &capability.Descriptor{Outgoing: []capability.Path{{"Volumes"}}}
	config := map[string]interface{}{"Volumes": ref("vol-a")}
	edges, err := d.Edges("instance-a", config)
	require.NoError(t, err)
	assert.Equal(t, []capability.EdgeRef{{From: "instance-a", To: "vol-a"}}, edges)
}

func TestDescriptor_Edges_Incoming(t *testing.T) {
	d := &capability.Descriptor{Incoming: []capability.Path{{"Integration"}}}
	config := map[string]interface{}{"Integration": ref("lambda-a")}
	edges, err := d.Edges("method-a", config)
	require.NoError(t, err)
	assert.Equal(t, []capability.EdgeRef{{From: "lambda-a", To: "method-a"}}, edges)
}

func TestDescriptor_Edges_CreateBetween(t *testing.T) {
	d := &capability.Descriptor{
		CreateBetween: [][2]capability.Path{{{"InternetGatewayId"}, {"VpcId"}}},
	}
	config := map[string]interface{}{
		"InternetGatewayId": ref("igw-a"),
		"VpcId":             ref("vpc-a"),
	}
	edges, err := d.Edges("attach-a", config)
	require.NoError(t, err)
	assert.Equal(t, []capability.EdgeRef{{From: "igw-a", To: "vpc-a"}}, edges)
}

func TestDescriptor_SecurityEdges_AllFiveRules(t *testing.T) {
	d := &capability.Descriptor{
		ProtectEntranceOf: []capability.Path{{"EntranceOf"}},
		ProtectEntranceBy: []capability.Path{{"EntranceBy"}},
		ProtectBetween:    [][2]capability.Path{{{"Between1"}, {"Between2"}}},
		ProtectExitOf:     []capability.Path{{"ExitOf"}},
		ProtectExitBy:     []capability.Path{{"ExitBy"}},
	}
	config := map[string]interface{}{
		"EntranceOf": ref("x1"),
		"EntranceBy": ref("x2"),
		"Between1":   ref("x3"),
		"Between2":   ref("x4"),
		"ExitOf":     ref("x5"),
		"ExitBy":     ref("x6"),
	}
	edges, err := d.SecurityEdges("ctx", config)
	require.NoError(t, err)
	assert.Contains(t, edges, capability.SecurityRef{Security: "ctx", To: "x1"})
	assert.Contains(t, edges, capability.SecurityRef{Security: "x2", To: "ctx"})
	assert.Contains(t, edges, capability.SecurityRef{Security: "x3", To: "x4"})
	assert.Contains(t, edges, capability.SecurityRef{Security: "x5", From: "ctx"})
	assert.Contains(t, edges, capability.SecurityRef{Security: "ctx", From: "x6"})
}

func TestDescriptor_ContainRefs(t *testing.T) {
	d := &capability.Descriptor{
		Contains:    []capability.Path{{"Roles"}},
		ContainedIn: []capability.Path{{"VpcId"}},
	}
	config := map[string]interface{}{
		"Roles": ref("role-a"),
		"VpcId": ref("vpc-a"),
	}
	refs, err := d.ContainRefs("ctx", config)
	require.NoError(t, err)
	assert.Contains(t, refs, capability.ContainRef{Container: "ctx", Content: "role-a"})
	assert.Contains(t, refs, capability.ContainRef{Container: "vpc-a", Content: "ctx"})
}

func TestDescriptor_IsAccessible(t *testing.T) {
	plain := &capability.Descriptor{Accessible: true}
	assert.True(t, plain.IsAccessible())

	security := &capability.Descriptor{Accessible: true, Security: true}
	assert.False(t, security.IsAccessible())

	var nilDescriptor *capability.Descriptor
	assert.False(t, nilDescriptor.IsAccessible())
}

func TestDescriptor_NilIsSafe(t *testing.T) {
	var d *capability.Descriptor
	edges, err := d.Edges("ctx", map[string]interface{}{})
	require.NoError(t, err)
	assert.Nil(t, edges)
}
