package capability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrasnipe/infrasnipe/capability"
)

func TestReferences_EmptyPathOnString(t *testing.T) {
	refs, err := capability.References("bucket-a", capability.Path{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bucket-a"}, refs)
}

func TestReferences_EmptyPathHarvestsRefs(t *testing.T) {
	content := map[string]interface{}{
		"Foo": map[string]interface{}{"Ref": "bucket-a"},
		"Bar": []interface{}{
			map[string]interface{}{"!Ref": "bucket-b"},
		},
	}
	refs, err := capability.References(content, capability.Path{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bucket-a", "bucket-b"}, refs)
}

func TestReferences_DescendsKeyPath(t *testing.T) {
	content := map[string]interface{}{
		"Properties": map[string]interface{}{
			"RoleId": "role-a",
		},
	}
	refs, err := capability.References(content, capability.Path{"Properties", "RoleId"})
	require.NoError(t, err)
	assert.Equal(t, []string{"role-a"}, refs)
}

func TestReferences_MissingKeyIsEmpty(t *testing.T) {
	content := map[string]interface{}{"Other": "x"}
	refs, err := capability.References(content, capability.Path{"Missing"})
	require.NoError(t, err)
	assert.Empty(t, refs)
}

// TestReferences_ListsUnionFlat exercises the documented deviation: a list
// encountered mid-path is flattened into the result, not wrapped as a
// nested sublist.
func TestReferences_ListsUnionFlat(t *testing.T) {
	content := []interface{}{
		map[string]interface{}{"Id": "a"},
		map[string]interface{}{"Id": "b"},
	}
	refs, err := capability.References(content, capability.Path{"Id"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, refs)
}

func TestFindRefs_GetAttStringForm(t *testing.T) {
	content := map[string]interface{}{"Fn::GetAtt": "queue-a.Arn"}
	refs, err := capability.FindRefs(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"queue-a"}, refs)
}

func TestFindRefs_GetAttListForm(t *testing.T) {
	content := map[string]interface{}{"Fn::GetAtt": []interface{}{"queue-a", "Arn"}}
	refs, err := capability.FindRefs(content)
	require.NoError(t, err)
	assert.Equal(t, []string{"queue-a"}, refs)
}

func TestFindRefs_MalformedGetAttSuffix(t *testing.T) {
	content := map[string]interface{}{"Fn::GetAtt": "queue-a"}
	_, err := capability.FindRefs(content)
	assert.ErrorIs(t, err, capability.ErrMalformedValue)
}

func TestFindRefs_MalformedRefType(t *testing.T) {
	content := map[string]interface{}{"Ref": 42}
	_, err := capability.FindRefs(content)
	assert.ErrorIs(t, err, capability.ErrMalformedValue)
}

func TestFindDependencies_UniformRecognition(t *testing.T) {
	entry := map[string]interface{}{
		"Type": "AWS::S3::BucketPolicy",
		"Properties": map[string]interface{}{
			"Bucket": map[string]interface{}{"Ref": "bucket-a"},
		},
		"DependsOn": []interface{}{"role-a", "role-b"},
	}
	deps, err := capability.FindDependencies(entry)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bucket-a", "role-a", "role-b"}, deps)
}

func TestFindDependencies_DependsOnSingleString(t *testing.T) {
	entry := map[string]interface{}{"DependsOn": "role-a"}
	deps, err := capability.FindDependencies(entry)
	require.NoError(t, err)
	assert.Equal(t, []string{"role-a"}, deps)
}
