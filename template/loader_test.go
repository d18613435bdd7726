package template_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/template"
)

func writeTemplate(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func findNode(nodes []capability.AbstractNode, id string) *capability.AbstractNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

const jsonTemplate = `{
  "Resources": {
    "Bucket": {
      "Type": "AWS::S3::Bucket",
      "Properties": {"AccessControl": "Private"}
    },
    "Role": {
      "Type": "AWS::IAM::Role",
      "Properties": {}
    },
    "Fn": {
      "Type": "AWS::Lambda::Function",
      "DependsOn": "Role",
      "Properties": {"Role": {"Ref": "Role"}}
    },
    "Mystery": {
      "Type": "Acme::Unsupported::Widget",
      "Properties": {}
    }
  }
}`

func TestFileLoader_LoadsKnownResourcesFromJSON(t *testing.T) {
	path := writeTemplate(t, "tmpl.json", jsonTemplate)
	loader := template.NewFileLoader(capability.OriginInitial, nil)

	nodes, err := loader.Load(path)
	require.NoError(t, err)

	require.NotNil(t, findNode(nodes, "Bucket"))
	require.NotNil(t, findNode(nodes, "Role"))
	require.NotNil(t, findNode(nodes, "Fn"))
	assert.Nil(t, findNode(nodes, "Mystery"), "unknown resource types are skipped")

	for _, n := range nodes {
		assert.Equal(t, capability.OriginInitial, n.Origin)
	}
}

const yamlTemplate = `
Resources:
  Bucket:
    Type: AWS::S3::Bucket
    Properties:
      AccessControl: Private
  Role:
    Type: AWS::IAM::Role
    Properties: {}
  Fn:
    Type: AWS::Lambda::Function
    DependsOn: Role
    Properties:
      Role: !Ref Role
  Mystery:
    Type: Acme::Unsupported::Widget
    Properties: {}
`

func TestFileLoader_LoadsKnownResourcesFromYAML(t *testing.T) {
	path := writeTemplate(t, "tmpl.yaml", yamlTemplate)
	loader := template.NewFileLoader(capability.OriginTarget, nil)

	nodes, err := loader.Load(path)
	require.NoError(t, err)

	require.NotNil(t, findNode(nodes, "Bucket"))
	require.NotNil(t, findNode(nodes, "Role"))
	fn := findNode(nodes, "Fn")
	require.NotNil(t, fn)
	assert.Nil(t, findNode(nodes, "Mystery"))

	for _, n := range nodes {
		assert.Equal(t, capability.OriginTarget, n.Origin)
	}

	// !Ref Role must normalize to the same shape the JSON long form
	// ({"Ref": "Role"}) parses to, so dependency mining treats them alike.
	deps, err := capability.FindDependencies(fn.Config)
	require.NoError(t, err)
	assert.Contains(t, deps, "Role")
}

func TestFileLoader_JSONAndYAMLAgreeOnDependencies(t *testing.T) {
	jsonPath := writeTemplate(t, "a.json", jsonTemplate)
	yamlPath := writeTemplate(t, "a.yaml", yamlTemplate)
	loader := template.NewFileLoader(capability.OriginInitial, nil)

	jsonNodes, err := loader.Load(jsonPath)
	require.NoError(t, err)
	yamlNodes, err := loader.Load(yamlPath)
	require.NoError(t, err)

	jsonFn := findNode(jsonNodes, "Fn")
	yamlFn := findNode(yamlNodes, "Fn")
	require.NotNil(t, jsonFn)
	require.NotNil(t, yamlFn)

	jsonDeps, err := capability.FindDependencies(jsonFn.Config)
	require.NoError(t, err)
	yamlDeps, err := capability.FindDependencies(yamlFn.Config)
	require.NoError(t, err)
	assert.ElementsMatch(t, jsonDeps, yamlDeps)
}

func TestFileLoader_MissingResourcesSectionIsNotAnError(t *testing.T) {
	path := writeTemplate(t, "empty.json", `{"Description": "nothing here"}`)
	loader := template.NewFileLoader(capability.OriginInitial, nil)

	nodes, err := loader.Load(path)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFileLoader_MalformedJSONIsAnError(t *testing.T) {
	path := writeTemplate(t, "broken.json", `{not valid json`)
	loader := template.NewFileLoader(capability.OriginInitial, nil)

	_, err := loader.Load(path)
	assert.ErrorIs(t, err, template.ErrMalformedTemplate)
}

func TestFileLoader_ResourceMissingTypeIsSkipped(t *testing.T) {
	path := writeTemplate(t, "notype.json", `{"Resources": {"X": {"Properties": {}}}}`)
	loader := template.NewFileLoader(capability.OriginInitial, nil)

	nodes, err := loader.Load(path)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}
