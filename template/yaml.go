package template

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// cfnShortTags are the CloudFormation intrinsic-function short forms a
// template author can write as a YAML tag (e.g. "!Ref Bucket" instead of
// "Ref: Bucket"). Each is normalized to a single-entry {tag: content} map
// keyed by the tag itself (e.g. {"!Ref": "Bucket"}), the same nested-map
// shape the long form parses to; reference extraction recognizes "!Ref"
// alongside "Ref".
var cfnShortTags = map[string]bool{
	"!Not":         true,
	"!Equals":      true,
	"!If":          true,
	"!Ref":         true,
	"!Sub":         true,
	"!GetAtt":      true,
	"!And":         true,
	"!Condition":   true,
	"!Select":      true,
	"!Split":       true,
	"!FindInMap":   true,
	"!Join":        true,
	"!ImportValue": true,
	"!GetAZs":      true,
	"!Base64":      true,
}

// parseYAML decodes data into the same generic map[string]interface{} /
// []interface{} / scalar shape encoding/json would produce, with every
// CloudFormation short-form tag rewritten to a {"!Name": content} —
// style single-entry map keyed by the tag.
func parseYAML(data []byte) (map[string]interface{}, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	if len(root.Content) == 0 {
		return map[string]interface{}{}, nil
	}

	decoded, err := decodeYAMLNode(root.Content[0])
	if err != nil {
		return nil, err
	}
	doc, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: template root is not a mapping", ErrMalformedTemplate)
	}
	return doc, nil
}

func decodeYAMLNode(n *yaml.Node) (interface{}, error) {
	if n.Kind == yaml.AliasNode {
		return decodeYAMLNode(n.Alias)
	}

	tag, tagged := cfnShortTags[n.Tag]

	switch n.Kind {
	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
		}
		if tagged && tag {
			return map[string]interface{}{n.Tag: v}, nil
		}
		return v, nil

	case yaml.SequenceNode:
		items := make([]interface{}, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		if tagged && tag {
			return map[string]interface{}{n.Tag: items}, nil
		}
		return items, nil

	case yaml.MappingNode:
		m := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			var key string
			if err := keyNode.Decode(&key); err != nil {
				return nil, fmt.Errorf("%w: non-string map key", ErrMalformedTemplate)
			}
			val, err := decodeYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[key] = val
		}
		if tagged && tag {
			return map[string]interface{}{n.Tag: m}, nil
		}
		return m, nil

	default:
		return nil, fmt.Errorf("%w: unsupported yaml node", ErrMalformedTemplate)
	}
}
