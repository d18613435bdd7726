// Package template loads a CloudFormation-shaped JSON or YAML document into
// the flat []capability.AbstractNode list the builder consumes. It is a
// front-end concern, external to the hard analysis core: all it does is
// parse, normalize, and resolve resource types against the capability
// catalog.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/infrasnipe/infrasnipe/capability"
	"github.com/infrasnipe/infrasnipe/capability/cfn"
)

// ErrMalformedTemplate indicates the input file could not be parsed as a
// CloudFormation-shaped document: invalid JSON/YAML, a non-mapping root, or
// a resources section that is not itself a mapping.
var ErrMalformedTemplate = errors.New("template: malformed template")

// Loader produces the abstract nodes of one CloudFormation-shaped template.
// Callers (upgrade, the CLI) depend on this interface rather than a
// concrete file format so a template source can be swapped without
// touching the analysis core.
type Loader interface {
	Load(path string) ([]capability.AbstractNode, error)
}

// FileLoader is the default Loader: it reads a local file, dispatching on
// its extension (.yml/.yaml vs. anything else, treated as JSON), and tags
// every resulting node with Origin.
type FileLoader struct {
	Origin capability.Origin
	Logger *zap.Logger
}

// NewFileLoader returns a FileLoader tagging every node it produces with
// origin. A nil logger is replaced with a no-op one.
func NewFileLoader(origin capability.Origin, logger *zap.Logger) *FileLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLoader{Origin: origin, Logger: logger}
}

// Load reads path and returns the abstract nodes of its resources. A
// resource whose type is missing, unknown, and not in the ignored set is
// skipped with a logged warning rather than failing the whole load — one
// unsupported resource should not block analysis of the rest of the
// template.
func (l *FileLoader) Load(path string) ([]capability.AbstractNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("template: reading %s: %w", path, err)
	}

	doc, err := parseDocument(path, data)
	if err != nil {
		return nil, err
	}

	resources, err := resourcesSection(doc)
	if err != nil {
		return nil, err
	}
	if resources == nil {
		l.Logger.Warn("could not find CloudFormation resources in template", zap.String("file", path))
		return nil, nil
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]capability.AbstractNode, 0, len(names))
	for _, name := range names {
		entry, ok := resources[name].(map[string]interface{})
		if !ok {
			l.Logger.Warn("resource entry is not a mapping, skipping", zap.String("resource", name))
			continue
		}

		etype, ok := entry["Type"].(string)
		if !ok || etype == "" {
			l.Logger.Warn("type not found, skipping resource", zap.String("resource", name))
			continue
		}

		descriptor, known := cfn.KnownTypes[etype]
		if !known {
			if _, ignored := cfn.IgnoredTypes[etype]; !ignored {
				l.Logger.Warn("unsupported resource type, skipping", zap.String("resource", name), zap.String("type", etype))
			}
			continue
		}

		nodes = append(nodes, capability.AbstractNode{
			ID:     name,
			Name:   name,
			Type:   descriptor,
			Config: entry,
			Origin: l.Origin,
		})
	}

	return nodes, nil
}

// parseDocument dispatches to the JSON or YAML parser by file extension.
func parseDocument(path string, data []byte) (map[string]interface{}, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yml" || ext == ".yaml" {
		return parseYAML(data)
	}
	return parseJSON(data)
}

func parseJSON(data []byte) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	return doc, nil
}

// resourcesSection accepts either wrapper key, "Resources" or "resources".
// A nil, nil return means neither key was present — a caller-visible
// warning, not a hard failure.
func resourcesSection(doc map[string]interface{}) (map[string]interface{}, error) {
	raw, ok := doc["Resources"]
	if !ok {
		raw, ok = doc["resources"]
	}
	if !ok {
		return nil, nil
	}
	resources, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: resources section is not a mapping", ErrMalformedTemplate)
	}
	return resources, nil
}
