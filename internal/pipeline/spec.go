package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// StageInvocation pairs one stage identifier with its declared parameters.
// The wire form is a 1- or 2-element array: [identifier] or
// [identifier, params] with params null or a mapping.
type StageInvocation struct {
	Name   string
	Params Params
}

// Spec is the ordered stage list of one run. Order is significant and the
// sequence never changes once loaded.
type Spec []StageInvocation

func (si *StageInvocation) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("stage invocation: want an [identifier, params] array: %w", err)
	}
	if len(parts) == 0 || len(parts) > 2 {
		return fmt.Errorf("stage invocation: want 1 or 2 elements, got %d", len(parts))
	}
	if err := json.Unmarshal(parts[0], &si.Name); err != nil {
		return fmt.Errorf("stage invocation: identifier must be a string: %w", err)
	}
	si.Params = nil
	if len(parts) == 2 {
		if err := json.Unmarshal(parts[1], &si.Params); err != nil {
			return fmt.Errorf("stage %s: params must be a mapping: %w", si.Name, err)
		}
	}
	return nil
}

func (si *StageInvocation) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("stage invocation: want an [identifier, params] sequence, got %s", yamlKind(value.Kind))
	}
	if len(value.Content) == 0 || len(value.Content) > 2 {
		return fmt.Errorf("stage invocation: want 1 or 2 elements, got %d", len(value.Content))
	}
	if err := value.Content[0].Decode(&si.Name); err != nil {
		return fmt.Errorf("stage invocation: identifier must be a string: %w", err)
	}
	si.Params = nil
	if len(value.Content) == 2 {
		if err := value.Content[1].Decode(&si.Params); err != nil {
			return fmt.Errorf("stage %s: params must be a mapping: %w", si.Name, err)
		}
	}
	return nil
}

func yamlKind(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// LoadSpecFromPath reads a pipeline document (YAML or JSON) and returns the
// parsed Spec. Format is detected by extension (.yaml/.yml → YAML, .json →
// JSON) or by content (first non-whitespace char).
func LoadSpecFromPath(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pipeline: %w", err)
	}
	return LoadSpec(data, filepath.Ext(path))
}

// LoadSpec parses a pipeline document from bytes. ext is the file extension
// (e.g. ".json", ".yaml") for format hint; empty = detect from content.
func LoadSpec(data []byte, ext string) (Spec, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	if ext == ".yaml" {
		var s Spec
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse pipeline yaml: %w", err)
		}
		return s, nil
	}
	if ext == ".json" {
		var s Spec
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse pipeline json: %w", err)
		}
		return s, nil
	}
	// Detect: try JSON first (starts with [ or {), else YAML
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{") {
		var s Spec
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("parse pipeline json: %w", err)
		}
		return s, nil
	}
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse pipeline yaml: %w", err)
	}
	return s, nil
}

// DefaultSpec returns the built-in pipeline: tally every record, then sort
// the answers of the first sixteen questions.
func DefaultSpec() Spec {
	indexes := make([]any, 0, 16)
	for i := 0; i < 16; i++ {
		indexes = append(indexes, i)
	}
	return Spec{
		{Name: "scrutiny.pipes.results.do_tallies", Params: Params{}},
		{Name: "scrutiny.pipes.sort.sort_non_iterative", Params: Params{"question_indexes": indexes}},
	}
}
