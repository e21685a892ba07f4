package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/conda-pip-minimal/pkg/errors"
)

// Format selects the serialization of a Document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the supported formats.
var Formats = []Format{FormatYAML, FormatJSON}

// ParseFormat parses a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatJSON:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want yaml or json)", s)
}

// Encode serializes the document in format f.
func (d *Document) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatYAML, "":
		return d.MarshalYAMLBytes()
	case FormatJSON:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unknown format %q", f)
}

// Node builds the YAML node tree. Keys keep document order (name before
// dependencies), which a map would not guarantee.
func (d *Document) Node() *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range d.Conda {
		seq.Content = append(seq.Content, scalar(c))
	}
	if len(d.Pip) > 0 {
		pipSeq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, p := range d.Pip {
			pipSeq.Content = append(pipSeq.Content, scalar(p))
		}
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{scalar("pip"), pipSeq},
		})
	}

	return &yaml.Node{
		Kind: yaml.MappingNode,
		Content: []*yaml.Node{
			scalar("name"), scalar(d.Name),
			scalar("dependencies"), seq,
		},
	}
}

// MarshalYAMLBytes renders the document as block-style YAML with two-space
// indentation.
func (d *Document) MarshalYAMLBytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.Node()); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders the document with the same structure as the YAML form.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name         string `json:"name"`
		Dependencies []any  `json:"dependencies"`
	}{d.Name, d.Dependencies()})
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
