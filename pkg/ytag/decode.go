package ytag

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeNode turns a parsed YAML node into a Go value.
//
// Nodes with an explicit custom tag are dispatched through the registry,
// checking that the node's structural kind matches the binding's kind.
// Untagged scalars are offered to the implicit resolver first and fall back
// to their native YAML value. Untagged mappings and sequences decode to
// map[string]any and []any with every child decoded recursively.
func (r *Registry) DecodeNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return r.DecodeNode(node.Content[0])
	case yaml.AliasNode:
		return r.DecodeNode(node.Alias)
	}

	kind, ok := kindOf(node)
	if !ok {
		return nil, fmt.Errorf("unsupported node kind %d", node.Kind)
	}

	if name, isCustom := customTagName(node.Tag); isCustom {
		b, err := r.lookupTag(name, kind)
		if err != nil {
			return nil, err
		}
		return b.decode(r, node)
	}

	switch kind {
	case KindScalar:
		// Only plain scalars are offered to the implicit resolver; quoting
		// (or a block style) is the document's way of forcing a string.
		if plainScalar(node) {
			if tag, matched := r.resolveImplicit(node.Value); matched {
				b, err := r.lookupTag(tag, KindScalar)
				if err != nil {
					return nil, err
				}
				return b.decode(r, node)
			}
		}
		return decodeScalar(node)
	case KindSequence:
		return r.decodeSequenceContent(node)
	default:
		return r.decodeMappingContent(node)
	}
}

// plainScalar reports whether a scalar node is unquoted and inline.
func plainScalar(node *yaml.Node) bool {
	const styled = yaml.SingleQuotedStyle | yaml.DoubleQuotedStyle | yaml.LiteralStyle | yaml.FoldedStyle
	return node.Style&styled == 0
}

// customTagName strips the "!" marker from a custom tag. Standard tags
// ("!!str", "!!map", ...) and the non-specific "!" are not custom.
func customTagName(tag string) (string, bool) {
	if len(tag) < 2 || !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return "", false
	}
	return tag[1:], true
}

// decodeScalar resolves a standard-tagged scalar to its native Go value
// (string, int, float64, bool, nil, ...).
func decodeScalar(node *yaml.Node) (any, error) {
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding scalar %q: %w", node.Value, err)
	}
	return v, nil
}

// decodeMappingContent decodes a mapping node's entries, dispatching every
// value through DecodeNode so nested tagged nodes resolve too.
func (r *Registry) decodeMappingContent(node *yaml.Node) (map[string]any, error) {
	out := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}
		val, err := r.DecodeNode(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("decoding key %q: %w", keyNode.Value, err)
		}
		out[keyNode.Value] = val
	}
	return out, nil
}

// decodeSequenceContent decodes a sequence node's items recursively.
func (r *Registry) decodeSequenceContent(node *yaml.Node) ([]any, error) {
	out := make([]any, 0, len(node.Content))
	for i, child := range node.Content {
		val, err := r.DecodeNode(child)
		if err != nil {
			return nil, fmt.Errorf("decoding item %d: %w", i, err)
		}
		out = append(out, val)
	}
	return out, nil
}
