package ytag

import (
	"fmt"
	"reflect"
	"sort"

	"gopkg.in/yaml.v3"
)

// EncodeValue turns a Go value into a YAML node.
//
// Values of a registered type produce a node carrying the binding's tag.
// Records encode to plain mappings in insertion order, raw maps to plain
// mappings with sorted keys, slices to sequences, and scalars to their
// native representation. A struct type with no binding is an error: domain
// types must register before they can be emitted.
func (r *Registry) EncodeValue(v any) (*yaml.Node, error) {
	return r.encodeAny(v)
}

func (r *Registry) encodeAny(v any) (*yaml.Node, error) {
	if v == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	if b, err := r.lookupType(reflect.TypeOf(v)); err == nil {
		return b.encode(r, v)
	}
	switch val := v.(type) {
	case *Record:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range val.keys {
			child, err := r.encodeAny(val.vals[k])
			if err != nil {
				return nil, fmt.Errorf("encoding key %q: %w", k, err)
			}
			node.Content = append(node.Content, scalarStringNode(k), child)
		}
		return node, nil
	case map[string]any:
		return r.encodePlainMapping(val)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, item := range val {
			child, err := r.encodeAny(item)
			if err != nil {
				return nil, fmt.Errorf("encoding item %d: %w", i, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	}

	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Struct || (t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct) {
		return nil, &UnboundTypeError{Type: t}
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding %T: %w", v, err)
	}
	return node, nil
}

// encodeTaggedMapping builds a custom-tagged mapping node from a binding's
// to-map content. Keys are emitted sorted so output is deterministic.
func (r *Registry) encodeTaggedMapping(tag string, m map[string]any) (*yaml.Node, error) {
	node, err := r.encodePlainMapping(m)
	if err != nil {
		return nil, err
	}
	node.Tag = "!" + tag
	return node, nil
}

// encodeTaggedSequence builds a custom-tagged sequence node from a
// binding's to-seq content.
func (r *Registry) encodeTaggedSequence(tag string, seq []any) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!" + tag}
	for i, item := range seq {
		child, err := r.encodeAny(item)
		if err != nil {
			return nil, fmt.Errorf("encoding item %d: %w", i, err)
		}
		node.Content = append(node.Content, child)
	}
	return node, nil
}

func (r *Registry) encodePlainMapping(m map[string]any) (*yaml.Node, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		child, err := r.encodeAny(m[k])
		if err != nil {
			return nil, fmt.Errorf("encoding key %q: %w", k, err)
		}
		node.Content = append(node.Content, scalarStringNode(k), child)
	}
	return node, nil
}

func scalarStringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
