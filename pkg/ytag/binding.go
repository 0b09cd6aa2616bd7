package ytag

import (
	"fmt"
	"reflect"
	"regexp"

	"gopkg.in/yaml.v3"
)

// TypeBinding ties one (tag, kind) pair to a decode and an encode function.
// Bindings are built by the Register* functions and are immutable once they
// enter a registry.
type TypeBinding struct {
	tag    string
	kind   Kind
	goType reflect.Type
	decode func(*Registry, *yaml.Node) (any, error)
	encode func(*Registry, any) (*yaml.Node, error)
}

// Tag returns the tag name, without the leading "!" marker.
func (b *TypeBinding) Tag() string { return b.tag }

// Kind returns the node kind the binding accepts.
func (b *TypeBinding) Kind() Kind { return b.kind }

// bindingConfig holds per-binding configuration.
type bindingConfig struct {
	tag string
}

// BindingOption is a function that configures a single binding.
type BindingOption func(*bindingConfig)

// WithTag overrides the tag name. Without it the Go type name of the bound
// type is used verbatim.
func WithTag(tag string) BindingOption {
	return func(c *bindingConfig) {
		c.tag = tag
	}
}

func applyBindingOptions(opts []BindingOption) bindingConfig {
	var cfg bindingConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// bindingTag resolves the tag for a binding of type T: an explicit WithTag
// wins, otherwise the declared type name (pointers dereferenced).
func bindingTag[T any](cfg bindingConfig) (string, error) {
	if cfg.tag != "" {
		return cfg.tag, nil
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return "", fmt.Errorf("type %s has no declared name, use WithTag", t)
	}
	return t.Name(), nil
}

// RegisterMapping binds mapping nodes tagged with T's tag to the fromMap
// and toMap pair. fromMap receives the fully decoded mapping content, with
// nested tagged nodes already dispatched through the registry.
func RegisterMapping[T any](r *Registry, fromMap func(map[string]any) (T, error), toMap func(T) (map[string]any, error), opts ...BindingOption) error {
	cfg := applyBindingOptions(opts)
	tag, err := bindingTag[T](cfg)
	if err != nil {
		return err
	}
	return r.register(&TypeBinding{
		tag:    tag,
		kind:   KindMapping,
		goType: reflect.TypeOf((*T)(nil)).Elem(),
		decode: func(reg *Registry, node *yaml.Node) (any, error) {
			content, err := reg.decodeMappingContent(node)
			if err != nil {
				return nil, err
			}
			v, err := fromMap(content)
			if err != nil {
				return nil, fmt.Errorf("decoding !%s: %w", tag, err)
			}
			return v, nil
		},
		encode: func(reg *Registry, v any) (*yaml.Node, error) {
			m, err := toMap(v.(T))
			if err != nil {
				return nil, fmt.Errorf("encoding !%s: %w", tag, err)
			}
			return reg.encodeTaggedMapping(tag, m)
		},
	})
}

// RegisterSequence binds sequence nodes tagged with T's tag to the fromSeq
// and toSeq pair.
func RegisterSequence[T any](r *Registry, fromSeq func([]any) (T, error), toSeq func(T) ([]any, error), opts ...BindingOption) error {
	cfg := applyBindingOptions(opts)
	tag, err := bindingTag[T](cfg)
	if err != nil {
		return err
	}
	return r.register(&TypeBinding{
		tag:    tag,
		kind:   KindSequence,
		goType: reflect.TypeOf((*T)(nil)).Elem(),
		decode: func(reg *Registry, node *yaml.Node) (any, error) {
			content, err := reg.decodeSequenceContent(node)
			if err != nil {
				return nil, err
			}
			v, err := fromSeq(content)
			if err != nil {
				return nil, fmt.Errorf("decoding !%s: %w", tag, err)
			}
			return v, nil
		},
		encode: func(reg *Registry, v any) (*yaml.Node, error) {
			seq, err := toSeq(v.(T))
			if err != nil {
				return nil, fmt.Errorf("encoding !%s: %w", tag, err)
			}
			return reg.encodeTaggedSequence(tag, seq)
		},
	})
}

// RegisterScalar binds scalar nodes tagged with T's tag to the fromScalar
// and toScalar pair.
func RegisterScalar[T any](r *Registry, fromScalar func(string) (T, error), toScalar func(T) (string, error), opts ...BindingOption) error {
	cfg := applyBindingOptions(opts)
	tag, err := bindingTag[T](cfg)
	if err != nil {
		return err
	}
	return r.register(scalarBinding(tag, fromScalar, toScalar))
}

// RegisterImplicitScalar is RegisterScalar plus an implicit-resolver entry:
// untagged scalars whose whole text matches pattern decode as if they were
// tagged with T's tag. Patterns are consulted in registration order.
func RegisterImplicitScalar[T any](r *Registry, pattern string, fromScalar func(string) (T, error), toScalar func(T) (string, error), opts ...BindingOption) error {
	cfg := applyBindingOptions(opts)
	tag, err := bindingTag[T](cfg)
	if err != nil {
		return err
	}
	// Anchor the whole pattern so resolution is a full match, never a
	// partial one.
	re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
	if err != nil {
		return fmt.Errorf("compiling pattern for tag %q: %w", tag, err)
	}
	if err := r.register(scalarBinding(tag, fromScalar, toScalar)); err != nil {
		return err
	}
	return r.addImplicit(tag, re)
}

func scalarBinding[T any](tag string, fromScalar func(string) (T, error), toScalar func(T) (string, error)) *TypeBinding {
	return &TypeBinding{
		tag:    tag,
		kind:   KindScalar,
		goType: reflect.TypeOf((*T)(nil)).Elem(),
		decode: func(_ *Registry, node *yaml.Node) (any, error) {
			v, err := fromScalar(node.Value)
			if err != nil {
				return nil, fmt.Errorf("decoding !%s: %w", tag, err)
			}
			return v, nil
		},
		encode: func(_ *Registry, v any) (*yaml.Node, error) {
			s, err := toScalar(v.(T))
			if err != nil {
				return nil, fmt.Errorf("encoding !%s: %w", tag, err)
			}
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!" + tag, Value: s}, nil
		},
	}
}

// recordPtr constrains RegisterRecord to pointer types whose pointee embeds
// Record; the embedded record is the decode target and the encode source.
type recordPtr[T any] interface {
	*T
	recordBacking() *Record
}

// RegisterRecord binds mapping nodes tagged with T's tag to a generated
// from-map/to-map pair over T's embedded Record. T needs nothing beyond the
// embedding:
//
//	type Variable struct{ ytag.Record }
//	err := ytag.RegisterRecord[Variable](reg)
//
// Decoding a !Variable mapping yields a *Variable whose keys answer both
// their document spelling and their normalized field name, in document
// order. Encoding walks the record in insertion order.
func RegisterRecord[T any, PT recordPtr[T]](r *Registry, opts ...BindingOption) error {
	cfg := applyBindingOptions(opts)
	tag, err := bindingTag[T](cfg)
	if err != nil {
		return err
	}
	return r.register(&TypeBinding{
		tag:    tag,
		kind:   KindMapping,
		goType: reflect.TypeOf((*PT)(nil)).Elem(),
		decode: func(reg *Registry, node *yaml.Node) (any, error) {
			var v T
			pt := PT(&v)
			rec := pt.recordBacking()
			for i := 0; i+1 < len(node.Content); i += 2 {
				keyNode := node.Content[i]
				if keyNode.Kind == yaml.AliasNode {
					keyNode = keyNode.Alias
				}
				val, err := reg.DecodeNode(node.Content[i+1])
				if err != nil {
					return nil, fmt.Errorf("decoding !%s key %q: %w", tag, keyNode.Value, err)
				}
				rec.Set(keyNode.Value, val)
			}
			return pt, nil
		},
		encode: func(reg *Registry, v any) (*yaml.Node, error) {
			rec := v.(PT).recordBacking()
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!" + tag}
			for _, k := range rec.keys {
				valNode, err := reg.encodeAny(rec.vals[k])
				if err != nil {
					return nil, fmt.Errorf("encoding !%s key %q: %w", tag, k, err)
				}
				node.Content = append(node.Content, scalarStringNode(k), valNode)
			}
			return node, nil
		},
	})
}
