package ytag

import (
	"sync"

	"gopkg.in/yaml.v3"
)

// Global registry instance for convenience functions.
var defaultRegistry *Registry
var defaultRegistryOnce sync.Once

// Default returns the process-wide registry used by the package-level
// convenience functions. Callers registering into it own the usual
// lifecycle discipline: finish all registration (and Seal) before decoding
// from multiple goroutines.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// Unmarshal decodes one YAML document using the default registry.
func Unmarshal(data []byte) (any, error) {
	return Default().Unmarshal(data)
}

// Marshal encodes a value to a YAML document using the default registry.
func Marshal(v any) ([]byte, error) {
	return Default().Marshal(v)
}

// DecodeNode decodes a parsed node using the default registry.
func DecodeNode(node *yaml.Node) (any, error) {
	return Default().DecodeNode(node)
}

// EncodeValue encodes a value to a node using the default registry.
func EncodeValue(v any) (*yaml.Node, error) {
	return Default().EncodeValue(v)
}

// Plain recursively converts records (including types embedding Record)
// into plain map[string]any trees. Insertion order is lost; use it when
// handing decoded documents to consumers that only understand maps, such
// as JSON serializers.
func Plain(v any) any {
	switch val := v.(type) {
	case interface{ recordBacking() *Record }:
		rec := val.recordBacking()
		out := make(map[string]any, len(rec.keys))
		for _, k := range rec.keys {
			out[k] = Plain(rec.vals[k])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Plain(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	default:
		return v
	}
}
