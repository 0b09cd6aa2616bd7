package ytag

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"gopkg.in/yaml.v3"
)

// Unmarshal parses one YAML document and decodes it through the registry.
// Input may carry a UTF-8 or UTF-16 byte-order mark; anything with a BOM is
// transcoded to UTF-8 before parsing, since the underlying parser only
// accepts UTF-8.
func (r *Registry) Unmarshal(data []byte) (any, error) {
	utf8Data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("transcoding document: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(utf8Data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	if doc.Kind == 0 {
		// Empty input yields a zero node.
		return nil, nil
	}
	return r.DecodeNode(&doc)
}

// Marshal encodes a value through the registry and emits it as a YAML
// document.
func (r *Registry) Marshal(v any) ([]byte, error) {
	node, err := r.EncodeValue(v)
	if err != nil {
		return nil, err
	}
	out, err := yaml.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("emitting document: %w", err)
	}
	return out, nil
}
