package ytag

import "gopkg.in/yaml.v3"

// Kind is the structural shape of a YAML node a binding accepts.
type Kind uint8

const (
	// KindMapping matches mapping nodes ({key: value}).
	KindMapping Kind = iota + 1
	// KindSequence matches sequence nodes ([a, b, c]).
	KindSequence
	// KindScalar matches scalar nodes (plain text, numbers, ...).
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	case KindScalar:
		return "scalar"
	default:
		return "unknown"
	}
}

// kindOf maps a yaml node kind onto a binding kind. Document and alias
// nodes are unwrapped before this is consulted.
func kindOf(node *yaml.Node) (Kind, bool) {
	switch node.Kind {
	case yaml.MappingNode:
		return KindMapping, true
	case yaml.SequenceNode:
		return KindSequence, true
	case yaml.ScalarNode:
		return KindScalar, true
	default:
		return 0, false
	}
}
