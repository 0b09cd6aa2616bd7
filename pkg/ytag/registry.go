package ytag

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry is the table from tag names to type bindings, plus the ordered
// implicit-pattern list for untagged scalars. The intended lifecycle is
// New, then every builder call, then Seal, then decode/encode only. All
// mutation is rejected after Seal, and lookups take the read lock, so a
// sealed registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	logger   *slog.Logger
	bindings map[string]map[Kind]*TypeBinding
	byType   map[reflect.Type]*TypeBinding
	implicit []implicitPattern
	sealed   bool
}

// options holds configuration for the registry.
type options struct {
	logger *slog.Logger
}

// Option is a function that configures registry options.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func defaultOptions() options {
	return options{
		logger: slog.Default(),
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Registry{
		logger:   options.logger,
		bindings: make(map[string]map[Kind]*TypeBinding),
		byType:   make(map[reflect.Type]*TypeBinding),
	}
}

// Clone returns an unsealed copy of the registry: same bindings, same
// implicit patterns, ready for further registration. The bindings
// themselves are shared; they are immutable once registered.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clone := New(WithLogger(r.logger))
	for tag, perKind := range r.bindings {
		cloned := make(map[Kind]*TypeBinding, len(perKind))
		for kind, b := range perKind {
			cloned[kind] = b
		}
		clone.bindings[tag] = cloned
	}
	for t, b := range r.byType {
		clone.byType[t] = b
	}
	clone.implicit = append(clone.implicit, r.implicit...)
	return clone
}

// Seal marks the end of the registration phase. Every later registration
// fails with ErrSealed. Sealing twice is a no-op.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Sealed reports whether the registration phase has ended.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// register adds a binding under its (tag, kind) pair and, when the binding
// carries a Go type, under that type for encode dispatch.
func (r *Registry) register(b *TypeBinding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("registering tag %q: %w", b.tag, ErrSealed)
	}
	perKind := r.bindings[b.tag]
	if perKind == nil {
		perKind = make(map[Kind]*TypeBinding)
		r.bindings[b.tag] = perKind
	}
	if _, exists := perKind[b.kind]; exists {
		return &DuplicateTagError{Tag: b.tag, Kind: b.kind}
	}
	perKind[b.kind] = b
	if b.goType != nil {
		r.byType[b.goType] = b
	}
	r.logger.Debug("registered tag binding", "tag", b.tag, "kind", b.kind.String())
	return nil
}

// lookupTag resolves an explicit tag for a node of the given kind. A tag
// bound only under other kinds is a kind mismatch, not an unknown tag.
func (r *Registry) lookupTag(tag string, kind Kind) (*TypeBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	perKind := r.bindings[tag]
	if perKind == nil {
		return nil, &UnknownTagError{Tag: tag}
	}
	if b, ok := perKind[kind]; ok {
		return b, nil
	}
	for _, want := range []Kind{KindMapping, KindSequence, KindScalar} {
		if _, ok := perKind[want]; ok {
			return nil, &KindMismatchError{Tag: tag, Want: want, Got: kind}
		}
	}
	return nil, &UnknownTagError{Tag: tag}
}

// lookupType resolves the binding for a runtime type on the encode path.
func (r *Registry) lookupType(t reflect.Type) (*TypeBinding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byType[t]
	if !ok {
		return nil, &UnboundTypeError{Type: t}
	}
	return b, nil
}

// Binding returns the binding registered for a tag and node kind; this is
// the lookup the decode path performs for explicitly tagged nodes.
func (r *Registry) Binding(tag string, kind Kind) (*TypeBinding, error) {
	return r.lookupTag(tag, kind)
}

// BindingFor returns the binding registered for a value's runtime type;
// this is the lookup the encode path performs.
func (r *Registry) BindingFor(v any) (*TypeBinding, error) {
	return r.lookupType(reflect.TypeOf(v))
}

// RegisterUnavailable registers a tag that is recognized by the format but
// unsupported in the current build. The tag is bound under every kind, so
// any node carrying it fails decode with a *NotAvailableError holding the
// given reason instead of an opaque unknown-tag error. There is no encode
// side: no runtime type maps to an unavailable tag.
func (r *Registry) RegisterUnavailable(tag, reason string) error {
	for _, kind := range []Kind{KindMapping, KindSequence, KindScalar} {
		b := &TypeBinding{
			tag:  tag,
			kind: kind,
			decode: func(_ *Registry, _ *yaml.Node) (any, error) {
				return nil, &NotAvailableError{Tag: tag, Reason: reason}
			},
		}
		if err := r.register(b); err != nil {
			return err
		}
	}
	return nil
}
