package ytag

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrSealed is returned by every registration call made after Seal.
var ErrSealed = errors.New("registry is sealed")

// DuplicateTagError reports a second registration for the same (tag, kind)
// pair. Registration order is significant, so the conflict is fatal rather
// than an overwrite.
type DuplicateTagError struct {
	Tag  string
	Kind Kind
}

func (e *DuplicateTagError) Error() string {
	return fmt.Sprintf("tag %q already registered for %s nodes", e.Tag, e.Kind)
}

// UnknownTagError reports a decode of an explicit tag with no binding.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag %q", e.Tag)
}

// KindMismatchError reports a node whose structural kind disagrees with the
// kind the tag was registered for.
type KindMismatchError struct {
	Tag  string
	Want Kind
	Got  Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("tag %q is registered for %s nodes, got a %s node", e.Tag, e.Want, e.Got)
}

// UnboundTypeError reports an encode request for a runtime type that was
// never registered.
type UnboundTypeError struct {
	Type reflect.Type
}

func (e *UnboundTypeError) Error() string {
	return fmt.Sprintf("no binding registered for type %s", e.Type)
}

// NotAvailableError reports a decode of a tag that is recognized by the
// format but deliberately unsupported in the current build. Reason is
// human-readable and meant to be surfaced to the end user.
type NotAvailableError struct {
	Tag    string
	Reason string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("tag %q is not available: %s", e.Tag, e.Reason)
}

// KeyNotFoundError reports a Record lookup for a key that is absent even
// after normalization. Key holds the key as the caller spelled it.
type KeyNotFoundError struct {
	Key string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("key %q not found", e.Key)
}
