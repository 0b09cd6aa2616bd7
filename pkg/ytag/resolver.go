package ytag

import "regexp"

// implicitPattern associates a compiled pattern with the tag it implies for
// untagged scalars. Patterns live in registration order; the first full
// match wins, so duplicates are legal and simply shadowed.
type implicitPattern struct {
	tag     string
	pattern *regexp.Regexp
}

// addImplicit appends a pattern to the resolver list. Reached through
// RegisterImplicitScalar; the tag must already have a scalar binding.
func (r *Registry) addImplicit(tag string, pattern *regexp.Regexp) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}
	r.implicit = append(r.implicit, implicitPattern{tag: tag, pattern: pattern})
	return nil
}

// resolveImplicit scans the pattern list in registration order and returns
// the tag of the first pattern matching the whole scalar text. A partial
// match does not count: patterns claim a scalar only when they cover it
// entirely, so callers wanting looser matching must widen their patterns.
// The patterns arrive anchored from RegisterImplicitScalar, which keeps
// alternations like on|one honest: anchoring at compile time makes the
// engine retry alternatives until one covers the text, where checking the
// span of the leftmost match would stop at the first, shorter alternative.
func (r *Registry) resolveImplicit(text string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ip := range r.implicit {
		if ip.pattern.MatchString(text) {
			return ip.tag, true
		}
	}
	return "", false
}
