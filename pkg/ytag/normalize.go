package ytag

import (
	"regexp"
	"strings"
)

var attrWord = regexp.MustCompile(`[a-zA-Z0-9_]+`)

// NormalizeAttr canonicalizes an arbitrary label into an identifier-safe
// key: every maximal run of ASCII letters, digits and underscores is kept
// and the runs are joined with single underscores. Everything else is
// discarded.
//
//	NormalizeAttr("attr w/ spaces") == "attr_w_spaces"
//	NormalizeAttr("attr .w. --spaces") == "attr_w_spaces"
//
// The function is idempotent: a normalized key normalizes to itself.
func NormalizeAttr(label string) string {
	return strings.Join(attrWord.FindAllString(label, -1), "_")
}
