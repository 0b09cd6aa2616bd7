// Package testutil carries comparison helpers shared by the test suites.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/twinfer/ytag-plugin/pkg/ytag"
)

// treeOptions makes decoded document trees comparable: records compare by
// their entries rather than by wrapper identity, so a record decoded twice
// (or a raw mapping wrapped on read) still counts as equal.
func treeOptions() cmp.Options {
	return cmp.Options{
		cmp.Transformer("ytagRecord", func(r ytag.Record) map[string]any {
			out := make(map[string]any, r.Len())
			for _, item := range r.Items() {
				out[item.Key] = item.Value
			}
			return out
		}),
	}
}

// TreeDiff returns a human-readable diff between two decoded document
// trees, empty when they are equal.
func TreeDiff(want, got any) string {
	return cmp.Diff(want, got, treeOptions())
}

// RequireEqualTrees fails the test when two decoded document trees differ.
func RequireEqualTrees(t *testing.T, want, got any) {
	t.Helper()
	if diff := TreeDiff(want, got); diff != "" {
		t.Fatalf("decoded trees differ (-want +got):\n%s", diff)
	}
}
