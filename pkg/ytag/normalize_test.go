package ytag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttr(t *testing.T) {
	tests := []struct {
		name  string
		label string
		want  string
	}{
		{"spaces and slash", "attr w/ spaces", "attr_w_spaces"},
		{"dashes", "attr-w-spaces", "attr_w_spaces"},
		{"dots and double dash", "attr .w. --spaces", "attr_w_spaces"},
		{"already normalized", "attr_w_spaces", "attr_w_spaces"},
		{"leading and trailing junk", "  :total energy:  ", "total_energy"},
		{"digits kept", "cell (3x3)", "cell_3x3"},
		{"empty", "", ""},
		{"only separators", " -/. ", ""},
		{"unicode discarded", "énergie totale", "nergie_totale"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAttr(tt.label))
		})
	}
}

func TestNormalizeAttrIdempotent(t *testing.T) {
	labels := []string{
		"attr w/ spaces",
		"Total Energy [Ha]",
		"x",
		"",
		"a__b",
	}
	for _, label := range labels {
		once := NormalizeAttr(label)
		assert.Equal(t, once, NormalizeAttr(once), "label %q", label)
	}
}
