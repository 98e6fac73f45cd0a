package agent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateExplanation_ShortPassthrough(t *testing.T) {
	s := "Revenue grew 12% in Q4. Beverages led all categories."
	assert.Equal(t, s, TruncateExplanation(s))
}

func TestTruncateExplanation_CutsAtSentenceBoundary(t *testing.T) {
	first := strings.Repeat("a", 100) + "."
	second := strings.Repeat("b", 100) + "."
	third := strings.Repeat("c", 100) + "."
	in := first + " " + second + " " + third

	got := TruncateExplanation(in)
	assert.Equal(t, first+" "+second, got)
	assert.LessOrEqual(t, len(got), 250)
}

func TestTruncateExplanation_HardCutWhenNoBoundaryFits(t *testing.T) {
	in := strings.Repeat("x", 400)
	got := TruncateExplanation(in)
	assert.Len(t, got, 250)
}

func TestTruncateExplanation_Empty(t *testing.T) {
	assert.Equal(t, "", TruncateExplanation("  "))
}
