package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "Hello, "},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "world"},
		},
	}
	assert.Equal(t, "Hello, world", resp.Text())

	var nilResp *MessageResponse
	assert.Equal(t, "", nilResp.Text())
	assert.Equal(t, "", (&MessageResponse{}).Text())
}

func TestTokenUsage_EstimateCost(t *testing.T) {
	usage := TokenUsage{InputTokens: 1_000_000, OutputTokens: 1_000_000}

	cost := usage.EstimateCost("claude-sonnet-4-5-20250929")
	assert.InDelta(t, 18.00, cost, 0.001)

	cost = usage.EstimateCost("claude-haiku-4-5-20251001")
	assert.InDelta(t, 4.80, cost, 0.001)

	assert.Equal(t, 0.0, usage.EstimateCost("unknown-model"))
}

func TestTokenUsage_EstimateCost_Cache(t *testing.T) {
	usage := TokenUsage{
		CacheCreationInputTokens: 1_000_000,
		CacheReadInputTokens:     1_000_000,
	}
	// Sonnet: 3.00 * 1.25 write + 3.00 * 0.1 read.
	assert.InDelta(t, 4.05, usage.EstimateCost("claude-sonnet-4-5-20250929"), 0.001)
}
