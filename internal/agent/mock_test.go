package agent

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/retrieval"
	"github.com/sells-group/analyst-cli/internal/warehouse"
	"github.com/sells-group/analyst-cli/pkg/anthropic"
)

// --- Anthropic Mock ---

type mockAnthropicClient struct {
	mock.Mock
}

func (m *mockAnthropicClient) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*anthropic.MessageResponse), args.Error(1)
}

// textResponse builds a single-block text reply.
func textResponse(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
	}
}

// --- Warehouse Mock ---

type mockRunner struct {
	mock.Mock
}

func (m *mockRunner) Schema(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockRunner) Execute(ctx context.Context, query string) ([]map[string]any, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]map[string]any), args.Error(1)
}

func (m *mockRunner) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Retrieval Mock ---

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, query string, topK int) ([]model.ChunkMatch, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChunkMatch), args.Error(1)
}

// Interface compliance checks.
var (
	_ anthropic.Client   = (*mockAnthropicClient)(nil)
	_ warehouse.Runner   = (*mockRunner)(nil)
	_ retrieval.Searcher = (*mockSearcher)(nil)
)
