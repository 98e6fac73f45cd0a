package agent

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/resilience"
	"github.com/sells-group/analyst-cli/pkg/anthropic"
)

const routerSystem = `You classify analytics questions by required data source.
Reply with exactly one word:
sql - answerable from the relational warehouse alone
rag - answerable from the policy/context documents alone
hybrid - needs both the warehouse and the documents`

// Router decides which data sources a question needs.
type Router struct {
	ai    anthropic.Client
	model string
	retry resilience.RetryConfig
}

func NewRouter(ai anthropic.Client, model string) *Router {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "classify")
	return &Router{ai: ai, model: model, retry: retry}
}

// Classify returns one of model.ClassSQL, model.ClassRAG, or
// model.ClassHybrid. Matching on the reply is containment-based with
// hybrid checked first, so a verbose reply like "this is a sql
// question" still routes. Unrecognized replies fall back to rag, the
// cheapest path.
func (r *Router) Classify(ctx context.Context, question string) (string, error) {
	resp, err := resilience.DoVal(ctx, r.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return r.ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     r.model,
			MaxTokens: 16,
			System:    routerSystem,
			Messages:  []anthropic.Message{{Role: "user", Content: question}},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: classify question")
	}
	resp.Usage.LogCost(r.model, "route")

	reply := strings.ToLower(strings.TrimSpace(resp.Text()))
	var class string
	switch {
	case strings.Contains(reply, model.ClassHybrid):
		class = model.ClassHybrid
	case strings.Contains(reply, model.ClassSQL):
		class = model.ClassSQL
	default:
		class = model.ClassRAG
	}

	zap.L().Debug("question classified",
		zap.String("class", class),
		zap.String("reply", reply),
	)
	return class, nil
}
