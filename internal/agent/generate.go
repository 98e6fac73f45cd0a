package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/analyst-cli/internal/resilience"
	"github.com/sells-group/analyst-cli/pkg/anthropic"
)

const generatorSystem = `You write SQLite queries for an analytics warehouse.
Rules:
- Return only the SQL statement. No prose, no markdown fences.
- Order line items live in "Order Details" (the table name contains a space).
- Revenue is SUM(UnitPrice * Quantity * (1 - Discount)).
- Respect any constraints (date ranges, category definitions) given below.`

// Generator turns a question plus schema into a single SQL query.
type Generator struct {
	ai        anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
}

func NewGenerator(ai anthropic.Client, model string, maxTokens int64) *Generator {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "generate")
	return &Generator{ai: ai, model: model, maxTokens: maxTokens, retry: retry}
}

// Generate produces a query for the question against the given schema.
// Constraints carries retrieved document context for hybrid questions
// and is empty otherwise. The returned text has markdown fences
// stripped; it may still be empty or invalid SQL, which the caller
// treats as an execution failure.
func (g *Generator) Generate(ctx context.Context, question, schema, constraints string) (string, error) {
	if strings.TrimSpace(constraints) == "" {
		constraints = "(none)"
	}
	prompt := fmt.Sprintf("Question: %s\n\nSchema:\n%s\nConstraints from documents:\n%s",
		question, schema, constraints)

	resp, err := resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return g.ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     g.model,
			MaxTokens: g.maxTokens,
			System:    generatorSystem,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "agent: generate query")
	}
	resp.Usage.LogCost(g.model, "generate")

	return stripFences(resp.Text()), nil
}

// stripFences removes markdown code fencing the backend adds despite
// instructions.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```sql", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
