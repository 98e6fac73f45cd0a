package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/resilience"
	"github.com/sells-group/analyst-cli/pkg/anthropic"
)

const synthesizerSystem = `You answer analytics questions from the evidence provided.
Reply with a single JSON object, no markdown fences:
{"final_answer": <value matching the format hint>, "explanation": "<one or two sentences>", "citations": [<table names and document chunk ids actually used>]}
If the evidence cannot answer the question, set final_answer to "N/A".`

// SynthesisInput carries everything the final phase may draw on. SQL
// and ResultText are empty/placeholder for document-only questions.
type SynthesisInput struct {
	Question   string
	FormatHint string
	SQL        string
	ResultText string
	DocContext string
}

// SynthesisOutput is the parsed (but not yet normalized) backend reply.
// FinalAnswerRaw and CitationsRaw keep whatever shape the backend
// produced; normalization and sanitization happen downstream.
type SynthesisOutput struct {
	FinalAnswerRaw any
	Explanation    string
	CitationsRaw   any
}

// Synthesizer produces the final answer from gathered evidence.
type Synthesizer struct {
	ai        anthropic.Client
	model     string
	maxTokens int64
	retry     resilience.RetryConfig
}

func NewSynthesizer(ai anthropic.Client, model string, maxTokens int64) *Synthesizer {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "synthesize")
	return &Synthesizer{ai: ai, model: model, maxTokens: maxTokens, retry: retry}
}

// Synthesize runs the answer phase. It never fails on a malformed
// reply body: if the reply is not a JSON object the whole text becomes
// the raw answer with no explanation or citations.
func (s *Synthesizer) Synthesize(ctx context.Context, in SynthesisInput) (SynthesisOutput, error) {
	docContext := in.DocContext
	if strings.TrimSpace(docContext) == "" {
		docContext = "(none)"
	}
	prompt := fmt.Sprintf(
		"Question: %s\nFormat hint: %s\n\nSQL query:\n%s\n\nSQL result:\n%s\n\nDocument context:\n%s",
		in.Question, in.FormatHint, in.SQL, in.ResultText, docContext)

	resp, err := resilience.DoVal(ctx, s.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return s.ai.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     s.model,
			MaxTokens: s.maxTokens,
			System:    synthesizerSystem,
			Messages:  []anthropic.Message{{Role: "user", Content: prompt}},
		})
	})
	if err != nil {
		return SynthesisOutput{}, eris.Wrap(err, "agent: synthesize answer")
	}
	resp.Usage.LogCost(s.model, "synthesize")

	return parseSynthesis(resp.Text()), nil
}

func parseSynthesis(text string) SynthesisOutput {
	cleaned := stripFences(text)

	var reply map[string]any
	if err := json.Unmarshal([]byte(cleaned), &reply); err != nil {
		zap.L().Debug("synthesis reply is not a JSON object, using raw text",
			zap.Error(eris.Wrap(err, "agent: parse synthesis reply")),
		)
		return SynthesisOutput{FinalAnswerRaw: cleaned}
	}

	out := SynthesisOutput{
		FinalAnswerRaw: reply["final_answer"],
		CitationsRaw:   reply["citations"],
	}
	if expl, ok := reply["explanation"].(string); ok {
		out.Explanation = expl
	}
	return out
}
