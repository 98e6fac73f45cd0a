// Package agent implements the question-answering pipeline: a routing
// phase picks data sources, a generation/execution loop produces SQL
// with a bounded number of repair attempts, and a synthesis phase
// always runs to turn whatever evidence exists into a typed, scored
// output record.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/analyst-cli/internal/model"
	"github.com/sells-group/analyst-cli/internal/retrieval"
	"github.com/sells-group/analyst-cli/internal/warehouse"
)

// maxRepairs bounds query regeneration after an execution failure: at
// most 2 repairs, so at most 3 generation attempts per question.
const maxRepairs = 2

// Workflow wires the phases together. Construct once, call Prime, then
// Process is safe for concurrent use.
type Workflow struct {
	router      *Router
	generator   *Generator
	synthesizer *Synthesizer
	runner      warehouse.Runner
	searcher    retrieval.Searcher
	topK        int

	schema string
}

func NewWorkflow(
	router *Router,
	generator *Generator,
	synthesizer *Synthesizer,
	runner warehouse.Runner,
	searcher retrieval.Searcher,
	topK int,
) *Workflow {
	return &Workflow{
		router:      router,
		generator:   generator,
		synthesizer: synthesizer,
		runner:      runner,
		searcher:    searcher,
		topK:        topK,
	}
}

// Prime loads and memoizes the warehouse schema. Must be called once
// before Process.
func (w *Workflow) Prime(ctx context.Context) error {
	schema, err := w.runner.Schema(ctx)
	if err != nil {
		return eris.Wrap(err, "agent: load schema")
	}
	w.schema = schema
	return nil
}

// questionState accumulates per-question evidence across phases.
type questionState struct {
	class    string
	context  string // formatted retrieval chunks, "" when none
	sql      string // last generated query, "" when none
	rows     []map[string]any
	queryRan bool
	execErr  error
	repairs  int
}

// Process runs one question through the full pipeline and always
// returns a complete output record. Collaborator errors and panics are
// absorbed into a confidence-0 record; nothing escapes to the caller.
func (w *Workflow) Process(ctx context.Context, q model.Question) (rec model.OutputRecord) {
	log := zap.L().With(zap.String("question_id", q.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic while processing question", zap.Any("panic", r))
			rec = w.failureRecord(q, fmt.Errorf("panic: %v", r))
		}
	}()

	var st questionState

	class, err := w.router.Classify(ctx, q.Text)
	if err != nil {
		log.Error("classification failed", zap.Error(err))
		return w.failureRecord(q, err)
	}
	st.class = class

	// Retrieval runs before generation so hybrid questions can feed
	// document constraints into the query.
	if class == model.ClassRAG || class == model.ClassHybrid {
		matches, err := w.searcher.Search(ctx, q.Text, w.topK)
		if err != nil {
			log.Error("retrieval failed", zap.Error(err))
			return w.failureRecord(q, err)
		}
		st.context = formatChunks(matches)
	}

	if class == model.ClassSQL || class == model.ClassHybrid {
		if err := w.generateAndExecute(ctx, log, q, &st); err != nil {
			return w.failureRecord(q, err)
		}
	}

	out, err := w.synthesizer.Synthesize(ctx, SynthesisInput{
		Question:   q.Text,
		FormatHint: q.FormatHint,
		SQL:        st.sql,
		ResultText: resultText(&st),
		DocContext: st.context,
	})
	if err != nil {
		log.Error("synthesis failed", zap.Error(err))
		return w.failureRecord(q, err)
	}

	answer, valid := NormalizeAnswer(out.FinalAnswerRaw, q.FormatHint)
	confidence := ScoreConfidence(st.execErr != nil, valid)

	log.Info("question processed",
		zap.String("class", st.class),
		zap.Int("repairs", st.repairs),
		zap.Bool("answer_valid", valid),
		zap.Float64("confidence", confidence),
	)

	return model.OutputRecord{
		ID:          q.ID,
		FinalAnswer: answer,
		SQL:         st.sql,
		Confidence:  confidence,
		Explanation: TruncateExplanation(out.Explanation),
		Citations:   SanitizeCitations(out.CitationsRaw, st.sql),
	}
}

// generateAndExecute runs the generation/execution loop with the repair
// budget. Transport errors from the generator abort the question; an
// execution failure (including an empty generated query) consumes one
// repair and regenerates. After the budget is spent the state carries
// the last error and synthesis proceeds regardless.
func (w *Workflow) generateAndExecute(ctx context.Context, log *zap.Logger, q model.Question, st *questionState) error {
	for {
		sql, err := w.generator.Generate(ctx, q.Text, w.schema, st.context)
		if err != nil {
			log.Error("generation failed", zap.Error(err))
			return err
		}
		st.sql = sql

		if sql == "" {
			st.execErr = eris.New("agent: generator produced no query")
		} else {
			st.rows, st.execErr = w.runner.Execute(ctx, sql)
			st.queryRan = st.execErr == nil
		}

		if st.execErr == nil || st.repairs >= maxRepairs {
			return nil
		}
		st.repairs++
		log.Warn("query failed, repairing",
			zap.Int("repair", st.repairs),
			zap.Error(st.execErr),
		)
	}
}

// resultText renders the execution outcome for the synthesis prompt. A
// zero-row success renders as "[]", distinct from failure.
func resultText(st *questionState) string {
	switch {
	case st.queryRan:
		data, err := json.Marshal(st.rows)
		if err != nil {
			return "No result (query failed)"
		}
		return string(data)
	case st.execErr != nil:
		return "No result (query failed)"
	default:
		return "No SQL executed"
	}
}

// formatChunks renders retrieval matches as prompt context, one block
// per chunk headed by its stable id.
func formatChunks(matches []model.ChunkMatch) string {
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.ID, m.Text)
	}
	return strings.TrimSpace(b.String())
}

// failureRecord is the terminal record for a question whose pipeline
// could not complete: typed default answer, confidence 0, no citations.
func (w *Workflow) failureRecord(q model.Question, err error) model.OutputRecord {
	answer, _ := NormalizeAnswer(nil, q.FormatHint)
	return model.OutputRecord{
		ID:          q.ID,
		FinalAnswer: answer,
		Confidence:  0.0,
		Explanation: TruncateExplanation("Processing error: " + err.Error()),
		Citations:   []string{},
	}
}
