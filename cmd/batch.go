package main

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/analyst-cli/internal/model"
)

var (
	batchInput  string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Answer a JSONL file of questions",
	Long:  "Reads questions from a JSONL file, processes them concurrently, and writes one output record per question in input order. Individual question failures become confidence-0 records; only unreadable input or unwritable output aborts the run.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAgent(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		questions, err := readQuestions(batchInput)
		if err != nil {
			return err
		}

		run, err := env.Store.CreateRun(ctx, batchInput, batchOutput)
		if err != nil {
			return eris.Wrap(err, "create run")
		}

		records := processQuestions(ctx, questions, cfg.Batch.Concurrency, func(ctx context.Context, q model.Question) model.OutputRecord {
			return env.Workflow.Process(ctx, q)
		})

		var summary model.RunSummary
		for _, rec := range records {
			summary.Add(rec)
			if err := env.Store.SaveRecord(ctx, run.ID, rec); err != nil {
				zap.L().Warn("failed to persist record", zap.String("question_id", rec.ID), zap.Error(err))
			}
		}

		if err := writeRecords(batchOutput, records); err != nil {
			_ = env.Store.FinishRun(ctx, run.ID, model.RunStatusFailed, &summary)
			return err
		}
		if err := env.Store.FinishRun(ctx, run.ID, model.RunStatusComplete, &summary); err != nil {
			zap.L().Warn("failed to finish run", zap.String("run_id", run.ID), zap.Error(err))
		}

		zap.L().Info("batch complete",
			zap.String("run_id", run.ID),
			zap.Int("total", summary.Total),
			zap.Int("high_confidence", summary.High),
			zap.Int("medium_confidence", summary.Medium),
			zap.Int("zero_confidence", summary.Zero),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchInput, "input", "", "input questions JSONL (required)")
	batchCmd.Flags().StringVar(&batchOutput, "output", "answers.jsonl", "output records JSONL")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// processFunc is the callback signature for answering one question.
type processFunc func(ctx context.Context, q model.Question) model.OutputRecord

// processQuestions answers questions concurrently and returns records in
// input order. Workers never return errors; failure isolation happens
// inside the process function, so the only way the group stops early is
// context cancellation.
func processQuestions(ctx context.Context, questions []model.Question, concurrency int, process processFunc) []model.OutputRecord {
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("questions", len(questions)),
		zap.Int("concurrency", concurrency),
	)

	records := make([]model.OutputRecord, len(questions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, q := range questions {
		g.Go(func() error {
			records[i] = process(gctx, q)
			return nil
		})
	}
	_ = g.Wait()

	return records
}

// readQuestions loads a JSONL question file. Blank lines are skipped; an
// unparseable line is a fatal input error, not a per-question failure.
func readQuestions(path string) ([]model.Question, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: open input %s", path)
	}
	defer f.Close()

	questions, err := parseQuestions(f)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: parse input %s", path)
	}
	return questions, nil
}

func parseQuestions(r io.Reader) ([]model.Question, error) {
	var questions []model.Question
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var q model.Question
		if err := json.Unmarshal([]byte(text), &q); err != nil {
			return nil, eris.Wrapf(err, "line %d", line)
		}
		questions = append(questions, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "read")
	}
	return questions, nil
}

// writeRecords writes one JSON record per line, preserving order.
func writeRecords(path string, records []model.OutputRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create output %s", path)
	}

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			_ = f.Close()
			return eris.Wrapf(err, "batch: write record %s", rec.ID)
		}
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return eris.Wrapf(err, "batch: flush output %s", path)
	}
	return eris.Wrapf(f.Close(), "batch: close output %s", path)
}
