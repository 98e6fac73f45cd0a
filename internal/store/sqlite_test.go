package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/analyst-cli/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "analyst.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func intAnswer(n int64) model.AnswerValue {
	return model.IntAnswer(n)
}

func TestSQLiteStore_RunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "questions.jsonl", "answers.jsonl")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	summary := &model.RunSummary{Total: 3, High: 2, Medium: 1}
	require.NoError(t, s.FinishRun(ctx, run.ID, model.RunStatusComplete, summary))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 3, got.Summary.Total)
	assert.Equal(t, "questions.jsonl", got.InputPath)
}

func TestSQLiteStore_FinishRun_NotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.FinishRun(context.Background(), "no-such-run", model.RunStatusComplete, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteStore_ListRuns_FilterAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateRun(ctx, "a.jsonl", "out.jsonl")
	require.NoError(t, err)
	_, err = s.CreateRun(ctx, "b.jsonl", "out.jsonl")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, a.ID, model.RunStatusComplete, nil))

	runs, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, a.ID, runs[0].ID)

	runs, err = s.ListRuns(ctx, RunFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteStore_Records(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "q.jsonl", "a.jsonl")
	require.NoError(t, err)

	rec := model.OutputRecord{
		ID:          "q1",
		FinalAnswer: intAnswer(830),
		SQL:         "SELECT COUNT(*) FROM Orders",
		Confidence:  1.0,
		Explanation: "Total order count.",
		Citations:   []string{"Orders"},
	}
	require.NoError(t, s.SaveRecord(ctx, run.ID, rec))

	// Saving again upserts rather than failing.
	rec.Confidence = 0.5
	require.NoError(t, s.SaveRecord(ctx, run.ID, rec))

	records, err := s.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "q1", records[0].ID)
	assert.Equal(t, 0.5, records[0].Confidence)
	assert.Equal(t, []string{"Orders"}, records[0].Citations)
	assert.Equal(t, int64(830), records[0].FinalAnswer.Value())
}
