package main

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/analyst-cli/internal/model"
)

func TestParseQuestions(t *testing.T) {
	input := `{"id": "q1", "question": "How many orders?", "format_hint": "int"}

{"id": "q2", "question": "Top category?", "format_hint": "short answer"}
`
	questions, err := parseQuestions(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, questions, 2, "blank lines are skipped")
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "int", questions[0].FormatHint)
	assert.Equal(t, "Top category?", questions[1].Text)
}

func TestParseQuestions_MalformedLineIsFatal(t *testing.T) {
	input := `{"id": "q1", "question": "ok"}
{not json}
{"id": "q3", "question": "never reached"}`

	_, err := parseQuestions(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestProcessQuestions_PreservesInputOrder(t *testing.T) {
	questions := []model.Question{
		{ID: "q1"}, {ID: "q2"}, {ID: "q3"}, {ID: "q4"}, {ID: "q5"},
	}

	records := processQuestions(context.Background(), questions, 3, func(ctx context.Context, q model.Question) model.OutputRecord {
		// Vary completion order to catch positional mixups.
		if q.ID == "q1" {
			time.Sleep(20 * time.Millisecond)
		}
		return model.OutputRecord{ID: q.ID, Citations: []string{}}
	})

	require.Len(t, records, 5)
	for i, q := range questions {
		assert.Equal(t, q.ID, records[i].ID)
	}
}

func TestProcessQuestions_DefaultsConcurrency(t *testing.T) {
	records := processQuestions(context.Background(), []model.Question{{ID: "q1"}}, 0, func(ctx context.Context, q model.Question) model.OutputRecord {
		return model.OutputRecord{ID: q.ID}
	})
	require.Len(t, records, 1)
}

func TestWriteRecords_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.jsonl")
	records := []model.OutputRecord{
		{ID: "q1", FinalAnswer: model.IntAnswer(830), Confidence: 1.0, Citations: []string{"Orders"}},
		{ID: "q2", FinalAnswer: model.StringAnswer(""), Confidence: 0.0, Citations: []string{}},
	}

	require.NoError(t, writeRecords(path, records))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []model.OutputRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec model.OutputRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		lines = append(lines, rec)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, lines, 2)
	assert.Equal(t, "q1", lines[0].ID)
	assert.Equal(t, int64(830), lines[0].FinalAnswer.Value())
	assert.Equal(t, "q2", lines[1].ID)
	assert.Equal(t, "", lines[1].FinalAnswer.Value())
}

func TestReadQuestions_MissingFile(t *testing.T) {
	_, err := readQuestions(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.Error(t, err)
}
