package model

// Question is one analytic question from the batch input. The format
// hint declares the required shape of the final answer ("int", "float",
// "{...}", "list...", anything else means string).
type Question struct {
	ID         string `json:"id"`
	Text       string `json:"question"`
	FormatHint string `json:"format_hint"`
}

// ChunkMatch is a retrieval hit: a document chunk with its stable id
// ("<doc>::chunk<N>") and relevance score, ordered by descending score.
type ChunkMatch struct {
	ID    string  `json:"id"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// OutputRecord is the terminal artifact of processing one question.
// Every field is present even on total failure; citations are always
// deduplicated and sorted, confidence is one of {0.0, 0.5, 1.0}, and
// the explanation is at most 250 characters.
type OutputRecord struct {
	ID          string      `json:"id"`
	FinalAnswer AnswerValue `json:"final_answer"`
	SQL         string      `json:"sql"`
	Confidence  float64     `json:"confidence"`
	Explanation string      `json:"explanation"`
	Citations   []string    `json:"citations"`
}

// Classification labels produced by the router.
const (
	ClassSQL    = "sql"
	ClassRAG    = "rag"
	ClassHybrid = "hybrid"
)
