// Package retrieval provides lexical search over a chunked document
// corpus. Chunks are keyed by stable ids of the form "<doc>::chunk<N>";
// lookups never rely on content equality, so duplicate chunk text is
// unambiguous.
package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sells-group/analyst-cli/internal/model"
)

// Searcher is the retrieval collaborator consumed by the agent.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]model.ChunkMatch, error)
}

// defaultChunkChars bounds chunk size when the config leaves it unset.
const defaultChunkChars = 1200

// Index is an in-memory lexical index over the corpus. It is built once
// before batch start and is read-only afterwards, so concurrent Search
// calls need no locking.
type Index struct {
	chunks []chunk
}

type chunk struct {
	id     string
	text   string
	tf     map[string]int
	tokens int
}

// NewIndex loads every .md/.txt file under dir, applies the optional
// manifest, and chunks documents on paragraph boundaries into pieces of
// at most chunkChars characters.
func NewIndex(dir string, manifest *Manifest, chunkChars int) (*Index, error) {
	if chunkChars <= 0 {
		chunkChars = defaultChunkChars
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "retrieval: read corpus dir %s", dir)
	}

	idx := &Index{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".md" && ext != ".txt" {
			continue
		}

		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		source, ok := manifest.sourceName(entry.Name(), base)
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, eris.Wrapf(err, "retrieval: read doc %s", entry.Name())
		}

		for i, piece := range splitChunks(string(data), chunkChars) {
			id := fmt.Sprintf("%s::chunk%d", source, i)
			idx.chunks = append(idx.chunks, chunk{
				id:     id,
				text:   piece,
				tf:     termFrequencies(piece),
				tokens: len(strings.Fields(piece)),
			})
		}
	}

	zap.L().Info("corpus indexed",
		zap.String("dir", dir),
		zap.Int("chunks", len(idx.chunks)),
	)
	return idx, nil
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int { return len(idx.chunks) }

// Chunk returns the chunk with the given stable id.
func (idx *Index) Chunk(id string) (model.ChunkMatch, bool) {
	for _, c := range idx.chunks {
		if c.id == id {
			return model.ChunkMatch{ID: c.id, Text: c.text}, true
		}
	}
	return model.ChunkMatch{}, false
}

// Search scores every chunk against the query's keywords and returns the
// topK matches ordered by descending score. Chunks with zero overlap are
// omitted; an empty result is valid.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]model.ChunkMatch, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "retrieval: search")
	}
	if topK <= 0 {
		topK = 3
	}

	keywords := keywords(query)
	if len(keywords) == 0 {
		return nil, nil
	}

	type scored struct {
		idx   int
		score float64
	}
	var hits []scored
	for i, c := range idx.chunks {
		s := 0.0
		for _, kw := range keywords {
			s += float64(c.tf[kw])
		}
		if s == 0 {
			continue
		}
		// Mild length normalization so long chunks don't dominate.
		if c.tokens > 0 {
			s /= 1 + float64(c.tokens)/200.0
		}
		hits = append(hits, scored{idx: i, score: s})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > topK {
		hits = hits[:topK]
	}

	matches := make([]model.ChunkMatch, 0, len(hits))
	for _, h := range hits {
		c := idx.chunks[h.idx]
		matches = append(matches, model.ChunkMatch{
			ID:    c.id,
			Text:  c.text,
			Score: h.score,
		})
	}
	return matches, nil
}

// splitChunks splits text into pieces of at most limit characters,
// breaking on blank-line paragraph boundaries. A single oversized
// paragraph becomes its own chunk rather than being split mid-sentence.
func splitChunks(text string, limit int) []string {
	paragraphs := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n")

	var chunks []string
	var current strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+len(p) > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}

// foldTransform strips diacritics after NFD decomposition so "café"
// and "cafe" tokenize identically.
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "been": true, "have": true, "has": true, "had": true,
	"this": true, "that": true, "with": true, "from": true, "what": true,
	"how": true, "does": true, "which": true, "where": true, "when": true,
	"who": true, "why": true, "can": true, "will": true, "not": true,
	"all": true, "per": true, "during": true,
}

// tokenize lowercases, folds diacritics, and splits on non-alphanumerics.
func tokenize(text string) []string {
	folded, _, err := transform.String(foldTransform, text)
	if err != nil {
		folded = text
	}
	folded = strings.ToLower(folded)
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywords returns deduplicated query tokens of 3+ chars, stop words removed.
func keywords(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenize(text) {
		if len(tok) < 3 || stopWords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

func termFrequencies(text string) map[string]int {
	tf := make(map[string]int)
	for _, tok := range tokenize(text) {
		if len(tok) < 3 || stopWords[tok] {
			continue
		}
		tf[tok]++
	}
	return tf
}
