package domain

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Document holds the extracted text of one uploaded file.
// Documents are immutable after extraction; they are only removed by an
// explicit delete or a collection reset.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Text       string    `json:"text"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Chunk is one windowed span of a document's text, the unit of embedding
// and retrieval. Start and End are rune offsets into the parent text.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Seq        int    `json:"seq"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Text       string `json:"text"`
}

// ChunkID derives the stable point ID for a chunk from its document ID and
// sequence index. Re-ingesting the same document produces identical IDs, so
// an upsert overwrites prior records instead of duplicating them.
func ChunkID(documentID string, seq int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("%s:%d", documentID, seq))).String()
}

// IndexRecord is the persisted form of a chunk: its embedding plus the
// metadata needed to surface it at query time. The chunk ID is the unique key.
type IndexRecord struct {
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	Seq        int       `json:"seq"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
}

// ScoredRecord is a search hit with its similarity score.
type ScoredRecord struct {
	Record IndexRecord `json:"record"`
	Score  float64     `json:"score"`
}

// Passage is one retrieved chunk forwarded to the generation backend.
type Passage struct {
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	DocumentID string  `json:"document_id"`
}

// RetrievedContext is the ordered, size-bounded set of passages assembled for
// a query. Passages are in descending score order. An empty context is a
// valid outcome, not an error.
type RetrievedContext struct {
	Passages []Passage `json:"passages"`
}

// Empty reports whether no passages were retrieved.
func (c RetrievedContext) Empty() bool {
	return len(c.Passages) == 0
}

// Size returns the total length of all passages in runes, the unit chunk
// windows and context budgets are measured in.
func (c RetrievedContext) Size() int {
	total := 0
	for _, p := range c.Passages {
		total += utf8.RuneCountInString(p.Text)
	}
	return total
}

// Sources returns the distinct document IDs backing the context, in first-seen
// order.
func (c RetrievedContext) Sources() []string {
	seen := make(map[string]struct{}, len(c.Passages))
	var sources []string
	for _, p := range c.Passages {
		if _, ok := seen[p.DocumentID]; ok {
			continue
		}
		seen[p.DocumentID] = struct{}{}
		sources = append(sources, p.DocumentID)
	}
	return sources
}

// Answer is a generated response together with the context it was grounded
// on. Answers are ephemeral; they are returned to the caller, never persisted.
type Answer struct {
	Text        string           `json:"text"`
	Context     RetrievedContext `json:"context"`
	Sources     []string         `json:"sources"`
	NumContexts int              `json:"num_contexts"`
	Generated   bool             `json:"generated"`
}
