// Package chunker splits extracted document text into overlapping passages
// using a fixed sliding character window.
package chunker

import (
	"fmt"

	"github.com/umerDev30/pdf-rag-ai-agent/internal/core/domain"
)

// Default window parameters, sized for short-paragraph passages.
const (
	DefaultWindowSize = 1000
	DefaultOverlap    = 200
)

// Chunker produces character-window chunks. The window advances by
// windowSize - overlap, so consecutive chunks share overlap characters and
// the chunk spans cover the whole text with no gaps.
type Chunker struct {
	windowSize int
	overlap    int
}

// New validates the window parameters. windowSize must be positive and
// overlap must satisfy 0 <= overlap < windowSize.
func New(windowSize, overlap int) (*Chunker, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("%w: window size %d must be positive", domain.ErrInvalidConfig, windowSize)
	}
	if overlap < 0 || overlap >= windowSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidConfig, overlap, windowSize)
	}
	return &Chunker{windowSize: windowSize, overlap: overlap}, nil
}

// WindowSize returns the configured window size in characters.
func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into overlapping chunks for the given document. Offsets
// are rune positions so multi-byte text chunks cleanly. Empty text yields no
// chunks and no error. Chunk i starts at i*(windowSize-overlap); the last
// chunk may be shorter than the window.
func (c *Chunker) Chunk(documentID, text string) []domain.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.windowSize - c.overlap
	var chunks []domain.Chunk
	for seq, start := 0, 0; start < len(runes); seq, start = seq+1, start+step {
		end := start + c.windowSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, domain.Chunk{
			ID:         domain.ChunkID(documentID, seq),
			DocumentID: documentID,
			Seq:        seq,
			Start:      start,
			End:        end,
			Text:       string(runes[start:end]),
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
