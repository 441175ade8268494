// Package chunker splits extracted document text into bounded,
// semantically coherent passages for embedding and retrieval.
//
// Pages classified as markdown-like are parsed into typed blocks
// (headings, tables, key-value runs, text) so chunk boundaries respect
// document structure; plain pages fall back to paragraph splitting.
package chunker

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docask-cli/internal/core/domain"
)

// DefaultMaxChars is the default chunk size budget in characters.
const DefaultMaxChars = 2200

// DefaultOverlapChars is the default overlap between the pieces of a
// hard-split oversized block.
const DefaultOverlapChars = 200

// joinSepLen is the length of the "\n\n" separator between packed
// blocks, counted against the budget per block.
const joinSepLen = 2

// Chunker packs document text into chunks bounded by a character budget.
type Chunker struct {
	maxChars     int
	overlapChars int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChars sets the chunk size budget in characters.
func WithMaxChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChars = n
		}
	}
}

// WithOverlapChars sets the hard-split overlap in characters.
func WithOverlapChars(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapChars = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChars:     DefaultMaxChars,
		overlapChars: DefaultOverlapChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave room for forward progress when hard-splitting.
	if c.overlapChars >= c.maxChars {
		c.overlapChars = c.maxChars / 4
	}

	return c
}

// MaxChars returns the configured chunk size budget.
func (c *Chunker) MaxChars() int { return c.maxChars }

// OverlapChars returns the configured hard-split overlap.
func (c *Chunker) OverlapChars() int { return c.overlapChars }

// Chunk splits the extracted pages of one document into chunks.
// Chunk indices are zero-based and increase across page boundaries.
// Returns domain.ErrEmptyDocument when no page yields any text.
func (c *Chunker) Chunk(documentID string, pages []domain.Page) ([]domain.Chunk, error) {
	b := &builder{chunker: c, documentID: documentID}

	for _, page := range pages {
		text := normalizeNewlines(page.Text)
		if strings.TrimSpace(text) == "" {
			continue
		}

		var blocks []Block
		if looksStructured(text) {
			blocks = ParseBlocks(text)
		} else {
			blocks = paragraphBlocks(text)
		}

		b.packPage(page.Num, blocks)
	}

	if len(b.chunks) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return b.chunks, nil
}

// paragraphBlocks splits plain text on blank-line boundaries.
func paragraphBlocks(text string) []Block {
	var blocks []Block
	for _, para := range splitBlankLines(text) {
		blocks = append(blocks, Block{Kind: BlockText, Text: para})
	}
	return blocks
}

// splitBlankLines splits text into trimmed paragraphs on runs of
// blank lines.
func splitBlankLines(text string) []string {
	var paras []string
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		p := strings.TrimSpace(strings.Join(buf, "\n"))
		if p != "" {
			paras = append(paras, p)
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return paras
}

// builder accumulates blocks into chunks for one document.
type builder struct {
	chunker    *Chunker
	documentID string

	chunks []domain.Chunk
	buf    []string
	bufLen int
}

// packPage packs one page's blocks. The buffer is flushed at page end
// so a chunk never spans pages with different page numbers.
func (b *builder) packPage(pageNum *int, blocks []Block) {
	maxChars := b.chunker.maxChars

	for i, block := range blocks {
		text := block.Text
		size := len(text)

		// Headings prefer to start a new chunk rather than end one.
		if block.Kind == BlockHeading && len(b.buf) > 0 {
			lookahead := 0
			if i+1 < len(blocks) {
				lookahead = len(blocks[i+1].Text) + joinSepLen
			}
			if b.bufLen+size+joinSepLen+lookahead > maxChars {
				b.flush(pageNum)
			}
		}

		// Oversized atomic blocks are flushed in isolation and
		// hard-split into overlapping windows.
		if size > maxChars {
			b.flush(pageNum)
			b.hardSplit(pageNum, text)
			continue
		}

		if b.bufLen+size+joinSepLen <= maxChars {
			b.buf = append(b.buf, text)
			b.bufLen += size + joinSepLen
			continue
		}

		b.flush(pageNum)
		b.buf = append(b.buf, text)
		b.bufLen = size
	}

	b.flush(pageNum)
}

// flush emits the buffered blocks as one chunk.
func (b *builder) flush(pageNum *int) {
	if len(b.buf) == 0 {
		return
	}
	joined := strings.TrimSpace(strings.Join(b.buf, "\n\n"))
	b.buf = b.buf[:0]
	b.bufLen = 0
	if joined == "" {
		return
	}
	b.emit(pageNum, joined)
}

// hardSplit emits an oversized block as character windows with overlap
// between consecutive pieces. Overlap never stalls the window: the
// constructor guarantees overlapChars < maxChars.
func (b *builder) hardSplit(pageNum *int, text string) {
	maxChars := b.chunker.maxChars
	overlap := b.chunker.overlapChars

	start := 0
	for start < len(text) {
		end := start + maxChars
		if end > len(text) {
			end = len(text)
		}
		piece := strings.TrimSpace(text[start:end])
		if piece != "" {
			b.emit(pageNum, piece)
		}
		if end >= len(text) {
			break
		}
		start = end - overlap
	}
}

// emit appends a chunk with the next document-wide index.
func (b *builder) emit(pageNum *int, text string) {
	page := 0
	if pageNum != nil {
		page = *pageNum
	}
	idx := len(b.chunks)
	b.chunks = append(b.chunks, domain.Chunk{
		ID:         fmt.Sprintf("%s:%d:%d", b.documentID, page, idx),
		DocumentID: b.documentID,
		Text:       text,
		PageNum:    pageNum,
		ChunkIndex: idx,
	})
}
