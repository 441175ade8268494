package domain

// Page holds the extracted text of one page of a document.
// It is the unit of output from a text extractor.
type Page struct {
	// Num is the 1-based page number.
	// Nil when the source format has no pagination (plain text, markdown).
	Num *int

	// Text is the raw extracted text for the page.
	Text string
}

// Chunk represents a bounded passage of document text.
// Chunks are the unit of retrieval: each one is embedded, indexed and
// returned as a source for answers.
//
// Chunks are created in a single batch when a document is ingested and
// are immutable afterwards. They are only removed when the owning
// document is deleted.
type Chunk struct {
	// ID is the stable chunk identifier, "<documentID>:<page>:<index>".
	// The page component is 0 for unpaginated sources.
	ID string `json:"id"`

	// DocumentID links to the owning document.
	DocumentID string `json:"document_id"`

	// Text is the chunk content. Non-empty after trimming.
	Text string `json:"text"`

	// PageNum is the source page, nil when the source has no pagination.
	PageNum *int `json:"page_num"`

	// ChunkIndex is the zero-based position within the document.
	// It increases across page boundaries and never resets.
	ChunkIndex int `json:"chunk_index"`

	// Meta carries key-value annotations attached at ingest time,
	// such as detected identifiers. Never mutated after creation.
	Meta map[string]string `json:"meta,omitempty"`
}
