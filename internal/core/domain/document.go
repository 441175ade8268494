package domain

import "time"

// DocumentRecord is the registry entry for an ingested document.
// It is written once at ingest and read to list documents, select
// extraction schemas and locate per-document index artifacts.
type DocumentRecord struct {
	// ID is the unique document identifier.
	ID string

	// Filename is the original upload filename.
	Filename string

	// MIMEType is the declared content type.
	MIMEType string

	// DocumentType is the detected business document type
	// (e.g. "bol", "invoice", "rate_confirmation"). Empty when unknown.
	DocumentType string

	// Identifiers holds globally detected identifiers such as
	// po_number or container_id.
	Identifiers map[string]string

	// NumPages is the page count reported by extraction.
	NumPages int

	// NumChunks is the number of chunks produced at ingest.
	NumChunks int

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}
