// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the migration pipeline.
// Documents themselves stay opaque identifiers (the archive directory
// names); only per-document outcomes carry structure.
package types

// Outcome indicates how the migration handled a single document.
type Outcome string

const (
	// OutcomeUploaded means the document was exported and submitted to the server.
	OutcomeUploaded Outcome = "uploaded"
	// OutcomeExported means the PDF was produced but not uploaded (dry run).
	OutcomeExported Outcome = "exported"
	// OutcomeSkipped means the export artifact already existed on disk.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnsupported means the document offered no known export filter.
	OutcomeUnsupported Outcome = "unsupported"
)

// DocumentResult records the migration outcome for one document.
type DocumentResult struct {
	// DocID is the document identifier.
	DocID string `json:"doc_id" yaml:"doc_id"`

	// Outcome is how the document was handled.
	Outcome Outcome `json:"outcome" yaml:"outcome"`

	// Labels are the Paperwork labels read from the document, if any.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`

	// TagIDs are the paperless-ngx tag identifiers the labels resolved to.
	TagIDs []int `json:"tag_ids,omitempty" yaml:"tag_ids,omitempty"`

	// ExportPath is where the PDF was written, empty when none was produced.
	ExportPath string `json:"export_path,omitempty" yaml:"export_path,omitempty"`
}
