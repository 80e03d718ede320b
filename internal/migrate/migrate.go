// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package migrate drives the archive pass: scan, export, upload. Progress is
// restartable only through the export artifacts on disk; a document whose
// PDF exists in the export directory is never touched again.
package migrate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paperwork-migrate/internal/archive"
	"github.com/pdiddy/paperwork-migrate/internal/paperless"
	"github.com/pdiddy/paperwork-migrate/internal/paperwork"
	"github.com/pdiddy/paperwork-migrate/pkg/types"
)

// DocumentTool is the paperwork-json surface the migration needs.
type DocumentTool interface {
	// Labels returns the document's labels; found is false when the
	// metadata has no labels field.
	Labels(docID string) (labels []string, found bool, err error)

	// ExportFilters probes the export filters available for the document.
	ExportFilters(docID string) ([]string, error)

	// Export renders the document to a PDF at outPath using the filter chain.
	Export(docID string, filters []string, outPath string) error
}

// Uploader submits an exported PDF to the target server.
type Uploader interface {
	Upload(path string, created time.Time, tagIDs []int) error
}

// BatchResult summarizes a migration pass.
type BatchResult struct {
	Uploaded    int `yaml:"uploaded"`
	Exported    int `yaml:"exported"`
	Skipped     int `yaml:"skipped"`
	Unsupported int `yaml:"unsupported"`

	Results []types.DocumentResult `yaml:"documents"`
}

// Total returns the number of documents processed.
func (r BatchResult) Total() int {
	return r.Uploaded + r.Exported + r.Skipped + r.Unsupported
}

// Run migrates the named documents one at a time, writing per-document
// status lines to w. Tag resolution uses the slug-to-ID mapping fetched once
// at startup. The first subprocess or HTTP error aborts the pass; the
// partial BatchResult is returned alongside the error. Unsupported filter
// sets and missing labels do not abort.
//
// The already-exported check runs before the date prefix is parsed, so a
// malformed entry whose artifact exists is skipped rather than failing the
// run; an unexported malformed entry is still fatal when reached.
func Run(cfg types.MigrationConfig, tool DocumentTool, uploader Uploader, tags map[string]int, docIDs []string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	for _, docID := range docIDs {
		exportPath := filepath.Join(cfg.ExportDir, docID+".pdf")

		// The artifact on disk is the migration marker. No CLI probe, no
		// export, no upload for documents that already have one.
		if _, err := os.Stat(exportPath); err == nil {
			fmt.Fprintf(w, "skipped: %s (already exported)\n", docID)
			result.Skipped++
			result.Results = append(result.Results, types.DocumentResult{
				DocID:      docID,
				Outcome:    types.OutcomeSkipped,
				ExportPath: exportPath,
			})
			continue
		}

		fmt.Fprintf(w, "processing: %s\n", docID)

		created, err := archive.ParseDocDate(docID)
		if err != nil {
			return result, err
		}

		labels, found, err := tool.Labels(docID)
		if err != nil {
			return result, fmt.Errorf("reading labels for %s: %w", docID, err)
		}
		if !found {
			fmt.Fprintf(w, "  warning: no labels for %s\n", docID)
		}

		filters, err := tool.ExportFilters(docID)
		if err != nil {
			return result, fmt.Errorf("probing filters for %s: %w", docID, err)
		}

		chain, ok := paperwork.SelectFilters(filters)
		if !ok {
			fmt.Fprintf(w, "  error: unknown filters %v for %s\n", filters, docID)
			result.Unsupported++
			result.Results = append(result.Results, types.DocumentResult{
				DocID:   docID,
				Outcome: types.OutcomeUnsupported,
				Labels:  labels,
			})
			continue
		}

		if err := tool.Export(docID, chain, exportPath); err != nil {
			return result, err
		}

		if cfg.DryRun {
			fmt.Fprintf(w, "exported: %s (dry run)\n", docID)
			result.Exported++
			result.Results = append(result.Results, types.DocumentResult{
				DocID:      docID,
				Outcome:    types.OutcomeExported,
				Labels:     labels,
				ExportPath: exportPath,
			})
			continue
		}

		tagIDs := paperless.ResolveTags(tags, labels)
		if err := uploader.Upload(exportPath, created, tagIDs); err != nil {
			return result, err
		}

		fmt.Fprintf(w, "uploaded: %s (tags %v)\n", docID, tagIDs)
		result.Uploaded++
		result.Results = append(result.Results, types.DocumentResult{
			DocID:      docID,
			Outcome:    types.OutcomeUploaded,
			Labels:     labels,
			TagIDs:     tagIDs,
			ExportPath: exportPath,
		})
	}

	fmt.Fprintf(w, "\nMigration summary: %d uploaded, %d exported, %d skipped, %d unsupported (total: %d)\n",
		result.Uploaded, result.Exported, result.Skipped, result.Unsupported, result.Total())
	return result, nil
}

// WriteReport writes the per-document outcomes to path as YAML.
func WriteReport(path string, result BatchResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
