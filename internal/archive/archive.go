// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive enumerates documents in a Paperwork archive directory.
package archive

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// dateLayout is the creation-date prefix of archive directory names.
const dateLayout = "20060102"

// Scan lists the immediate subdirectories of root and returns their names,
// one document per directory. Files at the top level are ignored. Order
// follows the directory listing; no further ordering is guaranteed.
//
// Date prefixes are not validated here. The migration parses them as each
// document is reached, after the already-exported check, so a stray
// directory that was already skipped in an earlier run cannot abort the
// whole pass.
func Scan(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", root, err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() {
			docs = append(docs, entry.Name())
		}
	}
	return docs, nil
}

// ParseDocDate extracts the creation date from a document identifier of the
// form <YYYYMMDD>_<suffix>. An identifier without an underscore is parsed
// as a bare date.
func ParseDocDate(docID string) (time.Time, error) {
	prefix, _, _ := strings.Cut(docID, "_")
	t, err := time.Parse(dateLayout, prefix)
	if err != nil {
		return time.Time{}, fmt.Errorf("no %s date prefix in %q: %w", dateLayout, docID, err)
	}
	return t, nil
}
