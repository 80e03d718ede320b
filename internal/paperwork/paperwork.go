// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package paperwork wraps the paperwork-json command-line tool. Documents are
// read and exported by shelling out to the flatpak install of Paperwork; the
// CLI's JSON output is the contract, nothing here touches the archive format
// itself.
package paperwork

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
)

const (
	binFlatpak = "flatpak"
	appID      = "work.openpaper.Paperwork"
	jsonCmd    = "paperwork-json"
)

// Export filter names exposed by paperwork-json.
const (
	// FilterUnmodifiedPDF emits the original PDF bytes untouched.
	FilterUnmodifiedPDF = "unmodified_pdf"
	// FilterDocToPages rasterizes a document into per-page images.
	FilterDocToPages = "doc_to_pages"
	// FilterImgBoxes overlays recognized word boxes onto page images.
	FilterImgBoxes = "img_boxes"
	// FilterGeneratedPDF assembles page images into a new PDF.
	FilterGeneratedPDF = "generated_pdf"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	Output(name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("%w: %s", err, bytes.TrimSpace(exitErr.Stderr))
		}
		return nil, err
	}
	return out, nil
}

// Client invokes paperwork-json subcommands through flatpak.
type Client struct {
	exec executor
}

var defaultExec = &osExecutor{}

// Detect verifies that flatpak is on PATH and the Paperwork app is installed,
// and returns a Client. Only the flatpak distribution of Paperwork is
// supported.
func Detect() (*Client, error) {
	return detect(defaultExec)
}

func detect(exec executor) (*Client, error) {
	if _, err := exec.LookPath(binFlatpak); err != nil {
		return nil, fmt.Errorf("%s not found on PATH: %w", binFlatpak, err)
	}
	if err := exec.RunSilent(binFlatpak, "info", appID); err != nil {
		return nil, fmt.Errorf("flatpak app %s not installed: %w", appID, err)
	}
	return &Client{exec: exec}, nil
}

// run invokes paperwork-json with args and returns its stdout.
func (c *Client) run(args ...string) ([]byte, error) {
	argv := append([]string{"run", "--command=" + jsonCmd, appID}, args...)
	out, err := c.exec.Output(binFlatpak, argv...)
	if err != nil {
		return nil, fmt.Errorf("%s %v: %w", jsonCmd, args, err)
	}
	return out, nil
}

// showResponse mirrors the metadata document emitted by "show". Labels is a
// pointer so a document without a labels field can be told apart from one
// with an empty label list.
type showResponse struct {
	Document struct {
		Labels *[]struct {
			Label string `json:"label"`
		} `json:"labels"`
	} `json:"document"`
}

// Labels runs "show <docID>" and returns the document's labels. The found
// return value reports whether the metadata carried a labels field at all;
// a missing field is not an error.
func (c *Client) Labels(docID string) (labels []string, found bool, err error) {
	out, err := c.run("show", docID)
	if err != nil {
		return nil, false, err
	}

	var resp showResponse
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, false, fmt.Errorf("parsing show output for %s: %w", docID, err)
	}
	if resp.Document.Labels == nil {
		return nil, false, nil
	}
	for _, l := range *resp.Document.Labels {
		labels = append(labels, l.Label)
	}
	return labels, true, nil
}

// ExportFilters runs "export <docID>" without an output target, which makes
// paperwork-json report the filters applicable to that document.
func (c *Client) ExportFilters(docID string) ([]string, error) {
	out, err := c.run("export", docID)
	if err != nil {
		return nil, err
	}

	var filters []string
	if err := json.Unmarshal(out, &filters); err != nil {
		return nil, fmt.Errorf("parsing filter list for %s: %w", docID, err)
	}
	return filters, nil
}

// Export runs "export <docID>" with the given filter chain, writing the PDF
// to outPath. The path is made absolute because paperwork-json resolves it
// relative to the flatpak sandbox working directory.
func (c *Client) Export(docID string, filters []string, outPath string) error {
	abs, err := filepath.Abs(outPath)
	if err != nil {
		return fmt.Errorf("resolving export path %s: %w", outPath, err)
	}

	args := []string{"export", docID}
	for _, f := range filters {
		args = append(args, "--filter", f)
	}
	args = append(args, "--out", abs)

	if _, err := c.run(args...); err != nil {
		return fmt.Errorf("exporting %s: %w", docID, err)
	}
	return nil
}

// SelectFilters picks the export filter chain for a document given the
// filters its probe reported. A native PDF is exported unmodified; scanned
// documents go through the page rasterization chain. The ok return value is
// false when no known export path exists.
func SelectFilters(available []string) (chain []string, ok bool) {
	has := make(map[string]bool, len(available))
	for _, f := range available {
		has[f] = true
	}

	switch {
	case has[FilterUnmodifiedPDF]:
		return []string{FilterUnmodifiedPDF}, true
	case has[FilterDocToPages]:
		return []string{FilterDocToPages, FilterImgBoxes, FilterGeneratedPDF}, true
	default:
		return nil, false
	}
}
