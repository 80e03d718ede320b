// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package paperwork

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// mockExecutor records invocations and serves canned stdout per command line.
type mockExecutor struct {
	availableBins map[string]bool   // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool   // "bin arg1 arg2" -> whether RunSilent succeeds
	outputs       map[string]string // "bin arg1 arg2" -> stdout for Output
	calls         []string
}

func key(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	k := key(name, args)
	m.calls = append(m.calls, k)
	if m.runnableCmds[k] {
		return nil
	}
	return errors.New("command failed: " + k)
}

func (m *mockExecutor) Output(name string, args ...string) ([]byte, error) {
	k := key(name, args)
	m.calls = append(m.calls, k)
	out, ok := m.outputs[k]
	if !ok {
		return nil, errors.New("exit status 1: " + k)
	}
	return []byte(out), nil
}

const cmdPrefix = "flatpak run --command=paperwork-json work.openpaper.Paperwork"

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		exec    *mockExecutor
		wantErr string
	}{
		{
			name: "flatpak and app present",
			exec: &mockExecutor{
				availableBins: map[string]bool{"flatpak": true},
				runnableCmds:  map[string]bool{"flatpak info work.openpaper.Paperwork": true},
			},
		},
		{
			name:    "flatpak missing",
			exec:    &mockExecutor{availableBins: map[string]bool{}},
			wantErr: "not found on PATH",
		},
		{
			name: "app not installed",
			exec: &mockExecutor{
				availableBins: map[string]bool{"flatpak": true},
				runnableCmds:  map[string]bool{},
			},
			wantErr: "not installed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := detect(tt.exec)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if c == nil {
				t.Fatal("detect returned nil client")
			}
		})
	}
}

func TestLabels(t *testing.T) {
	tests := []struct {
		name      string
		stdout    string
		want      []string
		wantFound bool
	}{
		{
			name:      "two labels",
			stdout:    `{"document":{"labels":[{"label":"Invoice"},{"label":"Taxes"}]}}`,
			want:      []string{"Invoice", "Taxes"},
			wantFound: true,
		},
		{
			name:      "empty label list",
			stdout:    `{"document":{"labels":[]}}`,
			want:      nil,
			wantFound: true,
		},
		{
			name:      "labels field missing",
			stdout:    `{"document":{}}`,
			want:      nil,
			wantFound: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{outputs: map[string]string{
				cmdPrefix + " show 20210314_doc": tt.stdout,
			}}
			c := &Client{exec: exec}

			labels, found, err := c.Labels("20210314_doc")
			if err != nil {
				t.Fatalf("Labels: %v", err)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			if !reflect.DeepEqual(labels, tt.want) {
				t.Errorf("labels = %v, want %v", labels, tt.want)
			}
		})
	}
}

func TestLabelsSubprocessFailure(t *testing.T) {
	c := &Client{exec: &mockExecutor{}}
	_, _, err := c.Labels("20210314_doc")
	if err == nil {
		t.Fatal("expected error from failing subprocess")
	}
}

func TestLabelsBadJSON(t *testing.T) {
	exec := &mockExecutor{outputs: map[string]string{
		cmdPrefix + " show 20210314_doc": "not json",
	}}
	c := &Client{exec: exec}
	_, _, err := c.Labels("20210314_doc")
	if err == nil || !strings.Contains(err.Error(), "parsing show output") {
		t.Fatalf("error = %v, want parse error", err)
	}
}

func TestExportFilters(t *testing.T) {
	exec := &mockExecutor{outputs: map[string]string{
		cmdPrefix + " export 20210314_doc": `["unmodified_pdf","doc_to_pages"]`,
	}}
	c := &Client{exec: exec}

	filters, err := c.ExportFilters("20210314_doc")
	if err != nil {
		t.Fatalf("ExportFilters: %v", err)
	}
	want := []string{"unmodified_pdf", "doc_to_pages"}
	if !reflect.DeepEqual(filters, want) {
		t.Errorf("filters = %v, want %v", filters, want)
	}
}

func TestExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "20210314_doc.pdf")
	abs, err := filepath.Abs(out)
	if err != nil {
		t.Fatal(err)
	}
	wantCmd := cmdPrefix + " export 20210314_doc --filter unmodified_pdf --out " + abs

	exec := &mockExecutor{outputs: map[string]string{wantCmd: ""}}
	c := &Client{exec: exec}

	if err := c.Export("20210314_doc", []string{FilterUnmodifiedPDF}, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(exec.calls) != 1 || exec.calls[0] != wantCmd {
		t.Errorf("calls = %v, want exactly [%q]", exec.calls, wantCmd)
	}
}

func TestExportChainOrder(t *testing.T) {
	out := filepath.Join(t.TempDir(), "doc.pdf")
	abs, _ := filepath.Abs(out)
	wantCmd := cmdPrefix + " export 20210314_doc" +
		" --filter doc_to_pages --filter img_boxes --filter generated_pdf --out " + abs

	exec := &mockExecutor{outputs: map[string]string{wantCmd: ""}}
	c := &Client{exec: exec}

	chain := []string{FilterDocToPages, FilterImgBoxes, FilterGeneratedPDF}
	if err := c.Export("20210314_doc", chain, out); err != nil {
		t.Fatalf("Export: %v", err)
	}
}

func TestExportFailure(t *testing.T) {
	c := &Client{exec: &mockExecutor{}}
	err := c.Export("20210314_doc", []string{FilterUnmodifiedPDF}, filepath.Join(t.TempDir(), "x.pdf"))
	if err == nil || !strings.Contains(err.Error(), "exporting 20210314_doc") {
		t.Fatalf("error = %v, want export failure", err)
	}
}

func TestSelectFilters(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		wantChain []string
		wantOK    bool
	}{
		{
			name:      "unmodified pdf preferred",
			available: []string{"doc_to_pages", "unmodified_pdf"},
			wantChain: []string{"unmodified_pdf"},
			wantOK:    true,
		},
		{
			name:      "unmodified pdf alone",
			available: []string{"unmodified_pdf"},
			wantChain: []string{"unmodified_pdf"},
			wantOK:    true,
		},
		{
			name:      "page chain for scanned docs",
			available: []string{"doc_to_pages"},
			wantChain: []string{"doc_to_pages", "img_boxes", "generated_pdf"},
			wantOK:    true,
		},
		{
			name:      "no known filter",
			available: []string{"something_else"},
			wantOK:    false,
		},
		{
			name:      "empty probe",
			available: nil,
			wantOK:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, ok := SelectFilters(tt.available)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !reflect.DeepEqual(chain, tt.wantChain) {
				t.Errorf("chain = %v, want %v", chain, tt.wantChain)
			}
		})
	}
}
