package types

import "time"

// HTTPConfig holds shared HTTP settings for talking to the paperless-ngx server.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperwork-migrate/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MigrationConfig holds settings for a migration run.
type MigrationConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExportDir receives one <doc-id>.pdf per document. An existing file
	// there marks the document as already migrated.
	ExportDir string `json:"export_dir" yaml:"export_dir"`

	// DryRun exports PDFs without uploading them.
	DryRun bool `json:"dry_run" yaml:"dry_run"`
}
