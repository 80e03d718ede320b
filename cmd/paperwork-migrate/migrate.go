// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paperwork-migrate/internal/archive"
	"github.com/pdiddy/paperwork-migrate/internal/httputil"
	"github.com/pdiddy/paperwork-migrate/internal/migrate"
	"github.com/pdiddy/paperwork-migrate/internal/paperless"
	"github.com/pdiddy/paperwork-migrate/internal/paperwork"
	"github.com/pdiddy/paperwork-migrate/internal/secrets"
	"github.com/pdiddy/paperwork-migrate/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "paperwork-migrate/0.1"
)

// detectTool locates the paperwork-json CLI. Tests override this to avoid
// requiring a flatpak install.
var detectTool = func() (migrate.DocumentTool, error) {
	return paperwork.Detect()
}

func runMigrate(cmd *cobra.Command, args []string) error {
	archiveDir, serverURL, token, exportDir := args[0], args[1], args[2], args[3]

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	reportPath, _ := cmd.Flags().GetString("report")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}

	if _, err := os.Stat(archiveDir); err != nil {
		return fmt.Errorf("archive path %s does not exist: %w", archiveDir, err)
	}
	if _, err := os.Stat(exportDir); err != nil {
		return fmt.Errorf("export path %s does not exist: %w", exportDir, err)
	}

	if token == "-" {
		token = loadedSecrets[secrets.TokenKey]
		if token == "" {
			return fmt.Errorf("no token given and .secrets/%s not found", secrets.TokenKey)
		}
	}

	cfg := types.MigrationConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: defaultUserAgent,
		},
		ExportDir: exportDir,
		DryRun:    dryRun,
	}

	tool, err := detectTool()
	if err != nil {
		return err
	}

	server := paperless.New(serverURL, httputil.NewClient(token, cfg.UserAgent, cfg.Timeout))

	info, err := server.Ping()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Found paperless-ngx v%s with API v%s\n", info.Version, info.APIVersion)

	tags, err := server.Tags()
	if err != nil {
		return err
	}

	docs, err := archive.Scan(archiveDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Found %d documents in archive %s\n", len(docs), archiveDir)

	result, runErr := migrate.Run(cfg, tool, server, tags, docs, os.Stdout)

	if reportPath != "" {
		// Write the report even after an aborted run so the partial
		// progress is visible.
		if err := migrate.WriteReport(reportPath, result); err != nil {
			if runErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %v\n", err)
				return runErr
			}
			return err
		}
	}
	return runErr
}
