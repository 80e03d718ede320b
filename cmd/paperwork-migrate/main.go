// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paperwork-migrate CLI, which moves
// documents from a local Paperwork archive into a paperless-ngx server.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paperwork-migrate/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command; the migration itself runs here, there are no
// stage subcommands.
var rootCmd = &cobra.Command{
	Use:   "paperwork-migrate <archive-path> <paperless-url> <token> <export-dir>",
	Short: "Migrate Paperwork documents to paperless-ngx",
	Long: `paperwork-migrate walks a Paperwork archive, exports each document as a PDF
through the paperwork-json CLI, and uploads the PDFs with their creation date
and tags to a paperless-ngx instance.

Labels in Paperwork are matched to paperless-ngx tags by slug; unmatched
labels are dropped. A document whose PDF already exists in the export
directory is treated as migrated and skipped, so an interrupted run can be
restarted safely.

Pass "-" as the token to read it from .secrets/paperless-token instead.

NOTE: only a flatpak install of Paperwork is supported.`,
	Args: cobra.ExactArgs(4),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runMigrate,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./paperwork-migrate.yaml or ~/.config/paperwork-migrate/config.yaml)")
	rootCmd.Flags().Bool("dry-run", false, "export PDFs without uploading them")
	rootCmd.Flags().String("report", "", "write a YAML per-document outcome report to this path")
	rootCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paperwork-migrate")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paperwork-migrate"))
		}
	}

	viper.SetEnvPrefix("PAPERWORK_MIGRATE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
