package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mailspider/mailspider/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/mailspider.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mailspider configuration file",
		Long: `Initialize creates a new .mailspider configuration file in the current
directory.

The generated file includes:
- Default settings for crawl depth, workers, and strict mode
- Commented examples for per-domain overrides
- Documentation for all available options

Examples:
  # Create .mailspider in current directory
  mailspider init

  # Create config file at a specific path
  mailspider init -o myconfig.yaml

  # Force overwrite existing file
  mailspider init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/mailspider.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to configure per-domain settings such as:")
	fmt.Println("  - Crawl depth and worker count")
	fmt.Println("  - Strict mode and User-Agent overrides")
	fmt.Println("  - URL path patterns to skip")

	return nil
}
