package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/DOVA00/checking-links/internal/config"
)

//go:embed templates/checklinks.yaml
var configTemplate []byte

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a checklinks configuration file",
		Long: `Init writes a commented .checklinks configuration file.

The file configures how the contact page and privacy policy probes talk to
specific sites: cookies, headers, a User-Agent and extra paths to try.

Examples:
  # Create .checklinks in the current directory
  checklinks init

  # Create the file at a specific path
  checklinks init -o ~/.config/checklinks/config.yaml

  # Overwrite an existing file
  checklinks init -f`,
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

	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(outputPath, configTemplate, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to configure per-site probe settings such as:")
	fmt.Fprintln(out, "  - Cookies and headers")
	fmt.Fprintln(out, "  - A custom User-Agent")
	fmt.Fprintln(out, "  - Extra contact and privacy policy paths")

	return nil
}
