package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for checklinks.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklinks",
		Short: "Evaluate how trustworthy links are",
		Long: `checklinks evaluates how trustworthy a link is.

Every URL goes through the same checks: HTTPS, a valid TLS certificate, a
well-formed domain, a contact page, a privacy policy and, when an API key is
configured, Google Safe Browsing. The results are combined into a score from
0 to 100 and a trust level from DANGEROUS to VERY_HIGH.

Checks that cannot reach a site never fail the run; they count as not
passed and the reason is kept with the result.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewTextCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
