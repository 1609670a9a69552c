package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command. The root command itself performs
// the scan, so the everyday invocation stays short:
//
//	mailspider example.com
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailspider <url> [url...]",
		Short: "Harvest email addresses from a website",
		Long: `Mailspider crawls a website starting from a seed URL, follows links up
to a bounded depth with a pool of concurrent workers, and reports every
email address found in page content as soon as it is discovered.

Addresses whose domain matches the seed's registered domain are printed
in green; --strict suppresses all other addresses. A missing URL scheme
is inferred as https, with a one-shot http retry if the https fetch
cannot reach the server.

Examples:
  # Crawl example.com two levels deep with 4 workers (the defaults)
  mailspider example.com

  # Deeper crawl, more workers, give up after five minutes
  mailspider -d 4 -t 16 --timeout 300 example.com

  # Only addresses @example.com, as a JSON report
  mailspider --strict --json example.com

  # Crawl several sites, two at a time
  mailspider --batch 2 example.com example.org`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runScanCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	addScanFlags(cmd)

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Invalid arguments and unparseable seed
// URLs exit non-zero; completed, timed-out, and interrupted crawls all
// exit zero.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}
