package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/mailspider/mailspider/internal/config"
	"github.com/mailspider/mailspider/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past crawl runs",
		Long: `History lists past crawl runs recorded in the local database, newest
first, with the page and address counts of each run.

Examples:
  # List the 20 most recent runs
  mailspider history

  # List the 50 most recent runs
  mailspider history --limit 50

  # Show the addresses recorded for run 12
  mailspider history --emails 12`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of runs to list")
	cmd.Flags().Int64("emails", 0,
		"Show the addresses recorded for the given run ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	runID, err := cmd.Flags().GetInt64("emails")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{})
	if err != nil {
		return fmt.Errorf("failed to open history database (no runs recorded yet?): %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID > 0 {
		return showRunEmails(ctx, db, runID)
	}
	return listRuns(ctx, db, limit)
}

// listRuns prints the run history as an aligned table.
func listRuns(ctx context.Context, db *database.HistoryDB, limit int) error {
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSEED\tSTATUS\tPAGES\tFAILED\tEMAILS\tELAPSED")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Format(time.DateTime),
			run.Seed,
			run.Status,
			run.PagesFetched,
			run.FailedFetches,
			run.EmailsFound,
			run.Elapsed.Round(time.Millisecond),
		)
	}
	return w.Flush()
}

// showRunEmails prints the addresses recorded for one run.
func showRunEmails(ctx context.Context, db *database.HistoryDB, runID int64) error {
	records, err := db.GetRunEmails(ctx, runID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Printf("No addresses recorded for run %d.\n", runID)
		return nil
	}

	green := color.New(color.FgGreen)
	for _, rec := range records {
		if rec.DomainMatch {
			green.Println(rec.Address)
			continue
		}
		fmt.Println(rec.Address)
	}
	return nil
}
