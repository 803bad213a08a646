package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/petter-holmberg/url/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded request history",
	Long: `List the exchanges recorded with --record. The same --record flag
selects the history database to read.`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Bool("clear", false, "Delete all recorded exchanges")
	historyCmd.Flags().Duration("max-age", 0, "Delete exchanges older than this age before listing")
}

func runHistory(cmd *cobra.Command, args []string) error {
	record, _ := cmd.Flags().GetString("record")
	if record == "" {
		return fmt.Errorf("history requires --record pointing at the history database")
	}
	clearAll, _ := cmd.Flags().GetBool("clear")
	maxAge, _ := cmd.Flags().GetDuration("max-age")
	format, _ := cmd.Flags().GetString("format")

	store, err := history.NewSQLiteStore(record)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if clearAll {
		deleted, err := store.Cleanup(ctx, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "removed %d exchanges\n", deleted)
		return nil
	}
	if maxAge > 0 {
		deleted, err := store.Cleanup(ctx, maxAge)
		if err != nil {
			return err
		}
		if deleted > 0 {
			fmt.Fprintf(os.Stderr, "removed %d exchanges older than %s\n", deleted, maxAge)
		}
	}

	summaries, err := store.List(ctx)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	for _, s := range summaries {
		status := fmt.Sprintf("%d", s.StatusCode)
		if s.StatusCode == 0 {
			status = "-"
		}
		fmt.Printf("%s  %-7s %-4s %s  %s\n",
			s.CreatedAt.Format(time.RFC3339), s.Method, status, s.TargetURL, s.ID)
	}
	return nil
}
