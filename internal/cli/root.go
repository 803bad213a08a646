// Package cli implements the url command-line interface.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Version information (set by build flags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "url",
	Short: "Make HTTP requests from the command line",
	Long: `url - a small HTTP request tool

One subcommand per HTTP verb. Response bodies print to stdout; a request
that remains unsuccessful (transport failure or a 4xx/5xx status) makes
the command exit nonzero. Redirect statuses count as success.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)

	// Request flags
	rootCmd.PersistentFlags().StringArrayP("header", "H", nil, "Extra request header line (repeatable, e.g. -H 'Accept: text/html')")
	rootCmd.PersistentFlags().String("proxy", "", "Proxy URL (http://host:port or socks5://host:port)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().Bool("insecure", false, "Skip TLS certificate verification")
	rootCmd.PersistentFlags().Float64("rate", 0, "Maximum requests per second (0 = unlimited)")
	rootCmd.PersistentFlags().Bool("random-agent", false, "Use a random browser User-Agent")
	rootCmd.PersistentFlags().Bool("no-follow", false, "Do not follow redirects")
	rootCmd.PersistentFlags().Int("threads", 4, "Number of concurrent workers for multiple URLs")

	// Output flags
	rootCmd.PersistentFlags().IntP("verbose", "v", 0, "Verbosity level (0-1)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path (default stdout)")
	rootCmd.PersistentFlags().StringP("format", "f", "text", "Output format (text, json)")
	rootCmd.PersistentFlags().BoolP("include", "i", false, "Include response header lines in text output")

	// History flags
	rootCmd.PersistentFlags().String("record", "", "SQLite file recording request history")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("url %s (commit: %s, built: %s)\n", version, commit, date)
	},
}
