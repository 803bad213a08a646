package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petter-holmberg/url"
	"github.com/petter-holmberg/url/internal/fetch"
	"github.com/petter-holmberg/url/internal/history"
	"github.com/petter-holmberg/url/internal/report"
)

func init() {
	rootCmd.AddCommand(
		newVerbCommand(http.MethodGet, false),
		newVerbCommand(http.MethodHead, false),
		newVerbCommand(http.MethodPost, true),
		newVerbCommand(http.MethodPut, true),
		newVerbCommand(http.MethodPatch, true),
		newVerbCommand(http.MethodDelete, true),
	)
}

// newVerbCommand builds the subcommand for one HTTP method. Body-carrying
// methods get a --data flag; POST additionally gets --form.
func newVerbCommand(method string, withBody bool) *cobra.Command {
	name := strings.ToLower(method)
	cmd := &cobra.Command{
		Use:   name + " URL...",
		Short: fmt.Sprintf("Perform %s requests", method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, method, args)
		},
	}
	if withBody {
		cmd.Flags().StringP("data", "d", "", "Request body payload")
	}
	if method == http.MethodPost {
		cmd.Flags().StringArrayP("form", "F", nil, "Form field name=value (repeatable; sent as multipart/form-data)")
	}
	return cmd
}

// runFetch is the shared handler behind every verb subcommand. It wires
// the pipeline: client options → worker pool → reporter → history.
func runFetch(cmd *cobra.Command, method string, targets []string) error {
	flags := cmd.Flags()

	headerLines, _ := flags.GetStringArray("header")
	proxyURL, _ := flags.GetString("proxy")
	timeout, _ := flags.GetDuration("timeout")
	insecure, _ := flags.GetBool("insecure")
	maxRPS, _ := flags.GetFloat64("rate")
	randomAgent, _ := flags.GetBool("random-agent")
	noFollow, _ := flags.GetBool("no-follow")
	threads, _ := flags.GetInt("threads")
	verbose, _ := flags.GetInt("verbose")
	output, _ := flags.GetString("output")
	format, _ := flags.GetString("format")
	include, _ := flags.GetBool("include")
	record, _ := flags.GetString("record")

	var data string
	if flags.Lookup("data") != nil {
		data, _ = flags.GetString("data")
	}
	var form url.Form
	if flags.Lookup("form") != nil {
		fields, _ := flags.GetStringArray("form")
		for _, f := range fields {
			name, value, ok := strings.Cut(f, "=")
			if !ok {
				return fmt.Errorf("invalid form field %q (want name=value)", f)
			}
			form = append(form, url.Field{Name: name, Value: value})
		}
	}
	if form != nil && data != "" {
		return fmt.Errorf("--data and --form are mutually exclusive")
	}

	logLevel := slog.LevelWarn
	if verbose > 0 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	// An unusable proxy URL is an initialization failure: fatal.
	client, err := url.NewClient(url.ClientOptions{
		Timeout:            timeout,
		ProxyURL:           proxyURL,
		DisableRedirects:   noFollow,
		InsecureSkipVerify: insecure,
		RandomUserAgent:    randomAgent,
		MaxRPS:             maxRPS,
		Logger:             logger,
	})
	if err != nil {
		return err
	}
	defer client.Close()

	jobs := make([]fetch.Job, len(targets))
	for i, target := range targets {
		jobs[i] = fetch.Job{
			Method:  method,
			Target:  target,
			Headers: url.Header(headerLines),
			Body:    []byte(data),
			Form:    form,
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	pool := fetch.NewPool(client, threads, logger)
	results := pool.Run(ctx, jobs)

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	reporter, err := report.New(format)
	if err != nil {
		return err
	}
	if tr, ok := reporter.(*report.TextReporter); ok {
		tr.IncludeHeaders = include
	}

	var store history.Store
	if record != "" {
		s, err := history.NewSQLiteStore(record)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	// Reporting and recording proceed even after an interrupt; whatever
	// was fetched is still emitted.
	done := context.Background()

	failed := 0
	for i := range results {
		res := &results[i]
		if !res.Response.Ok() {
			failed++
		}
		if err := reporter.Generate(done, res, out); err != nil {
			return err
		}
		if store != nil {
			if err := store.Save(done, exchangeFromResult(res)); err != nil {
				return fmt.Errorf("recording history: %w", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d requests unsuccessful", failed, len(results))
	}
	return nil
}

// exchangeFromResult converts a fetched result into a history record.
func exchangeFromResult(res *fetch.Result) *history.Exchange {
	return &history.Exchange{
		Method:     res.Job.Method,
		TargetURL:  res.Job.Target,
		FinalURL:   res.Response.URL,
		StatusCode: res.Response.StatusCode,
		Ok:         res.Response.Ok(),
		Encoding:   res.Response.Encoding,
		Headers:    res.Response.Headers,
		BodySize:   int64(len(res.Response.Body)),
		Duration:   res.Duration,
	}
}
