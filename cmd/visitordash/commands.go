package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/eringen/visitordash"
	"github.com/eringen/visitordash/aggregate"
	"github.com/eringen/visitordash/dataset"
)

func runServe(ctx context.Context) error {
	cfg, err := visitordash.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := visitordash.NewLogger(cfg.Env, os.Stderr)
	log.Logger = logger

	app := visitordash.New(cfg, visitordash.WithLogger(logger))
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("close")
		}
	}()
	return app.Start(ctx)
}

func runSummary(ctx context.Context, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("summary", pflag.ContinueOnError)
	fs.SetOutput(out)
	start := fs.String("start", "2015-07-01", "first day of the range, YYYY-MM-DD")
	end := fs.String("end", "2015-07-09", "last day of the range, YYYY-MM-DD")
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("usage: visitordash summary [--start D] [--end D] [--json] <src>...")
	}

	iv, err := aggregate.ParseInterval(*start, *end)
	if err != nil {
		return fmt.Errorf("parse range: %w", err)
	}
	records, err := dataset.Load(ctx, fs.Args()...)
	if err != nil {
		return err
	}
	s := aggregate.Compute(records, iv)

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return printSummary(out, s)
}

func printSummary(out io.Writer, s aggregate.Summary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Range\t%s\n", s.Interval)
	fmt.Fprintf(tw, "Bookings\t%d\n", s.RecordCount)
	fmt.Fprintf(tw, "Visitors\t%d\n", s.TotalVisitors)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Day\tVisitors")
	for _, d := range s.Daily {
		fmt.Fprintf(tw, "%s\t%d\n", d.Label, d.Count)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "Country\tVisitors")
	for country, n := range s.Countries.All() {
		fmt.Fprintf(tw, "%s\t%d\n", country, n)
	}
	return tw.Flush()
}

func runImport(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 2 {
		return errors.New("usage: visitordash import <src>... <dst.db>")
	}
	srcs, dst := args[:len(args)-1], args[len(args)-1]

	records, err := dataset.Load(ctx, srcs...)
	if err != nil {
		return err
	}
	store, err := dataset.NewStore(dst)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InsertBookings(ctx, records); err != nil {
		return err
	}
	total, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported %d bookings into %s (%d total)\n", len(records), dst, total)
	return nil
}
