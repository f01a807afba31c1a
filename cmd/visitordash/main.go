package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "summary":
		err = runSummary(ctx, os.Args[2:], os.Stdout)
	case "import":
		err = runImport(ctx, os.Args[2:], os.Stdout)
	case "version":
		fmt.Printf("visitordash %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		stop()
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

func printUsage() {
	fmt.Println(`visitordash - A visitor-analytics dashboard for hotel bookings

Usage:
  visitordash <command> [arguments]

Commands:
  serve                                  Start the dashboard server
  summary [--start D] [--end D] <src>... Print the aggregation for a range
  import <src>... <dst.db>               Copy JSON or CSV bookings into SQLite
  version                                Print the visitordash version
  help                                   Show this help message

Configuration is read from VISITORDASH_* environment variables, .env and
visitordash.yaml.

Examples:
  visitordash serve
  visitordash summary --start 2015-07-01 --end 2015-07-09 data/bookings.json
  visitordash import data/hotel_bookings.csv data/bookings.db`)
}
