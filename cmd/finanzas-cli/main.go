// Command finanzas-cli runs the scoring, advice, budgeting and simulation
// engines offline against a JSON snapshot file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"finanzas/internal/core"
	"finanzas/internal/ledger/export"
)

const usage = `finanzas-cli - offline personal finance analysis

Usage:
  finanzas-cli <command> [flags]

Commands:
  summary   -file snapshot.json              totals and spending by category
  score     -file snapshot.json              financial health score
  advice    -file snapshot.json              recommendations
  buckets   -file snapshot.json -method ID   spending per budget bucket
  methods                                    list the budget methods
  simulate  -goal N -monthly N [-rate PCT]   months to reach a savings goal

Sample runs:
  finanzas-cli score -file data/snapshot.json
  finanzas-cli buckets -file data/snapshot.json -method kakeibo
  finanzas-cli simulate -goal 10000000 -monthly 500000 -rate 9
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run returns the process exit code: 0 on success, 2 for usage errors and 1
// for everything else.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "help" {
		fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, rest := args[0], args[1:]
	var err error
	switch cmd {
	case "summary", "score", "advice":
		err = runSnapshot(cmd, rest, stdout, stderr)
	case "buckets":
		err = runBuckets(rest, stdout, stderr)
	case "methods":
		printMethods(stdout)
	case "simulate":
		err = runSimulate(rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n\n%s", cmd, usage)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 2
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	default:
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func loadSnapshot(path string) (core.Snapshot, error) {
	if path == "" {
		return core.Snapshot{}, fmt.Errorf("%w: -file is required", errUsage)
	}
	f, err := os.Open(path)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return export.ReadSnapshot(f)
}

func runSnapshot(cmd string, args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet(cmd, stderr)
	file := fs.String("file", "", "JSON snapshot file (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}

	switch cmd {
	case "summary":
		printSummary(stdout, snap)
	case "score":
		printScore(stdout, snap)
	case "advice":
		printAdvice(stdout, snap)
	}
	return nil
}

func runBuckets(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("buckets", stderr)
	file := fs.String("file", "", "JSON snapshot file (required)")
	method := fs.String("method", "50-30-20", "budget method id, see 'methods'")
	if err := fs.Parse(args); err != nil {
		return err
	}
	snap, err := loadSnapshot(*file)
	if err != nil {
		return err
	}
	return printBuckets(stdout, snap, *method)
}

func runSimulate(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("simulate", stderr)
	goal := fs.String("goal", "", "savings target (required)")
	monthly := fs.String("monthly", "", "amount saved each month (required)")
	rate := fs.String("rate", "", "annual interest rate in percent (default 8)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return printSimulation(stdout, *goal, *monthly, *rate)
}
