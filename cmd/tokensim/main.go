package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nspcc-dev/nep17-ledger/report"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command with the given arguments and returns the process
// exit code. The logger is flushed before run returns.
func run(args []string) int {
	fs := flag.NewFlagSet("tokensim", flag.ContinueOnError)

	scenarioPath := fs.String("scenario", "", "Path to the YAML scenario file")
	reportDir := fs.String("report", "", "Directory to write the final token state into (optional)")
	label := fs.String("label", "", "Label of the report (defaults to the scenario file name)")
	debug := fs.Bool("debug", false, "Log every committed token operation")

	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	log, err := newLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	if *scenarioPath == "" {
		log.Error("missing scenario file")
		return 1
	}

	if *label == "" {
		*label = strings.TrimSuffix(filepath.Base(*scenarioPath), filepath.Ext(*scenarioPath))
	}

	err = _run(log, *scenarioPath, *reportDir, *label)
	if err != nil {
		log.Error("scenario failed", zap.Error(err))
		return 1
	}

	log.Info("scenario passed", zap.String("scenario", *scenarioPath))

	return 0
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Sampling = nil
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

func _run(log *zap.Logger, scenarioPath, reportDir, label string) error {
	sc, err := readScenario(scenarioPath)
	if err != nil {
		return err
	}

	r, err := newRunner(log, sc)
	if err != nil {
		return err
	}

	err = r.run(sc.Steps)
	if err != nil {
		return err
	}

	r.logBalances()

	if reportDir == "" {
		return nil
	}

	err = os.MkdirAll(reportDir, 0700)
	if err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	id := report.ID{Label: label, Step: uint32(len(sc.Steps))}

	c, err := report.NewCreator(reportDir, id)
	if err != nil {
		return fmt.Errorf("init report: %w", err)
	}

	defer c.Close()

	err = c.Write(r.tok)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("report written", zap.String("dir", reportDir), zap.Stringer("id", id))

	return nil
}
