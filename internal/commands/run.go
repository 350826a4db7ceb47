package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/passbook/internal/gitops"
	"github.com/cleared-dev/passbook/internal/report"
	"github.com/cleared-dev/passbook/internal/runlog"
	"github.com/cleared-dev/passbook/internal/scenario"
)

func newRunCommand(a *app) *cobra.Command {
	var (
		strict   bool
		writeLog bool
		outPath  string
		repoDir  string
	)

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print what happened",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				strict = a.cfg.Run.Strict
			}
			if !cmd.Flags().Changed("log") {
				writeLog = a.cfg.Run.WriteLog
			}
			absRepo, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			return runScenario(cmd, a, args[0], runOptions{
				strict:   strict,
				writeLog: writeLog,
				outPath:  outPath,
				repoRoot: absRepo,
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first ignored step (default from config)")
	cmd.Flags().BoolVar(&writeLog, "log", false, "append to logs/run-log.csv (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "write closing balances to this CSV file")
	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory for the run log")

	return cmd
}

type runOptions struct {
	strict   bool
	writeLog bool
	outPath  string
	repoRoot string
}

func runScenario(cmd *cobra.Command, a *app, path string, opts runOptions) error {
	s, book, err := loadScenario(path)
	if err != nil {
		return err
	}

	res, runErr := s.Run(book, scenario.Options{Strict: opts.strict, Logger: a.log})
	if res != nil {
		if err := report.Write(cmd.OutOrStdout(), res, book.Summaries(), a.format()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	if runErr == nil && opts.outPath != "" {
		if err := book.SaveCSV(opts.outPath); err != nil {
			return err
		}
	}

	// A run that stops early is still logged, up to the step that stopped it.
	if opts.writeLog && res != nil && len(res.Steps) > 0 {
		if err := logRun(a, opts.repoRoot, res); err != nil {
			if runErr != nil {
				a.log.WithError(err).Warn("failed to write run log")
				return runErr
			}
			return err
		}
	}
	return runErr
}

func logRun(a *app, repoRoot string, res *scenario.Result) error {
	if err := runlog.Append(repoRoot, runlog.FromResult(res, time.Now())); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}

	if a.cfg.Git.AutoCommit && gitops.IsRepo(repoRoot) {
		msg := fmt.Sprintf("run: %s (%s)", res.Scenario, res.RunID.String()[:8])
		hash, err := gitops.CommitPaths(repoRoot, msg, a.cfg.Git.AuthorName, a.cfg.Git.AuthorEmail, runlog.Path)
		if err != nil {
			a.log.WithError(err).Warn("failed to commit run log")
			return nil
		}
		a.log.WithField("commit", hash).Info("committed run log")
	}
	return nil
}
