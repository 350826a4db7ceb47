package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/passbook/internal/accounts"
	"github.com/cleared-dev/passbook/internal/config"
	"github.com/cleared-dev/passbook/internal/gitops"
	"github.com/cleared-dev/passbook/internal/scenario"
)

func newInitCommand(a *app) *cobra.Command {
	var withGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a passbook project with an example scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(a, absDir, withGit); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized passbook project at %s\n", absDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&withGit, "git", false, "initialize a git repository and commit")

	return cmd
}

func runInit(a *app, dir string, withGit bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New("already initialized: " + cfgPath)
	}

	for _, d := range []string{"scenarios", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	book, err := accounts.NewBookFrom(accounts.SampleAccounts())
	if err != nil {
		return err
	}
	if err := book.SaveCSV(filepath.Join(dir, "scenarios", "opening.csv")); err != nil {
		return fmt.Errorf("writing opening accounts: %w", err)
	}

	if err := scenario.Save(filepath.Join(dir, "scenarios", "example.yaml"), scenario.Example()); err != nil {
		return fmt.Errorf("writing example scenario: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("out/\n"), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !withGit {
		return nil
	}

	if err := gitops.Init(dir); err != nil {
		return err
	}
	hash, err := gitops.CommitAll(dir, "init: passbook", cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}
	a.log.WithField("commit", hash).Info("created git repository")
	return nil
}
