package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/passbook/internal/accounts"
	"github.com/cleared-dev/passbook/internal/scenario"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Validate a scenario without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, book, err := loadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d accounts, %d steps\n", book.Len(), len(s.Steps))
			return nil
		},
	}
}

// loadScenario reads, builds and validates a scenario.
func loadScenario(path string) (*scenario.Scenario, *accounts.Book, error) {
	s, err := scenario.Load(path)
	if err != nil {
		return nil, nil, err
	}
	book, err := s.Book()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.Validate(book.Exists); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, book, nil
}
