// Package report renders run results for people. Account operations never
// print; everything a user sees goes through here.
package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/passbook/internal/scenario"
)

// Format controls how amounts are rendered.
type Format struct {
	Decimals int32
	Currency string // optional prefix, e.g. "$"
}

// DefaultFormat renders two decimals with no currency symbol.
var DefaultFormat = Format{Decimals: 2}

// Amount renders d using f.
func (f Format) Amount(d decimal.Decimal) string {
	r := d.Round(f.Decimals)
	if f.Currency == "" {
		return r.StringFixed(f.Decimals)
	}
	s := f.Currency + r.Abs().StringFixed(f.Decimals)
	if r.IsNegative() {
		return "-" + s
	}
	return s
}

var verbs = map[scenario.Op]string{
	scenario.OpDeposit:  "Deposit",
	scenario.OpWithdraw: "Withdrawal",
	scenario.OpTransfer: "Transfer",
}

// Message describes one step the way a teller would.
func Message(sr scenario.StepResult, f Format) string {
	if sr.Op == scenario.OpSummary {
		return sr.Summary
	}

	verb, ok := verbs[sr.Op]
	if !ok {
		verb = string(sr.Op)
	}
	what := fmt.Sprintf("%s of %s", verb, f.Amount(sr.Amount))
	if sr.Op == scenario.OpTransfer {
		what = fmt.Sprintf("%s from %d to %d", what, sr.Account, sr.To)
	}

	if !sr.Applied {
		reason := "rejected"
		if sr.Reason != nil {
			reason = sr.Reason.Error()
		}
		return fmt.Sprintf("%s ignored: %s", what, reason)
	}
	if sr.Op == scenario.OpTransfer {
		return what + " completed"
	}
	return what + " succeeded"
}

// Write prints one line per step, then the closing summaries.
func Write(w io.Writer, res *scenario.Result, summaries []string, f Format) error {
	if res == nil {
		return errors.New("no result")
	}

	if _, err := fmt.Fprintf(w, "Run %s (%s)\n", res.RunID, res.Scenario); err != nil {
		return err
	}
	for _, sr := range res.Steps {
		if _, err := fmt.Fprintf(w, "  %3d. %s\n", sr.Index, Message(sr, f)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%d applied, %d ignored\n", res.Applied(), res.Ignored()); err != nil {
		return err
	}
	if len(summaries) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Closing balances:"); err != nil {
		return err
	}
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "  %s\n", s); err != nil {
			return err
		}
	}
	return nil
}
