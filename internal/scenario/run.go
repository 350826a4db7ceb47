package scenario

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/cleared-dev/passbook/internal/accounts"
)

// ErrStrictRejection is returned by Run in strict mode when a step is ignored.
var ErrStrictRejection = errors.New("step rejected")

// Options controls a run.
type Options struct {
	// Strict stops the run at the first ignored step.
	Strict bool
	// Logger receives one debug line per step. Nil discards.
	Logger logrus.FieldLogger
}

// StepResult is the outcome of one step.
type StepResult struct {
	Index   int // 1-based
	Op      Op
	Account int
	To      int
	Amount  decimal.Decimal
	Applied bool
	// Reason is why the step was ignored; nil when applied.
	Reason error
	// Balance and ToBalance are the balances after the step.
	Balance   decimal.Decimal
	ToBalance decimal.Decimal
	Summary   string
}

// Result is the outcome of a whole run.
type Result struct {
	RunID    uuid.UUID
	Scenario string
	Steps    []StepResult
}

// Applied returns the number of steps that changed state or produced a summary.
func (r *Result) Applied() int {
	n := 0
	for _, s := range r.Steps {
		if s.Applied {
			n++
		}
	}
	return n
}

// Ignored returns the number of rejected steps.
func (r *Result) Ignored() int {
	return len(r.Steps) - r.Applied()
}

// Run executes the steps in order against book. Rejected steps are recorded
// and skipped; they never change a balance. Unknown accounts are hard errors.
func (s *Scenario) Run(book *accounts.Book, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	res := &Result{RunID: uuid.New(), Scenario: s.Name}
	log = log.WithFields(logrus.Fields{"run_id": res.RunID.String(), "scenario": s.Name})

	for i, st := range s.Steps {
		sr, err := s.runStep(book, i+1, st)
		if err != nil {
			return res, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Steps = append(res.Steps, sr)

		entry := log.WithFields(logrus.Fields{
			"step":    sr.Index,
			"op":      string(sr.Op),
			"account": sr.Account,
			"applied": sr.Applied,
		})
		if sr.Reason != nil {
			entry = entry.WithField("reason", sr.Reason.Error())
		}
		entry.Debug("step done")

		if opts.Strict && !sr.Applied {
			return res, fmt.Errorf("step %d (%s): %w: %w", sr.Index, sr.Op, ErrStrictRejection, sr.Reason)
		}
	}
	return res, nil
}

func (s *Scenario) runStep(book *accounts.Book, index int, st Step) (StepResult, error) {
	sr := StepResult{Index: index, Op: st.Op}
	if st.Account == nil {
		return sr, errors.New("missing account")
	}
	sr.Account = *st.Account
	if st.Op == OpTransfer {
		if st.To == nil {
			return sr, errors.New("missing to")
		}
		sr.To = *st.To
	}

	if st.Op == OpSummary {
		text, err := book.Summary(sr.Account)
		if err != nil {
			return sr, err
		}
		sr.Summary = text
		sr.Applied = true
		sr.Balance, err = book.Balance(sr.Account)
		return sr, err
	}

	amount, err := parseAmount(st.Amount)
	if err != nil {
		return sr, err
	}
	sr.Amount = amount

	var opErr error
	switch st.Op {
	case OpDeposit:
		opErr = book.Deposit(sr.Account, amount)
	case OpWithdraw:
		opErr = book.Withdraw(sr.Account, amount)
	case OpTransfer:
		opErr = book.Transfer(sr.Account, sr.To, amount)
	default:
		return sr, fmt.Errorf("unknown op %q", st.Op)
	}
	if errors.Is(opErr, accounts.ErrUnknownAccount) {
		return sr, opErr
	}
	sr.Applied = opErr == nil
	sr.Reason = opErr

	if sr.Balance, err = book.Balance(sr.Account); err != nil {
		return sr, err
	}
	if st.Op == OpTransfer {
		if sr.ToBalance, err = book.Balance(sr.To); err != nil {
			return sr, err
		}
	}
	return sr, nil
}
