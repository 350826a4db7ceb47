package scenario

import (
	"fmt"
	"strings"
)

// ValidationError describes one problem in a scenario.
type ValidationError struct {
	Where       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Where, e.Description)
}

// ValidationErrors is every problem found in a scenario.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid scenario: " + strings.Join(msgs, "; ")
}

// Validate checks the scenario's shape. Amounts must parse, but non-positive
// amounts and overdrafts are left for the run to reject.
//
// Inline accounts are checked here; accounts_csv is only read by Book, so
// steps naming CSV-only accounts are checked against known, which may be nil.
func (s *Scenario) Validate(known func(number int) bool) error {
	var errs ValidationErrors

	numbers := make(map[int]bool)
	for i, a := range s.Accounts {
		where := fmt.Sprintf("account %d", i+1)
		if numbers[a.Number] {
			errs = append(errs, ValidationError{where, fmt.Sprintf("duplicate account number %d", a.Number)})
		}
		numbers[a.Number] = true
		if strings.TrimSpace(a.Holder) == "" {
			errs = append(errs, ValidationError{where, "missing holder"})
		}
		if _, err := parseAmount(a.Balance); err != nil {
			errs = append(errs, ValidationError{where, "balance: " + err.Error()})
		}
	}

	exists := func(n int) bool {
		return numbers[n] || (known != nil && known(n))
	}

	if len(s.Steps) == 0 {
		errs = append(errs, ValidationError{"steps", "no steps"})
	}
	for i, st := range s.Steps {
		where := fmt.Sprintf("step %d (%s)", i+1, st.Op)
		if st.Account == nil {
			errs = append(errs, ValidationError{where, "missing account"})
		} else if !exists(*st.Account) {
			errs = append(errs, ValidationError{where, fmt.Sprintf("unknown account %d", *st.Account)})
		}
		switch st.Op {
		case OpDeposit, OpWithdraw:
			if st.To != nil {
				errs = append(errs, ValidationError{where, "to is only valid for transfer"})
			}
		case OpTransfer:
			if st.To == nil {
				errs = append(errs, ValidationError{where, "missing to"})
			} else if !exists(*st.To) {
				errs = append(errs, ValidationError{where, fmt.Sprintf("unknown account %d", *st.To)})
			}
		case OpSummary:
			if st.To != nil {
				errs = append(errs, ValidationError{where, "to is only valid for transfer"})
			}
			if st.Amount != "" {
				errs = append(errs, ValidationError{where, "summary takes no amount"})
			}
			continue
		default:
			errs = append(errs, ValidationError{fmt.Sprintf("step %d", i+1), fmt.Sprintf("unknown op %q", st.Op)})
			continue
		}
		if _, err := parseAmount(st.Amount); err != nil {
			errs = append(errs, ValidationError{where, err.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
