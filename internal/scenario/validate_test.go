package scenario

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validScenario() *Scenario {
	return &Scenario{
		Accounts: []AccountSpec{
			{Holder: "Lucía", Balance: "1500", Number: 1001},
			{Holder: "Pedro", Balance: "1000", Number: 1002},
		},
		Steps: []Step{
			{Op: OpDeposit, Account: Num(1001), Amount: "500"},
			{Op: OpTransfer, Account: Num(1001), To: Num(1002), Amount: "300"},
			{Op: OpSummary, Account: Num(1002)},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validScenario().Validate(nil))
}

func TestValidate_DomainRejectionsAreNotShapeErrors(t *testing.T) {
	s := validScenario()
	s.Steps = append(s.Steps,
		Step{Op: OpDeposit, Account: Num(1001), Amount: "0"},
		Step{Op: OpWithdraw, Account: Num(1002), Amount: "-10"},
		Step{Op: OpTransfer, Account: Num(1002), To: Num(1001), Amount: "1000000"},
	)
	assert.NoError(t, s.Validate(nil))
}

func TestValidate_KnownAccounts(t *testing.T) {
	s := &Scenario{Steps: []Step{{Op: OpSummary, Account: Num(7)}}}
	require.Error(t, s.Validate(nil))
	assert.NoError(t, s.Validate(func(n int) bool { return n == 7 }))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	s := &Scenario{
		Accounts: []AccountSpec{
			{Holder: "A", Balance: "10", Number: 1},
			{Holder: "", Balance: "ten", Number: 1},
		},
		Steps: []Step{
			{Op: "refund", Account: Num(1), Amount: "1"},
			{Op: OpDeposit, Account: Num(9), Amount: "1"},
			{Op: OpWithdraw, Account: Num(1)},
			{Op: OpTransfer, Account: Num(1), Amount: "1"},
			{Op: OpTransfer, Account: Num(1), To: Num(3), Amount: "1"},
			{Op: OpSummary, Account: Num(1), Amount: "1"},
			{Op: OpDeposit, Account: Num(1), To: Num(1), Amount: "abc"},
			{Op: OpSummary, Account: Num(1), To: Num(1)},
			{Op: OpDeposit, Amount: "1"},
		},
	}

	err := s.Validate(nil)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	msg := err.Error()
	for _, want := range []string{
		"account 2: duplicate account number 1",
		"account 2: missing holder",
		`account 2: balance: invalid amount "ten"`,
		`step 1: unknown op "refund"`,
		"step 2 (deposit): unknown account 9",
		"step 3 (withdraw): missing amount",
		"step 4 (transfer): missing to",
		"step 5 (transfer): unknown account 3",
		"step 6 (summary): summary takes no amount",
		"step 7 (deposit): to is only valid for transfer",
		`step 7 (deposit): invalid amount "abc"`,
		"step 8 (summary): to is only valid for transfer",
		"step 9 (deposit): missing account",
	} {
		assert.Contains(t, msg, want)
	}
	assert.Len(t, verrs, 13)
}

func TestValidate_NoSteps(t *testing.T) {
	s := validScenario()
	s.Steps = nil
	err := s.Validate(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps: no steps")
}

func TestValidate_AccountKeys(t *testing.T) {
	const opening = `
accounts:
  - {holder: Zero, balance: "10", number: 0}
  - {holder: One, balance: "10", number: 1}
steps:
`
	tests := []struct {
		name    string
		step    string
		wantErr string
	}{
		{name: "transfer to account 0", step: `{op: transfer, account: 1, to: 0, amount: "5"}`},
		{name: "deposit to account 0", step: `{op: deposit, account: 0, amount: "5"}`},
		{name: "summary of account 0", step: `{op: summary, account: 0}`},
		{name: "no account key", step: `{op: deposit, amount: "5"}`, wantErr: "step 1 (deposit): missing account"},
		{name: "no to key", step: `{op: transfer, account: 1, amount: "5"}`, wantErr: "step 1 (transfer): missing to"},
		{name: "to 0 on deposit", step: `{op: deposit, account: 1, to: 0, amount: "5"}`, wantErr: "to is only valid for transfer"},
		{name: "to on summary", step: `{op: summary, account: 1, to: 0}`, wantErr: "step 1 (summary): to is only valid for transfer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse(strings.NewReader(opening + "  - " + tt.step + "\n"))
			require.NoError(t, err)

			err = s.Validate(nil)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
