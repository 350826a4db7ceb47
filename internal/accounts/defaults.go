package accounts

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/passbook/internal/model"
)

// SampleAccounts returns the two accounts used by the example scenario.
func SampleAccounts() []*model.Account {
	return []*model.Account{
		model.NewAccount("Lucía", decimal.RequireFromString("1500.00"), 1001),
		model.NewAccount("Pedro", decimal.RequireFromString("1000.00"), 1002),
	}
}
