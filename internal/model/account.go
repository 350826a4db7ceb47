package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account is a single bank account: a holder, a balance and an account number.
//
// Holder name and number are fixed at creation. The balance only changes through
// Deposit, Withdraw and Transfer (or their Try variants), none of which will move
// it below zero. Account does no locking; share it across goroutines only behind
// an external lock such as accounts.Book.
type Account struct {
	holder  string
	balance decimal.Decimal
	number  int
}

// NewAccount creates an account. Inputs are not validated: a negative initial
// balance is stored as given.
func NewAccount(holder string, initial decimal.Decimal, number int) *Account {
	return &Account{holder: holder, balance: initial, number: number}
}

// HolderName returns the account owner's name.
func (a *Account) HolderName() string { return a.holder }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Number returns the account number.
func (a *Account) Number() int { return a.number }

// Deposit adds amount to the balance. Non-positive amounts are ignored.
func (a *Account) Deposit(amount decimal.Decimal) {
	_ = a.TryDeposit(amount)
}

// Withdraw removes amount from the balance. It does nothing when amount is not
// positive or exceeds the balance.
func (a *Account) Withdraw(amount decimal.Decimal) {
	_ = a.TryWithdraw(amount)
}

// Transfer withdraws amount from a and deposits it into dst. It does nothing
// when the amount is not positive, the balance is short, or dst is nil.
func (a *Account) Transfer(dst *Account, amount decimal.Decimal) {
	_ = a.TryTransfer(dst, amount)
}

// TryDeposit is Deposit that reports why a call was ignored.
func (a *Account) TryDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	a.balance = a.balance.Add(amount)
	return nil
}

// TryWithdraw is Withdraw that reports why a call was ignored.
func (a *Account) TryWithdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	return nil
}

// TryTransfer is Transfer that reports why a call was ignored.
//
// The funds check runs here and again inside TryWithdraw. Both must pass before
// anything moves, so a rejected transfer leaves both accounts untouched.
func (a *Account) TryTransfer(dst *Account, amount decimal.Decimal) error {
	if dst == nil {
		return ErrNoDestination
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if a.balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	if err := a.TryWithdraw(amount); err != nil {
		return err
	}
	// Cannot fail: amount is positive.
	_ = dst.TryDeposit(amount)
	return nil
}

// Summary describes the holder and balance. It never mutates the account.
func (a *Account) Summary() string {
	return fmt.Sprintf("Holder: %s, Balance: %s", a.holder, a.balance.StringFixed(2))
}

func (a *Account) String() string {
	return a.Summary()
}
