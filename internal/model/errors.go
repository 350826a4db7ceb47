package model

import "errors"

// Reasons an account operation was ignored. The plain Deposit, Withdraw and
// Transfer methods swallow these; the Try variants return them.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNoDestination     = errors.New("no destination account")
)
