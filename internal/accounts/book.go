package accounts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/passbook/internal/model"
)

var (
	// ErrDuplicateNumber is returned when an account number is already in the book.
	ErrDuplicateNumber = errors.New("duplicate account number")
	// ErrUnknownAccount is returned when an operation names a number not in the book.
	ErrUnknownAccount = errors.New("unknown account")
)

// Book is a set of accounts keyed by number.
//
// A single mutex serializes every read and mutation, so a transfer is atomic
// with respect to any other Book call. Accounts returned by Get and All are the
// live values; mutate them only through the Book when it is shared.
type Book struct {
	mu       sync.Mutex
	byNumber map[int]*model.Account
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{byNumber: make(map[int]*model.Account)}
}

// NewBookFrom creates a Book holding accts. Duplicate numbers are an error.
func NewBookFrom(accts []*model.Account) (*Book, error) {
	b := NewBook()
	for _, a := range accts {
		if err := b.Add(a); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// LoadBook reads an accounts CSV into a new Book.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading accounts %s: %w", path, err)
	}
	return NewBookFrom(accts)
}

// Open creates an account and adds it to the book.
func (b *Book) Open(holder string, initial decimal.Decimal, number int) (*model.Account, error) {
	a := model.NewAccount(holder, initial, number)
	if err := b.Add(a); err != nil {
		return nil, err
	}
	return a, nil
}

// Add puts an existing account into the book.
func (b *Book) Add(a *model.Account) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byNumber[a.Number()]; ok {
		return fmt.Errorf("account %d: %w", a.Number(), ErrDuplicateNumber)
	}
	b.byNumber[a.Number()] = a
	return nil
}

// Get returns the account with the given number.
func (b *Book) Get(number int) (*model.Account, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.byNumber[number]
	return a, ok
}

// Exists reports whether number is in the book.
func (b *Book) Exists(number int) bool {
	_, ok := b.Get(number)
	return ok
}

// Len returns the number of accounts.
func (b *Book) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.byNumber)
}

// All returns every account ordered by number.
func (b *Book) All() []*model.Account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sortedLocked()
}

func (b *Book) sortedLocked() []*model.Account {
	out := make([]*model.Account, 0, len(b.byNumber))
	for _, a := range b.byNumber {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number() < out[j].Number() })
	return out
}

// Balance returns the balance of one account.
func (b *Book) Balance(number int) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.lookupLocked(number)
	if err != nil {
		return decimal.Zero, err
	}
	return a.Balance(), nil
}

// Deposit credits an account. A rejected deposit returns the reason and changes nothing.
func (b *Book) Deposit(number int, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.lookupLocked(number)
	if err != nil {
		return err
	}
	return a.TryDeposit(amount)
}

// Withdraw debits an account. A rejected withdrawal returns the reason and changes nothing.
func (b *Book) Withdraw(number int, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.lookupLocked(number)
	if err != nil {
		return err
	}
	return a.TryWithdraw(amount)
}

// Transfer moves amount between two accounts under one lock.
func (b *Book) Transfer(from, to int, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	src, err := b.lookupLocked(from)
	if err != nil {
		return err
	}
	dst, err := b.lookupLocked(to)
	if err != nil {
		return err
	}
	return src.TryTransfer(dst, amount)
}

// Summary returns one account's summary line.
func (b *Book) Summary(number int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.lookupLocked(number)
	if err != nil {
		return "", err
	}
	return a.Summary(), nil
}

// Summaries returns a summary line per account, ordered by number.
func (b *Book) Summaries() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	accts := b.sortedLocked()
	out := make([]string, len(accts))
	for i, a := range accts {
		out[i] = a.Summary()
	}
	return out
}

// Total returns the sum of all balances.
func (b *Book) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, a := range b.byNumber {
		total = total.Add(a.Balance())
	}
	return total
}

// SaveCSV writes the book to path as an accounts CSV, creating parent directories.
func (b *Book) SaveCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, b.All()); err != nil {
		return fmt.Errorf("writing accounts: %w", err)
	}
	return nil
}

func (b *Book) lookupLocked(number int) (*model.Account, error) {
	a, ok := b.byNumber[number]
	if !ok {
		return nil, fmt.Errorf("account %d: %w", number, ErrUnknownAccount)
	}
	return a, nil
}
