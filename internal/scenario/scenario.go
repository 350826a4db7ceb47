// Package scenario reads scripted account runs from YAML and executes them
// against an accounts.Book.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/passbook/internal/accounts"
)

// Op names a step operation.
type Op string

const (
	OpDeposit  Op = "deposit"
	OpWithdraw Op = "withdraw"
	OpTransfer Op = "transfer"
	OpSummary  Op = "summary"
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name        string        `yaml:"name"`
	Accounts    []AccountSpec `yaml:"accounts,omitempty"`
	AccountsCSV string        `yaml:"accounts_csv,omitempty"`
	Steps       []Step        `yaml:"steps"`

	// dir is the directory AccountsCSV is resolved against.
	dir string
}

// AccountSpec declares an opening account.
type AccountSpec struct {
	Holder  string `yaml:"holder"`
	Balance string `yaml:"balance"`
	Number  int    `yaml:"number"`
}

// Step is one operation in a scenario. Account is the acting account; To is
// the destination of a transfer. Both are nil when the key is absent, since
// 0 is a valid account number.
type Step struct {
	Op      Op     `yaml:"op"`
	Account *int   `yaml:"account"`
	To      *int   `yaml:"to,omitempty"`
	Amount  string `yaml:"amount,omitempty"`
}

// Num returns a pointer to n, for building Steps in code.
func Num(n int) *int {
	return &n
}

// Parse decodes a scenario from r. It does not validate it.
func Parse(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing scenario: empty document")
		}
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &s, nil
}

// Load reads and parses a scenario file. A relative accounts_csv is resolved
// against the file's directory.
func Load(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.dir = filepath.Dir(path)
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Save writes a scenario to path as YAML.
func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}

// Book builds the opening book: accounts_csv rows first, then inline accounts.
func (s *Scenario) Book() (*accounts.Book, error) {
	book := accounts.NewBook()
	if s.AccountsCSV != "" {
		loaded, err := accounts.LoadBook(s.csvPath())
		if err != nil {
			return nil, err
		}
		for _, a := range loaded.All() {
			if err := book.Add(a); err != nil {
				return nil, err
			}
		}
	}
	for i, spec := range s.Accounts {
		bal, err := parseAmount(spec.Balance)
		if err != nil {
			return nil, fmt.Errorf("account %d: balance: %w", i+1, err)
		}
		if _, err := book.Open(spec.Holder, bal, spec.Number); err != nil {
			return nil, err
		}
	}
	return book, nil
}

func (s *Scenario) csvPath() string {
	if filepath.IsAbs(s.AccountsCSV) || s.dir == "" {
		return s.AccountsCSV
	}
	return filepath.Join(s.dir, s.AccountsCSV)
}

// Example returns the scenario written by `passbook init`.
func Example() *Scenario {
	return &Scenario{
		Name:        "lucia-pedro",
		AccountsCSV: "opening.csv",
		Steps: []Step{
			{Op: OpDeposit, Account: Num(1001), Amount: "500"},
			{Op: OpWithdraw, Account: Num(1001), Amount: "200"},
			{Op: OpTransfer, Account: Num(1001), To: Num(1002), Amount: "300"},
			{Op: OpSummary, Account: Num(1001)},
			{Op: OpSummary, Account: Num(1002)},
		},
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, errors.New("missing amount")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
