package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/passbook/internal/model"
)

// Header is the CSV header for account files.
const Header = "account_number,holder_name,balance"

const (
	numFields  = 3
	colNumber  = 0
	colHolder  = 1
	colBalance = 2
)

// ReadAccounts reads an accounts CSV (header row first).
func ReadAccounts(r io.Reader) ([]*model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if got := joinTrimmed(records[0]); got != Header {
		return nil, fmt.Errorf("row 1: unexpected header %q, want %q", got, Header)
	}

	var accts []*model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

func joinTrimmed(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return strings.Join(out, ",")
}

// WriteAccounts writes an accounts CSV.
func WriteAccounts(w io.Writer, accts []*model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct *model.Account) []string {
	row := make([]string, numFields)
	row[colNumber] = strconv.Itoa(acct.Number())
	row[colHolder] = acct.HolderName()
	row[colBalance] = acct.Balance().String()
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (*model.Account, error) {
	if len(record) != numFields {
		return nil, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	number, err := strconv.Atoi(strings.TrimSpace(record[colNumber]))
	if err != nil {
		return nil, fmt.Errorf("parsing account_number %q: %w", record[colNumber], err)
	}

	balance, err := decimal.NewFromString(strings.TrimSpace(record[colBalance]))
	if err != nil {
		return nil, fmt.Errorf("parsing balance %q: %w", record[colBalance], err)
	}

	return model.NewAccount(record[colHolder], balance, number), nil
}
