package runlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/passbook/internal/scenario"
)

// Entry is one row in the run log: one executed step.
type Entry struct {
	Timestamp    time.Time
	RunID        string
	Scenario     string
	Step         int
	Op           string
	Account      int
	Counterparty int // written for transfers only
	Amount       string
	Outcome      string
	Detail       string
}

// Outcomes.
const (
	OutcomeApplied = "applied"
	OutcomeIgnored = "ignored"
)

// Header is the CSV header for run-log.csv.
const Header = "timestamp,run_id,scenario,step,op,account,counterparty,amount,outcome,detail"

// Path is the run log location relative to a repo root.
const Path = "logs/run-log.csv"

const (
	numFields   = 10
	logDir      = "logs"
	colTime     = 0
	colRunID    = 1
	colScenario = 2
	colStep     = 3
	colOp       = 4
	colAccount  = 5
	colCparty   = 6
	colAmount   = 7
	colOutcome  = 8
	colDetail   = 9
)

// FromResult converts a run into log entries stamped with at.
func FromResult(res *scenario.Result, at time.Time) []Entry {
	entries := make([]Entry, 0, len(res.Steps))
	for _, sr := range res.Steps {
		e := Entry{
			Timestamp:    at,
			RunID:        res.RunID.String(),
			Scenario:     res.Scenario,
			Step:         sr.Index,
			Op:           string(sr.Op),
			Account:      sr.Account,
			Counterparty: sr.To,
			Outcome:      OutcomeApplied,
		}
		if sr.Op == scenario.OpSummary {
			e.Detail = sr.Summary
		} else {
			e.Amount = sr.Amount.String()
		}
		if !sr.Applied {
			e.Outcome = OutcomeIgnored
			if sr.Reason != nil {
				e.Detail = sr.Reason.Error()
			}
		}
		entries = append(entries, e)
	}
	return entries
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTime] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colRunID] = e.RunID
	row[colScenario] = e.Scenario
	row[colStep] = strconv.Itoa(e.Step)
	row[colOp] = e.Op
	row[colAccount] = strconv.Itoa(e.Account)
	if e.Op == string(scenario.OpTransfer) {
		row[colCparty] = strconv.Itoa(e.Counterparty)
	}
	row[colAmount] = e.Amount
	row[colOutcome] = e.Outcome
	row[colDetail] = e.Detail
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTime])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	step, err := strconv.Atoi(record[colStep])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing step %q: %w", record[colStep], err)
	}
	account, err := strconv.Atoi(record[colAccount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing account %q: %w", record[colAccount], err)
	}
	var cparty int
	if record[colCparty] != "" {
		cparty, err = strconv.Atoi(record[colCparty])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing counterparty %q: %w", record[colCparty], err)
		}
	}

	return Entry{
		Timestamp:    ts,
		RunID:        record[colRunID],
		Scenario:     record[colScenario],
		Step:         step,
		Op:           record[colOp],
		Account:      account,
		Counterparty: cparty,
		Amount:       record[colAmount],
		Outcome:      record[colOutcome],
		Detail:       record[colDetail],
	}, nil
}

// Append writes entries to <repoRoot>/logs/run-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(repoRoot, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, Path)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/run-log.csv.
// Returns nil if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, Path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening run log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading run log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
