package importlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status of an import run for one file.
type Status string

const (
	StatusImported Status = "imported"
	StatusFailed   Status = "failed"
)

// Entry is one row in the import log: one statement file handled by one run.
type Entry struct {
	Timestamp    time.Time
	RunID        uuid.UUID
	Importer     string
	File         string
	Transactions int
	Status       Status
	Details      string
	CommitHash   string
}

// Header is the CSV header for import-log.csv.
const Header = "timestamp,run_id,importer,file,transactions,status,details,commit_hash"

// FileName is the log file name inside the log directory.
const FileName = "import-log.csv"

const (
	numFields       = 8
	colTimestamp    = 0
	colRunID        = 1
	colImporter     = 2
	colFile         = 3
	colTransactions = 4
	colStatus       = 5
	colDetails      = 6
	colCommitHash   = 7
)

// NewRunID returns a fresh identifier shared by all entries of one run.
func NewRunID() uuid.UUID {
	return uuid.New()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colRunID] = e.RunID.String()
	row[colImporter] = e.Importer
	row[colFile] = e.File
	row[colTransactions] = strconv.Itoa(e.Transactions)
	row[colStatus] = string(e.Status)
	row[colDetails] = e.Details
	row[colCommitHash] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	runID, err := uuid.Parse(record[colRunID])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing run id %q: %w", record[colRunID], err)
	}

	n, err := strconv.Atoi(record[colTransactions])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing transactions %q: %w", record[colTransactions], err)
	}

	return Entry{
		Timestamp:    ts,
		RunID:        runID,
		Importer:     record[colImporter],
		File:         record[colFile],
		Transactions: n,
		Status:       Status(record[colStatus]),
		Details:      record[colDetails],
		CommitHash:   record[colCommitHash],
	}, nil
}

// Append writes entries to <dir>/import-log.csv, creating the file and header if needed.
func Append(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening import log: %w", err)
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

// Read returns all entries from <dir>/import-log.csv.
// Returns nil if the file does not exist.
func Read(dir string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening import log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading import log CSV: %w", err)
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

// Imported reports whether file was already imported successfully by an earlier run.
func Imported(entries []Entry, file string) bool {
	for _, e := range entries {
		if e.File == file && e.Status == StatusImported {
			return true
		}
	}
	return false
}
