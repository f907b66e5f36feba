package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/nlbank/internal/id"
	"github.com/cleared-dev/nlbank/internal/model"
)

// Service appends extracted transactions to monthly journal files.
type Service struct {
	root string
}

// NewService creates a journal Service rooted at dir.
func NewService(dir string) *Service {
	return &Service{root: dir}
}

type monthKey struct{ year, month int }

type monthBatch struct {
	key      monthKey
	existing []model.Leg
	legs     []model.Leg
}

// Append validates txns, assigns entry IDs and appends them to
// <root>/YYYY/MM/journal.csv. Nothing is written unless every month validates.
// Returns the new entry IDs in input order.
func (s *Service) Append(txns []model.Transaction) ([]string, error) {
	if verrs := ValidateTransactions(txns); len(verrs) > 0 {
		return nil, joinValidation(verrs)
	}

	batches := make(map[monthKey]*monthBatch)
	var order []monthKey
	ids := make([]string, 0, len(txns))
	for _, txn := range txns {
		key := monthKey{txn.Date.Year(), int(txn.Date.Month())}
		b, ok := batches[key]
		if !ok {
			existing, err := s.ReadMonth(key.year, key.month)
			if err != nil {
				return nil, err
			}
			b = &monthBatch{key: key, existing: existing}
			batches[key] = b
			order = append(order, key)
		}

		entry := id.Entry{Year: key.year, Month: key.month, Seq: nextSeq(b.existing) + entryCount(b.legs)}
		b.legs = append(b.legs, Legs(entry, txn)...)
		ids = append(ids, entry.String())
	}

	for _, key := range order {
		b := batches[key]
		all := append(append([]model.Leg{}, b.existing...), b.legs...)
		if verrs := ValidateLegs(all, key.year, key.month); len(verrs) > 0 {
			return nil, joinValidation(verrs)
		}
	}

	for _, key := range order {
		if err := s.appendMonth(key, batches[key].legs); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func (s *Service) appendMonth(key monthKey, legs []model.Leg) error {
	path := s.monthPath(key.year, key.month)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := AppendLegs(f, legs); err != nil {
		return fmt.Errorf("appending legs: %w", err)
	}
	return nil
}

// ReadMonth reads all legs for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Leg, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	legs, err := ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return legs, nil
}

// MonthPath returns the journal file for a month.
func (s *Service) MonthPath(year, month int) string {
	return s.monthPath(year, month)
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.root, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

// nextSeq returns the first unused sequence number after legs.
func nextSeq(legs []model.Leg) int {
	maxSeq := 0
	for _, leg := range legs {
		entry, err := id.Parse(leg.EntryID)
		if err != nil {
			continue
		}
		if entry.Seq > maxSeq {
			maxSeq = entry.Seq
		}
	}
	return maxSeq + 1
}

func entryCount(legs []model.Leg) int {
	seen := make(map[string]bool)
	for _, leg := range legs {
		seen[leg.EntryGroup()] = true
	}
	return len(seen)
}

func joinValidation(verrs []ValidationError) error {
	msgs := make([]string, len(verrs))
	for i, ve := range verrs {
		msgs[i] = ve.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
