package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// columns is the fixed column set of the roster file. Files written by
// older spreadsheets may miss some of these; Load synthesizes them empty.
var columns = []string{
	"NAMA", "NO_KP", "TINGKATAN", "KELAS",
	"MENGAJI_STATUS", "MENGAJI_AMOUNT", "MENGAJI_DATE",
	"SILAT_STATUS", "SILAT_AMOUNT", "SILAT_DATE",
}

// Store reads and writes the roster CSV. There is no locking: the tool is
// single-operator and concurrent writers can clobber each other.
type Store struct {
	path string
}

// NewStore builds a store for the roster file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file backing this store.
func (s *Store) Path() string {
	return s.path
}

// Load reads every record from disk. A missing file is an empty roster,
// not an error.
func (s *Store) Load() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("roster: open %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("roster: parse %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := headerIndex(rows[0])
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, recordFromRow(row, index))
	}
	return records, nil
}

// Save writes the full roster back, header first, amounts with two
// decimals. The write replaces the previous file contents.
func (s *Store) Save(records []Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("roster: ensure data dir: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("roster: create %s: %w", s.path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("roster: write header: %w", err)
	}
	for i := range records {
		records[i].Normalize()
		if err := writer.Write(rowFromRecord(records[i])); err != nil {
			return fmt.Errorf("roster: write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("roster: flush %s: %w", s.path, err)
	}
	return nil
}

// Import replaces the roster with the contents of another CSV file.
func (s *Store) Import(path string) ([]Record, error) {
	records, err := NewStore(path).Load()
	if err != nil {
		return nil, err
	}
	if err := s.Save(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Export writes the current roster to another CSV file.
func (s *Store) Export(path string) error {
	records, err := s.Load()
	if err != nil {
		return err
	}
	return NewStore(path).Save(records)
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	return index
}

func cell(row []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func recordFromRow(row []string, index map[string]int) Record {
	rec := Record{
		Name:     cell(row, index, "NAMA"),
		IDNumber: cell(row, index, "NO_KP"),
		Grade:    cell(row, index, "TINGKATAN"),
		Class:    cell(row, index, "KELAS"),
		Mengaji: FeePayment{
			Status:   cell(row, index, "MENGAJI_STATUS"),
			Amount:   ParseAmount(cell(row, index, "MENGAJI_AMOUNT")),
			PaidDate: cell(row, index, "MENGAJI_DATE"),
		},
		Silat: FeePayment{
			Status:   cell(row, index, "SILAT_STATUS"),
			Amount:   ParseAmount(cell(row, index, "SILAT_AMOUNT")),
			PaidDate: cell(row, index, "SILAT_DATE"),
		},
	}
	rec.Normalize()
	return rec
}

func rowFromRecord(rec Record) []string {
	return []string{
		rec.Name, rec.IDNumber, rec.Grade, rec.Class,
		rec.Mengaji.Status, rec.Mengaji.Amount.StringFixed(2), rec.Mengaji.PaidDate,
		rec.Silat.Status, rec.Silat.Amount.StringFixed(2), rec.Silat.PaidDate,
	}
}
