package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// fileHeader is the fixed three-column layout of the willingness store
var fileHeader = []string{"Faculty", "Date", "Session"}

// FileStore persists the ledger as a three-column CSV file.
//
// The access discipline is read the whole file, mutate in memory, write
// the whole file; writes go through a temp file renamed over the target
// so a crashed write never leaves a torn ledger. Safe for one writer at
// a time only, which is the portal's single-session operating model.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed ledger at the given path.
// A missing file is an empty ledger, created on first submission.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file location
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) HasSubmitted(ctx context.Context, normalizedName string) (bool, error) {
	records, err := s.AllRecords(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range records {
		if model.NormalizeName(r.FacultyName) == normalizedName {
			return true, nil
		}
	}
	return false, nil
}

func (s *FileStore) AppendSubmission(ctx context.Context, displayName string, picks []model.SlotChoice) (int, error) {
	records, err := s.AllRecords(ctx)
	if err != nil {
		return 0, err
	}

	// Re-check the gate at write time, against the freshly read file
	normalized := model.NormalizeName(displayName)
	for _, r := range records {
		if model.NormalizeName(r.FacultyName) == normalized {
			return 0, &DuplicateSubmissionError{NormalizedName: normalized}
		}
	}

	for _, pick := range picks {
		records = append(records, model.WillingnessRecord{
			FacultyName: displayName,
			Date:        pick.Date,
			Session:     pick.Session,
		})
	}

	if err := s.writeAll(records); err != nil {
		return 0, err
	}
	return len(picks), nil
}

func (s *FileStore) AllRecords(ctx context.Context) ([]model.WillingnessRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read willingness store: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse willingness store: %w", err)
	}

	var records []model.WillingnessRecord
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("willingness store row %d has %d columns, want 3", i+1, len(row))
		}
		date, err := tabular.ParseDayFirstDate(row[1])
		if err != nil {
			return nil, fmt.Errorf("willingness store row %d: %w", i+1, err)
		}
		records = append(records, model.WillingnessRecord{
			FacultyName: row[0],
			Date:        date,
			Session:     model.NormalizeSession(row[2]),
		})
	}
	return records, nil
}

func (s *FileStore) ClearAll(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, ErrNotConfirmed
	}

	records, err := s.AllRecords(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.writeAll(nil); err != nil {
		return 0, err
	}
	return len(records), nil
}

// writeAll rewrites the entire store, atomically replacing the previous
// file contents
func (s *FileStore) writeAll(records []model.WillingnessRecord) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create willingness store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".willingness-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp willingness store: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(fileHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write willingness store header: %w", err)
	}
	for _, r := range records {
		row := []string{r.FacultyName, model.FormatDate(r.Date), string(r.Session)}
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write willingness record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush willingness store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp willingness store: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace willingness store: %w", err)
	}
	return nil
}

func isHeaderRow(row []string) bool {
	return len(row) >= 1 && row[0] == fileHeader[0]
}
