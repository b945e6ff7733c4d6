package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/sastra-some/duty-portal/pkg/core/model"
)

// ErrNotConfirmed is returned by ClearAll when the caller has not
// asserted intent; the destructive wipe is a two-step gesture.
var ErrNotConfirmed = errors.New("ledger clear requires explicit confirmation")

// DuplicateSubmissionError indicates a second submission attempt for a
// faculty identity that already has records on file
type DuplicateSubmissionError struct {
	NormalizedName string
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("willingness already submitted for %q", e.NormalizedName)
}

// IsDuplicateSubmission reports whether err is a duplicate-submission
// rejection
func IsDuplicateSubmission(err error) bool {
	var dup *DuplicateSubmissionError
	return errors.As(err, &dup)
}

// Store is the willingness ledger: an append-only record of accepted
// submissions, at most one per faculty identity, persisted across
// process restarts.
type Store interface {
	// HasSubmitted reports whether any records exist for the identity
	HasSubmitted(ctx context.Context, normalizedName string) (bool, error)

	// AppendSubmission writes one faculty member's full willingness as a
	// single batch. The one-submission gate is re-checked at write time;
	// a duplicate fails with DuplicateSubmissionError and writes nothing.
	// Returns the number of records written.
	AppendSubmission(ctx context.Context, displayName string, picks []model.SlotChoice) (int, error)

	// AllRecords returns the full ledger, for reconciliation and
	// administrative listing
	AllRecords(ctx context.Context) ([]model.WillingnessRecord, error)

	// ClearAll wipes the ledger and returns the number of records
	// removed. Refused with ErrNotConfirmed unless confirmed is true.
	ClearAll(ctx context.Context, confirmed bool) (int, error)
}

// RecordsFor filters the ledger down to one identity's records
func RecordsFor(records []model.WillingnessRecord, normalizedName string) []model.WillingnessRecord {
	var out []model.WillingnessRecord
	for _, r := range records {
		if model.NormalizeName(r.FacultyName) == normalizedName {
			out = append(out, r)
		}
	}
	return out
}
