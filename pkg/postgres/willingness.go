package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/ledger"
)

// uniqueViolation is the SQLSTATE raised when the submission gate row
// already exists
const uniqueViolation = "23505"

// HasSubmitted reports whether a submission gate row exists for the identity
func (db *DB) HasSubmitted(ctx context.Context, normalizedName string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM willingness_submission WHERE normalized_name = $1)`,
		normalizedName,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check submission gate: %w", err)
	}
	return exists, nil
}

// AppendSubmission writes the gate row and the willingness batch in one
// transaction. A concurrent or repeated submission hits the primary key
// on normalized_name and surfaces as DuplicateSubmissionError.
func (db *DB) AppendSubmission(ctx context.Context, displayName string, picks []model.SlotChoice) (int, error) {
	normalized := model.NormalizeName(displayName)

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin submission transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO willingness_submission (normalized_name, display_name) VALUES ($1, $2)`,
		normalized, displayName,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, &ledger.DuplicateSubmissionError{NormalizedName: normalized}
		}
		return 0, fmt.Errorf("failed to insert submission gate row: %w", err)
	}

	for _, pick := range picks {
		_, err = tx.Exec(ctx,
			`INSERT INTO willingness_record (id, normalized_name, display_name, duty_date, session)
			 VALUES ($1, $2, $3, $4, $5)`,
			uuid.New().String(), normalized, displayName, pick.Date, string(pick.Session),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert willingness record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit submission: %w", err)
	}
	return len(picks), nil
}

// AllRecords returns the full ledger ordered by faculty then date
func (db *DB) AllRecords(ctx context.Context) ([]model.WillingnessRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT display_name, duty_date, session
		 FROM willingness_record
		 ORDER BY normalized_name, duty_date, session`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query willingness records: %w", err)
	}
	defer rows.Close()

	var records []model.WillingnessRecord
	for rows.Next() {
		var (
			name    string
			date    time.Time
			session string
		)
		if err := rows.Scan(&name, &date, &session); err != nil {
			return nil, fmt.Errorf("failed to scan willingness record: %w", err)
		}
		records = append(records, model.WillingnessRecord{
			FacultyName: name,
			Date:        model.DateOnly(date),
			Session:     model.Session(session),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read willingness records: %w", err)
	}
	return records, nil
}

// ClearAll wipes both the records and the submission gates
func (db *DB) ClearAll(ctx context.Context, confirmed bool) (int, error) {
	if !confirmed {
		return 0, ledger.ErrNotConfirmed
	}

	var count int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM willingness_record`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count willingness records: %w", err)
	}

	// Gate rows cascade-delete the records
	if _, err := db.pool.Exec(ctx, `DELETE FROM willingness_submission`); err != nil {
		return 0, fmt.Errorf("failed to clear willingness ledger: %w", err)
	}
	return count, nil
}

// compile-time interface check
var _ ledger.Store = (*DB)(nil)
