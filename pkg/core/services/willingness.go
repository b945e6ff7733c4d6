package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/core/quota"
	"github.com/sastra-some/duty-portal/pkg/core/selection"
	"github.com/sastra-some/duty-portal/pkg/ledger"
)

// SelectionContext is everything the interactive session needs to
// collect one member's willingness
type SelectionContext struct {
	Session *selection.Session
	Rule    quota.Rule

	// RuleKnown is false for designations missing from the duty
	// structure; the caller must surface this as a configuration warning
	RuleKnown bool

	// AlreadySubmitted is true when the ledger already holds this
	// member's willingness; picking is pointless but the state is shown
	AlreadySubmitted bool
}

// BeginSelection resolves a faculty member by name and opens a fresh
// selection session for them. Any previously active session for another
// member is simply dropped by the caller; selection state never
// survives an identity change.
func BeginSelection(ctx context.Context, store ledger.Store, data *PortalData, logger *zap.Logger, name string) (*SelectionContext, error) {
	member, ok := data.Member(name)
	if !ok {
		return nil, fmt.Errorf("faculty member %q not found in the directory", name)
	}

	rule, known := quota.Lookup(member.Role)
	if !known {
		logger.Warn("No duty rule for designation; member cannot submit willingness",
			zap.String("member", member.Name),
			zap.String("designation", string(member.Role)))
	}

	submitted, err := store.HasSubmitted(ctx, member.NormalizedName)
	if err != nil {
		return nil, fmt.Errorf("failed to check submission status: %w", err)
	}

	// Dates already on file come out of the eligible pool
	var priorRecords []model.WillingnessRecord
	if submitted {
		all, err := store.AllRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read willingness ledger: %w", err)
		}
		priorRecords = ledger.RecordsFor(all, member.NormalizedName)
	}
	sess := selection.NewSession(member, rule, known, data.Catalog, recordDates(priorRecords))

	logger.Info("Selection session opened",
		zap.String("member", member.Name),
		zap.String("designation", string(member.Role)),
		zap.Int("required_picks", rule.RequiredPicks),
		zap.Bool("already_submitted", submitted))

	return &SelectionContext{
		Session:          sess,
		Rule:             rule,
		RuleKnown:        known,
		AlreadySubmitted: submitted,
	}, nil
}

// SubmitWillingness finalizes the selection and appends it to the
// ledger as one atomic batch. A duplicate in the ledger rejects the
// submission and leaves the session open so the rejection is visible.
func SubmitWillingness(ctx context.Context, store ledger.Store, logger *zap.Logger, sess *selection.Session) (int, error) {
	picks, err := sess.Finalize()
	if err != nil {
		return 0, err
	}

	batchID := uuid.New().String()
	member := sess.Member()

	count, err := store.AppendSubmission(ctx, member.Name, picks)
	if err != nil {
		// The write failed; reopen so the session state reflects reality
		sess.Reopen(picks)
		if ledger.IsDuplicateSubmission(err) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to persist willingness: %w", err)
	}

	logger.Info("Willingness submitted",
		zap.String("batch_id", batchID),
		zap.String("member", member.Name),
		zap.Int("records", count))

	return count, nil
}

func recordDates(records []model.WillingnessRecord) []time.Time {
	dates := make([]time.Time, 0, len(records))
	for _, r := range records {
		dates = append(dates, r.Date)
	}
	return dates
}
