package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/ledger"
)

// ListWillingness returns the full ledger for administrative listing
// and export
func ListWillingness(ctx context.Context, store ledger.Store, logger *zap.Logger) ([]model.WillingnessRecord, error) {
	records, err := store.AllRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read willingness ledger: %w", err)
	}
	logger.Info("Willingness ledger listed", zap.Int("records", len(records)))
	return records, nil
}

// ClearWillingness wipes the entire ledger. The confirmed flag is the
// second step of the two-step gesture; without it the store refuses.
func ClearWillingness(ctx context.Context, store ledger.Store, logger *zap.Logger, confirmed bool) (int, error) {
	count, err := store.ClearAll(ctx, confirmed)
	if err != nil {
		return 0, err
	}
	logger.Warn("Willingness ledger cleared", zap.Int("records_removed", count))
	return count, nil
}
