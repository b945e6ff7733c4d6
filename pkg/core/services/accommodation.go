package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/pkg/core/reconcile"
	"github.com/sastra-some/duty-portal/pkg/ledger"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// ReportAccommodation reads the externally produced allocation table
// and reports how much of the member's willingness it honored
func ReportAccommodation(ctx context.Context, store ledger.Store, data *PortalData, logger *zap.Logger, name, allocationPath string) (reconcile.Result, error) {
	member, ok := data.Member(name)
	if !ok {
		return reconcile.Result{}, fmt.Errorf("faculty member %q not found in the directory", name)
	}

	allocation, err := tabular.ReadFile(allocationPath)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("failed to read allocation table: %w", err)
	}

	records, err := store.AllRecords(ctx)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("failed to read willingness ledger: %w", err)
	}

	result, err := reconcile.Accommodation(member, records, allocation)
	if err != nil {
		return reconcile.Result{}, err
	}

	logger.Info("Accommodation reconciled",
		zap.String("member", member.Name),
		zap.Int("matched", result.Matched),
		zap.Int("total", result.Total),
		zap.Bool("available", result.Available))

	return result, nil
}
