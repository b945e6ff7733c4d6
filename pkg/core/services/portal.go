package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/internal/config"
	"github.com/sastra-some/duty-portal/pkg/catalog"
	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/directory"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// PortalData is the immutable snapshot of the input tables for one
// session: the merged duty catalog and the faculty directory. Nothing
// mutates it after load; the selection session and ledger carry all
// mutable state.
type PortalData struct {
	Catalog  []model.DutySlot
	Members  []model.FacultyMember
	ByName   map[string]model.FacultyMember
	Warnings []string
}

// Member resolves a faculty identity by display name
func (d *PortalData) Member(name string) (model.FacultyMember, bool) {
	m, ok := d.ByName[model.NormalizeName(name)]
	return m, ok
}

// LoadPortalData locates and parses the faculty master table and both
// duty demand tables. Individual malformed rows degrade to warnings;
// a table that cannot be interpreted at all fails the load.
func LoadPortalData(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*PortalData, error) {
	logger.Info("Loading portal data", zap.String("data_dir", cfg.DataDir))

	facultyTable, err := readTable(cfg.DataDir, cfg.FacultyTable)
	if err != nil {
		return nil, err
	}
	inPersonTable, err := readTable(cfg.DataDir, cfg.InPersonTable)
	if err != nil {
		return nil, err
	}
	remoteTable, err := readTable(cfg.DataDir, cfg.RemoteTable)
	if err != nil {
		return nil, err
	}

	slots, catalogWarnings, err := catalog.LoadBoth(inPersonTable, remoteTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load duty catalog: %w", err)
	}
	logger.Info("Duty catalog loaded", zap.Int("slots", len(slots)))

	members, directoryWarnings, err := directory.Load(facultyTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load faculty directory: %w", err)
	}
	logger.Info("Faculty directory loaded", zap.Int("members", len(members)))

	warnings := append(catalogWarnings, directoryWarnings...)
	for _, w := range warnings {
		logger.Warn("Input data warning", zap.String("detail", w))
	}

	return &PortalData{
		Catalog:  slots,
		Members:  members,
		ByName:   directory.Index(members),
		Warnings: warnings,
	}, nil
}

func readTable(dir, basename string) (*tabular.Table, error) {
	path, err := tabular.FindFile(dir, basename)
	if err != nil {
		return nil, fmt.Errorf("missing required table %q: %w", basename, err)
	}
	table, err := tabular.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %q: %w", basename, err)
	}
	return table, nil
}
