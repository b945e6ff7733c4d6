package catalog

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// MalformedScheduleError indicates a duty demand table that cannot be
// interpreted at all (as opposed to individual bad rows, which are
// dropped with a warning)
type MalformedScheduleError struct {
	Reason string
}

func (e *MalformedScheduleError) Error() string {
	return fmt.Sprintf("malformed duty schedule: %s", e.Reason)
}

// Load parses one duty demand table into normalized duty slots, tagging
// every slot with the given mode.
//
// The first three columns are interpreted positionally as
// (date, session label, required count) regardless of header text.
// Rows whose date cell cannot be parsed are dropped with a warning;
// required counts that fail to parse default to 1. Duplicate
// (date, session) rows have their counts summed.
func Load(table *tabular.Table, mode model.Mode) ([]model.DutySlot, []string, error) {
	if table == nil || table.ColumnCount() < 3 {
		return nil, nil, &MalformedScheduleError{
			Reason: fmt.Sprintf("expected at least 3 columns (date, session, required count), found %d", columnCount(table)),
		}
	}

	type slotKey struct {
		date    string
		session model.Session
	}

	var warnings []string
	totals := make(map[slotKey]*model.DutySlot)

	for i := range table.Rows {
		dateCell := table.Cell(i, 0)
		if dateCell == "" {
			// Blank rows and footers are expected in real sources
			continue
		}

		date, err := tabular.ParseDayFirstDate(dateCell)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("row %d dropped: %v", i+2, err))
			continue
		}

		session := model.NormalizeSession(table.Cell(i, 1))

		count := 1
		if parsed, err := strconv.Atoi(table.Cell(i, 2)); err == nil && parsed >= 0 {
			count = parsed
		}

		key := slotKey{date: model.FormatDate(date), session: session}
		if existing, ok := totals[key]; ok {
			existing.RequiredCount += count
			continue
		}
		totals[key] = &model.DutySlot{
			Date:          date,
			Session:       session,
			Mode:          mode,
			RequiredCount: count,
		}
	}

	slots := make([]model.DutySlot, 0, len(totals))
	for _, slot := range totals {
		slots = append(slots, *slot)
	}
	sortSlots(slots)

	return slots, warnings, nil
}

// LoadBoth loads the in-person and remote demand tables and returns the
// merged catalog, sorted for display
func LoadBoth(inPerson, remote *tabular.Table) ([]model.DutySlot, []string, error) {
	inPersonSlots, inPersonWarnings, err := Load(inPerson, model.ModeInPerson)
	if err != nil {
		return nil, nil, fmt.Errorf("in-person duty table: %w", err)
	}

	remoteSlots, remoteWarnings, err := Load(remote, model.ModeRemote)
	if err != nil {
		return nil, nil, fmt.Errorf("remote duty table: %w", err)
	}

	merged := make([]model.DutySlot, 0, len(inPersonSlots)+len(remoteSlots))
	merged = append(merged, inPersonSlots...)
	merged = append(merged, remoteSlots...)
	sortSlots(merged)

	warnings := append(inPersonWarnings, remoteWarnings...)
	return merged, warnings, nil
}

// SlotsForMode filters a merged catalog down to one duty mode
func SlotsForMode(slots []model.DutySlot, mode model.Mode) []model.DutySlot {
	filtered := make([]model.DutySlot, 0, len(slots))
	for _, slot := range slots {
		if slot.Mode == mode {
			filtered = append(filtered, slot)
		}
	}
	return filtered
}

func sortSlots(slots []model.DutySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		if slots[i].Session != slots[j].Session {
			return slots[i].Session < slots[j].Session
		}
		return slots[i].Mode < slots[j].Mode
	})
}

func columnCount(table *tabular.Table) int {
	if table == nil {
		return 0
	}
	return table.ColumnCount()
}
