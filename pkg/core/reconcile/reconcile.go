package reconcile

import (
	"fmt"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// Result is the accommodation report for one faculty member
type Result struct {
	// Matched is the number of willingness choices honored by the final
	// allocation
	Matched int

	// Total is the number of willingness choices on file
	Total int

	// Available is false when the member has no willingness on file; in
	// that case no percentage can be reported
	Available bool
}

// Percent returns the accommodation rate as a percentage. Zero when the
// report is not available.
func (r Result) Percent() float64 {
	if !r.Available || r.Total == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.Total) * 100
}

func (r Result) String() string {
	if !r.Available {
		return "not available"
	}
	return fmt.Sprintf("%.0f%% (%d of %d)", r.Percent(), r.Matched, r.Total)
}

// identityColumn locates the column holding faculty identity in an
// allocation table of unknown schema. Best-effort substring match on
// the header, inherited from the original portal; the allocation export
// has never had a fixed contract.
func identityColumn(table *tabular.Table) int {
	if idx := table.FindColumnContaining("name"); idx >= 0 {
		return idx
	}
	return table.FindColumnContaining("faculty")
}

// Accommodation compares one member's recorded willingness against the
// externally produced allocation table and reports the fraction of
// willingness choices that were honored.
//
// Both sides are reduced to normalized (date, session) pairs, so the
// comparison is order-independent and tolerant of label variants.
func Accommodation(member model.FacultyMember, willingness []model.WillingnessRecord, allocation *tabular.Table) (Result, error) {
	wanted := make(map[model.SlotChoice]bool)
	for _, r := range willingness {
		if model.NormalizeName(r.FacultyName) != member.NormalizedName {
			continue
		}
		wanted[model.SlotChoice{Date: r.Date, Session: r.Session}] = true
	}

	if len(wanted) == 0 {
		return Result{Available: false}, nil
	}

	idCol := identityColumn(allocation)
	if idCol < 0 {
		return Result{}, fmt.Errorf("allocation table has no recognizable faculty identity column (looked for headers containing %q or %q)", "name", "faculty")
	}

	dateCol := allocation.FindColumnContaining("date")
	sessionCol := allocation.FindColumnContaining("session")
	// Fall back to the two columns after the identity column when the
	// export uses unrecognizable headers
	if dateCol < 0 {
		dateCol = idCol + 1
	}
	if sessionCol < 0 {
		sessionCol = idCol + 2
	}

	allocated := make(map[model.SlotChoice]bool)
	for i := range allocation.Rows {
		if model.NormalizeName(allocation.Cell(i, idCol)) != member.NormalizedName {
			continue
		}
		date, err := tabular.ParseDayFirstDate(allocation.Cell(i, dateCol))
		if err != nil {
			// Unparsable allocation rows cannot match anything
			continue
		}
		allocated[model.SlotChoice{
			Date:    date,
			Session: model.NormalizeSession(allocation.Cell(i, sessionCol)),
		}] = true
	}

	matched := 0
	for choice := range wanted {
		if allocated[choice] {
			matched++
		}
	}

	return Result{
		Matched:   matched,
		Total:     len(wanted),
		Available: true,
	}, nil
}
