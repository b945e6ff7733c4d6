package directory

import (
	"fmt"
	"strings"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/tabular"
)

// MalformedDirectoryError indicates a faculty master table that cannot
// be interpreted at all
type MalformedDirectoryError struct {
	Reason string
}

func (e *MalformedDirectoryError) Error() string {
	return fmt.Sprintf("malformed faculty directory: %s", e.Reason)
}

// blockedDateColumns are the literal header names of the optional
// personally-reserved-date columns
var blockedDateColumns = []string{"V1", "V2", "V3", "V4", "V5"}

// Load parses the faculty master table.
//
// The first two columns are interpreted positionally as (name, role)
// regardless of header text. Blocked dates come from the optional
// columns literally named V1..V5; unparsable cells are skipped with a
// warning. Two rows normalizing to the same name keep the later row
// (last write wins, as the source data has always behaved), with a
// warning naming the collision.
func Load(table *tabular.Table) ([]model.FacultyMember, []string, error) {
	if table == nil || table.ColumnCount() < 2 {
		return nil, nil, &MalformedDirectoryError{
			Reason: fmt.Sprintf("expected at least 2 columns (name, role), found %d", columnCount(table)),
		}
	}

	blockedCols := make([]int, 0, len(blockedDateColumns))
	for _, name := range blockedDateColumns {
		if idx := table.FindColumn(name); idx >= 0 {
			blockedCols = append(blockedCols, idx)
		}
	}

	var warnings []string
	members := make([]model.FacultyMember, 0, len(table.Rows))
	seen := make(map[string]int) // normalized name -> index into members

	for i := range table.Rows {
		name := table.Cell(i, 0)
		if name == "" {
			continue
		}

		member := model.FacultyMember{
			Name:           name,
			NormalizedName: model.NormalizeName(name),
			Role:           model.Role(strings.TrimSpace(table.Cell(i, 1))),
		}

		for _, col := range blockedCols {
			cell := table.Cell(i, col)
			if cell == "" {
				continue
			}
			date, err := tabular.ParseDayFirstDate(cell)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("row %d (%s): blocked date skipped: %v", i+2, name, err))
				continue
			}
			member.BlockedDates = append(member.BlockedDates, date)
		}

		if prev, ok := seen[member.NormalizedName]; ok {
			warnings = append(warnings, fmt.Sprintf(
				"duplicate faculty identity %q: %q replaces %q (last write wins)",
				member.NormalizedName, member.Name, members[prev].Name))
			members[prev] = member
			continue
		}

		seen[member.NormalizedName] = len(members)
		members = append(members, member)
	}

	return members, warnings, nil
}

// Index builds the normalized-name lookup used everywhere a faculty
// identity must be resolved
func Index(members []model.FacultyMember) map[string]model.FacultyMember {
	byName := make(map[string]model.FacultyMember, len(members))
	for _, m := range members {
		byName[m.NormalizedName] = m
	}
	return byName
}

func columnCount(table *tabular.Table) int {
	if table == nil {
		return 0
	}
	return table.ColumnCount()
}
