package quota

import "github.com/sastra-some/duty-portal/pkg/core/model"

// Rule is the duty structure for one faculty designation
type Rule struct {
	Role model.Role

	// RequiredPicks is the exact number of willingness slots the member
	// must select
	RequiredPicks int

	// AllotmentDescription tells the member how many and which kind of
	// duties the final allocation will assign
	AllotmentDescription string
}

// rules is the static duty structure, keyed by designation exactly as it
// appears in the faculty master table
var rules = map[model.Role]Rule{
	model.RoleProfessor:          {model.RoleProfessor, 3, "1 remote duty"},
	model.RoleAssociateProfessor: {model.RoleAssociateProfessor, 5, "1 remote + 1 in-person"},
	model.RoleSeniorAP:           {model.RoleSeniorAP, 7, "3 in-person"},
	model.RoleAP3:                {model.RoleAP3, 7, "3 in-person"},
	model.RoleAP2:                {model.RoleAP2, 7, "3 in-person"},
	model.RoleTA:                 {model.RoleTA, 9, "3 in-person"},
	model.RoleRA:                 {model.RoleRA, 9, "4 in-person"},
}

// Lookup returns the duty rule for a role. Unknown roles return a zero
// rule with ok=false; callers must surface the missing rule as a warning
// rather than silently proceeding with zero required picks.
func Lookup(role model.Role) (Rule, bool) {
	rule, ok := rules[role]
	if !ok {
		return Rule{Role: role}, false
	}
	return rule, true
}

// SelectionMode returns the duty mode a role selects willingness from.
// Professors pick remote slots; every other designation, ACP included,
// picks in-person slots even though the ACP allotment spans both modes.
func SelectionMode(role model.Role) model.Mode {
	if role == model.RoleProfessor {
		return model.ModeRemote
	}
	return model.ModeInPerson
}

// Roles returns all roles present in the duty structure
func Roles() []model.Role {
	out := make([]model.Role, 0, len(rules))
	for role := range rules {
		out = append(out, role)
	}
	return out
}
