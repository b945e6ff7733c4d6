package selection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sastra-some/duty-portal/pkg/catalog"
	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/core/quota"
)

// State is the lifecycle phase of an in-progress willingness selection
type State string

const (
	StateEmpty        State = "EMPTY"
	StateAccumulating State = "ACCUMULATING"
	StateReady        State = "READY"
	StateSubmitted    State = "SUBMITTED"
)

// Rejection reasons. Every failed pick surfaces one of these so the user
// sees the specific rule that rejected it, never a generic error.
var (
	ErrNoQuotaRule       = errors.New("no duty rule configured for this designation; willingness cannot be collected")
	ErrDateNotOffered    = errors.New("no duty is scheduled on that date for your duty mode")
	ErrDateBlocked       = errors.New("that date is reserved for your valuation duty and cannot be selected")
	ErrDateAlreadyOnFile = errors.New("your recorded willingness already covers that date")
	ErrSessionNotOffered = errors.New("that session is not scheduled on that date")
	ErrDuplicateDate     = errors.New("you have already picked a session on that date")
	ErrCapacityReached   = errors.New("you have already picked the required number of slots")
	ErrAlreadySubmitted  = errors.New("this willingness has already been submitted")
	ErrNotReady          = errors.New("willingness cannot be submitted until exactly the required number of slots is picked")
	ErrNotSubmittable    = errors.New("picks cannot change after submission")
)

// Session holds one faculty member's in-progress willingness selection.
// It is created when a member is identified and discarded whenever the
// active identity changes; it is never persisted, only its finalized
// contents reach the ledger.
type Session struct {
	member  model.FacultyMember
	rule    quota.Rule
	hasRule bool

	// eligible maps date key -> sessions offered on that date, restricted
	// to the member's selection mode and stripped of blocked and
	// already-recorded dates
	eligible map[string]map[model.Session]model.DutySlot

	// prior holds date keys already recorded in the ledger for this
	// member, kept so a pick of such a date gets its own rejection reason
	prior map[string]bool

	picks     []model.SlotChoice
	submitted bool
}

// NewSession builds the selection context for one faculty member.
// priorDates is the set of dates already recorded for the member in the
// willingness ledger; those dates are removed from the eligible pool.
func NewSession(member model.FacultyMember, rule quota.Rule, hasRule bool, slots []model.DutySlot, priorDates []time.Time) *Session {
	mode := quota.SelectionMode(member.Role)

	prior := make(map[string]bool, len(priorDates))
	for _, d := range priorDates {
		prior[model.FormatDate(d)] = true
	}

	eligible := make(map[string]map[model.Session]model.DutySlot)
	for _, slot := range catalog.SlotsForMode(slots, mode) {
		if member.IsBlocked(slot.Date) {
			continue
		}
		key := model.FormatDate(slot.Date)
		if prior[key] {
			continue
		}
		if eligible[key] == nil {
			eligible[key] = make(map[model.Session]model.DutySlot)
		}
		eligible[key][slot.Session] = slot
	}

	return &Session{
		member:   member,
		rule:     rule,
		hasRule:  hasRule,
		eligible: eligible,
		prior:    prior,
	}
}

// Member returns the faculty member this session belongs to
func (s *Session) Member() model.FacultyMember {
	return s.member
}

// Rule returns the duty rule in force for this session
func (s *Session) Rule() quota.Rule {
	return s.rule
}

// State reports the current lifecycle phase
func (s *Session) State() State {
	switch {
	case s.submitted:
		return StateSubmitted
	case len(s.picks) == 0:
		return StateEmpty
	case s.hasRule && len(s.picks) == s.rule.RequiredPicks:
		return StateReady
	default:
		return StateAccumulating
	}
}

// Picks returns a copy of the current selection in pick order
func (s *Session) Picks() []model.SlotChoice {
	out := make([]model.SlotChoice, len(s.picks))
	copy(out, s.picks)
	return out
}

// Remaining reports how many more picks are needed to reach the quota
func (s *Session) Remaining() int {
	remaining := s.rule.RequiredPicks - len(s.picks)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EligibleSlots returns the slots the member may still pick from,
// sorted for display. Dates already picked in this session remain in
// the pool until submission; the duplicate-date rule rejects them at
// pick time with its own reason.
func (s *Session) EligibleSlots() []model.DutySlot {
	var slots []model.DutySlot
	for _, sessions := range s.eligible {
		for _, slot := range sessions {
			slots = append(slots, slot)
		}
	}
	sortSlots(slots)
	return slots
}

// Pick validates and records one (date, session) choice. The checks run
// in a fixed order and the first failure rejects the pick, leaving the
// selection unchanged.
func (s *Session) Pick(date time.Time, session model.Session) error {
	if s.submitted {
		return ErrNotSubmittable
	}
	if !s.hasRule || s.rule.RequiredPicks == 0 {
		return ErrNoQuotaRule
	}

	date = model.DateOnly(date)
	key := model.FormatDate(date)

	sessions, ok := s.eligible[key]
	if !ok {
		// Distinguish why the date is outside the pool
		if s.member.IsBlocked(date) {
			return ErrDateBlocked
		}
		if s.prior[key] {
			return ErrDateAlreadyOnFile
		}
		return ErrDateNotOffered
	}

	if _, ok := sessions[session]; !ok {
		return ErrSessionNotOffered
	}

	for _, pick := range s.picks {
		if pick.Date.Equal(date) {
			return ErrDuplicateDate
		}
	}

	if len(s.picks) >= s.rule.RequiredPicks {
		return ErrCapacityReached
	}

	s.picks = append(s.picks, model.SlotChoice{Date: date, Session: session})
	return nil
}

// Unpick removes a previously picked (date, session) pair. Removing a
// pair that is not selected is a no-op, not an error.
func (s *Session) Unpick(date time.Time, session model.Session) error {
	if s.submitted {
		return ErrNotSubmittable
	}

	date = model.DateOnly(date)
	for i, pick := range s.picks {
		if pick.Date.Equal(date) && pick.Session == session {
			s.picks = append(s.picks[:i], s.picks[i+1:]...)
			return nil
		}
	}
	return nil
}

// Ready reports whether the selection is complete and submittable:
// exactly the required number of picks, with a positive quota in force.
func (s *Session) Ready() bool {
	return !s.submitted && s.hasRule && s.rule.RequiredPicks > 0 && len(s.picks) == s.rule.RequiredPicks
}

// Finalize marks the session submitted and returns the picks to be
// written to the ledger. It is rejected unless the session is Ready;
// the pick count is revalidated here as a defense against state
// corruption between the readiness check and the submit call.
func (s *Session) Finalize() ([]model.SlotChoice, error) {
	if s.submitted {
		return nil, ErrAlreadySubmitted
	}
	if !s.Ready() {
		return nil, fmt.Errorf("%w (have %d, need %d)", ErrNotReady, len(s.picks), s.rule.RequiredPicks)
	}

	picks := s.Picks()
	s.submitted = true
	s.picks = nil
	return picks, nil
}

// Reopen reverts a Finalize whose ledger write failed, restoring the
// picks so the member can retry or amend
func (s *Session) Reopen(picks []model.SlotChoice) {
	if !s.submitted {
		return
	}
	s.submitted = false
	s.picks = make([]model.SlotChoice, len(picks))
	copy(s.picks, picks)
}

func sortSlots(slots []model.DutySlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].Session < slots[j].Session
	})
}
