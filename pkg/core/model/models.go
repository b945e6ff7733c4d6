package model

import (
	"fmt"
	"strings"
	"time"
)

// Session is an examination session within a day
type Session string

const (
	SessionForenoon  Session = "FN"
	SessionAfternoon Session = "AN"
)

// sessionSynonyms maps the free-text labels seen in source tables to
// normalized session codes
var sessionSynonyms = map[string]Session{
	"FN":        SessionForenoon,
	"FORENOON":  SessionForenoon,
	"MORNING":   SessionForenoon,
	"AM":        SessionForenoon,
	"AN":        SessionAfternoon,
	"AFTERNOON": SessionAfternoon,
	"EVENING":   SessionAfternoon,
	"PM":        SessionAfternoon,
}

// NormalizeSession maps a free-text session label to FN/AN.
// Labels outside the synonym table pass through uppercased rather than
// failing, so an unexpected source label stays visible downstream.
func NormalizeSession(label string) Session {
	cleaned := strings.ToUpper(strings.TrimSpace(label))
	if normalized, ok := sessionSynonyms[cleaned]; ok {
		return normalized
	}
	return Session(cleaned)
}

// Mode distinguishes on-site invigilation from remote duty
type Mode string

const (
	ModeInPerson Mode = "In-person"
	ModeRemote   Mode = "Remote"
)

// Role is a faculty designation as it appears in the faculty master table
type Role string

const (
	RoleProfessor          Role = "P"
	RoleAssociateProfessor Role = "ACP"
	RoleSeniorAP           Role = "SAP"
	RoleAP3                Role = "AP3"
	RoleAP2                Role = "AP2"
	RoleTA                 Role = "TA"
	RoleRA                 Role = "RA"
)

// DutySlot is one schedulable unit of examination-duty demand.
// (Date, Session, Mode) is unique within a loaded catalog.
type DutySlot struct {
	Date          time.Time
	Session       Session
	Mode          Mode
	RequiredCount int
}

// FacultyMember is one row of the faculty master table
type FacultyMember struct {
	Name           string
	NormalizedName string
	Role           Role
	BlockedDates   []time.Time
}

// IsBlocked reports whether the given date is one of the member's
// personally reserved dates
func (m FacultyMember) IsBlocked(date time.Time) bool {
	for _, blocked := range m.BlockedDates {
		if blocked.Equal(date) {
			return true
		}
	}
	return false
}

// SlotChoice is a single willingness pick
type SlotChoice struct {
	Date    time.Time
	Session Session
}

func (c SlotChoice) String() string {
	return fmt.Sprintf("%s %s", FormatDate(c.Date), c.Session)
}

// WillingnessRecord is one persisted willingness row
type WillingnessRecord struct {
	FacultyName string
	Date        time.Time
	Session     Session
}

// NormalizeName builds the equality key used for all ledger and
// reconciliation lookups. Names vary in casing and whitespace across
// sources, so raw names are never compared directly.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DateLayout is the day-first text format used for all stored and
// displayed dates
const DateLayout = "02-01-2006"

// FormatDate renders a date in the portal's day-first text format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly truncates a timestamp to a midnight-UTC calendar date so that
// dates parsed from different sources compare equal
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
