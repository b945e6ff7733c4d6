package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSession(t *testing.T) {
	forenoon := []string{"FN", "fn", "Forenoon", "FORENOON", "Morning", "AM", " am "}
	for _, label := range forenoon {
		assert.Equal(t, SessionForenoon, NormalizeSession(label), "label %q", label)
	}

	afternoon := []string{"AN", "an", "Afternoon", "Evening", "PM", " pm"}
	for _, label := range afternoon {
		assert.Equal(t, SessionAfternoon, NormalizeSession(label), "label %q", label)
	}

	// Unknown labels pass through uppercased
	assert.Equal(t, Session("NIGHT"), NormalizeSession("night"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "dr. anand", NormalizeName("  Dr. Anand "))
	assert.Equal(t, NormalizeName("DR. ANAND"), NormalizeName("dr. anand"))
}

func TestIsBlocked(t *testing.T) {
	blocked := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	m := FacultyMember{BlockedDates: []time.Time{blocked}}

	assert.True(t, m.IsBlocked(blocked))
	assert.False(t, m.IsBlocked(blocked.AddDate(0, 0, 1)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "02-04-2025", FormatDate(time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)))
}

func TestDateOnly(t *testing.T) {
	stamp := time.Date(2025, 4, 2, 15, 30, 12, 0, time.FixedZone("IST", 5*3600+1800))
	got := DateOnly(stamp)
	assert.Equal(t, time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), got)
}
