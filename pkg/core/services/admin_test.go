package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sastra-some/duty-portal/pkg/core/model"
	"github.com/sastra-some/duty-portal/pkg/core/selection"
	"github.com/sastra-some/duty-portal/pkg/ledger"
)

func submitFor(t *testing.T, ctx context.Context, store ledger.Store, data *PortalData, name string) {
	t.Helper()
	sel, err := BeginSelection(ctx, store, data, zap.NewNop(), name)
	require.NoError(t, err)
	day := 1
	for sel.Session.State() != selection.StateReady {
		require.NoError(t, sel.Session.Pick(date(day), model.SessionForenoon))
		day++
	}
	_, err = SubmitWillingness(ctx, store, zap.NewNop(), sel.Session)
	require.NoError(t, err)
}

func TestListAndClearWillingness(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	data := testData(
		facultyMember("Dr. Anand", model.RoleProfessor),
		facultyMember("Dr. Banu", model.RoleAssociateProfessor),
	)

	submitFor(t, ctx, store, data, "Dr. Anand")
	submitFor(t, ctx, store, data, "Dr. Banu")

	records, err := ListWillingness(ctx, store, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, records, 3+5)

	// Clear refuses without the confirmation flag
	_, err = ClearWillingness(ctx, store, zap.NewNop(), false)
	assert.ErrorIs(t, err, ledger.ErrNotConfirmed)

	count, err := ClearWillingness(ctx, store, zap.NewNop(), true)
	require.NoError(t, err)
	assert.Equal(t, 8, count)

	records, err = ListWillingness(ctx, store, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReportAccommodation(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	data := testData(facultyMember("Dr. Anand", model.RoleProfessor))

	submitFor(t, ctx, store, data, "Dr. Anand") // picks 01..03 March FN remote

	dir := t.TempDir()
	allocationPath := filepath.Join(dir, "Final_Allocation.csv")
	allocation := "Faculty Name,Date,Session\nDr. Anand,01-03-2025,FN\nDr. Anand,09-03-2025,AN\n"
	require.NoError(t, os.WriteFile(allocationPath, []byte(allocation), 0o644))

	result, err := ReportAccommodation(ctx, store, data, zap.NewNop(), "Dr. Anand", allocationPath)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 3, result.Total)
}

func TestReportAccommodation_NoWillingness(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	data := testData(facultyMember("Dr. Banu", model.RoleSeniorAP))

	dir := t.TempDir()
	allocationPath := filepath.Join(dir, "Final_Allocation.csv")
	require.NoError(t, os.WriteFile(allocationPath, []byte("Name,Date,Session\n"), 0o644))

	result, err := ReportAccommodation(ctx, store, data, zap.NewNop(), "Dr. Banu", allocationPath)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "not available", result.String())
}
