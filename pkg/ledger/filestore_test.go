package ledger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sastra-some/duty-portal/pkg/core/model"
)

func testStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "Willingness.csv"))
}

func picks(days ...int) []model.SlotChoice {
	var out []model.SlotChoice
	for _, d := range days {
		out = append(out, model.SlotChoice{
			Date:    time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC),
			Session: model.SessionForenoon,
		})
	}
	return out
}

func TestFileStore_MissingFileIsEmptyLedger(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	records, err := store.AllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	submitted, err := store.HasSubmitted(ctx, "dr. anand")
	require.NoError(t, err)
	assert.False(t, submitted)
}

func TestFileStore_AppendAndReadBack(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	count, err := store.AppendSubmission(ctx, "Dr. Anand", picks(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	records, err := store.AllRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Dr. Anand", records[0].FacultyName)
	assert.Equal(t, model.SessionForenoon, records[0].Session)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), records[0].Date)

	submitted, err := store.HasSubmitted(ctx, "dr. anand")
	require.NoError(t, err)
	assert.True(t, submitted)
}

func TestFileStore_DuplicateSubmissionRejected(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.AppendSubmission(ctx, "Dr. Banu", picks(1, 2))
	require.NoError(t, err)

	// Same identity under different casing and whitespace
	_, err = store.AppendSubmission(ctx, "  DR. BANU ", picks(3, 4))
	assert.True(t, IsDuplicateSubmission(err))

	// The rejected batch wrote nothing
	records, err := store.AllRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFileStore_DuplicateSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Willingness.csv")
	ctx := context.Background()

	_, err := NewFileStore(path).AppendSubmission(ctx, "Dr. Chitra", picks(5))
	require.NoError(t, err)

	// A fresh store over the same file still enforces the gate
	reopened := NewFileStore(path)
	_, err = reopened.AppendSubmission(ctx, "Dr. Chitra", picks(6))
	assert.True(t, IsDuplicateSubmission(err))
}

func TestFileStore_SecondIdentityAppends(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.AppendSubmission(ctx, "Dr. Devi", picks(1))
	require.NoError(t, err)
	_, err = store.AppendSubmission(ctx, "Dr. Ezhil", picks(2))
	require.NoError(t, err)

	records, err := store.AllRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFileStore_ClearAllRequiresConfirmation(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.AppendSubmission(ctx, "Dr. Fathima", picks(1, 2))
	require.NoError(t, err)

	_, err = store.ClearAll(ctx, false)
	assert.ErrorIs(t, err, ErrNotConfirmed)

	count, err := store.ClearAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	records, err := store.AllRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// After a clear the identity may submit again
	_, err = store.AppendSubmission(ctx, "Dr. Fathima", picks(3))
	assert.NoError(t, err)
}

func TestFileStore_StoredFormat(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	_, err := store.AppendSubmission(ctx, "Dr. Ganesh", []model.SlotChoice{
		{Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Session: model.SessionForenoon},
		{Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), Session: model.SessionAfternoon},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	content := string(raw)
	assert.Contains(t, content, "Faculty,Date,Session")
	assert.Contains(t, content, "Dr. Ganesh,01-04-2025,FN")
	assert.Contains(t, content, "Dr. Ganesh,02-04-2025,AN")
}

func TestRecordsFor(t *testing.T) {
	records := []model.WillingnessRecord{
		{FacultyName: "Dr. Anand", Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Session: model.SessionForenoon},
		{FacultyName: "DR. ANAND", Date: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC), Session: model.SessionAfternoon},
		{FacultyName: "Dr. Banu", Date: time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), Session: model.SessionForenoon},
	}

	mine := RecordsFor(records, "dr. anand")
	assert.Len(t, mine, 2)
}
