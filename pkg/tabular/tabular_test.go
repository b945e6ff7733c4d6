package tabular

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindFile_TriesExtensionsInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Faculty_Master.tsv", "a\tb")

	path, err := FindFile(dir, "Faculty_Master")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Faculty_Master.tsv"), path)

	// csv outranks tsv
	writeFile(t, dir, "Faculty_Master.csv", "a,b")
	path, err = FindFile(dir, "Faculty_Master")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Faculty_Master.csv"), path)
}

func TestFindFile_Missing(t *testing.T) {
	_, err := FindFile(t.TempDir(), "Offline_Duty")
	assert.Error(t, err)
}

func TestReadFile_CSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "duty.csv", "Date, Session ,Count\n12-03-2025,FN,4\n13-03-2025,AN\n")

	table, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Session", "Count"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "FN", table.Cell(0, 1))
	// Ragged row: missing cell reads as empty
	assert.Equal(t, "", table.Cell(1, 2))
}

func TestReadFile_TSV(t *testing.T) {
	path := writeFile(t, t.TempDir(), "duty.tsv", "Date\tSession\tCount\n12-03-2025\tFN\t4\n")

	table, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "4", table.Cell(0, 2))
}

func TestTable_FindColumn(t *testing.T) {
	table := &Table{Headers: []string{"Name", "Designation", " V1 ", "V2"}}

	assert.Equal(t, 2, table.FindColumn("V1"))
	assert.Equal(t, 2, table.FindColumn("v1"))
	assert.Equal(t, -1, table.FindColumn("V5"))
}

func TestTable_FindColumnContaining(t *testing.T) {
	table := &Table{Headers: []string{"Slot ID", "Allotted Faculty Name", "Exam Date"}}

	assert.Equal(t, 1, table.FindColumnContaining("name"))
	assert.Equal(t, 1, table.FindColumnContaining("faculty"))
	assert.Equal(t, 2, table.FindColumnContaining("date"))
	assert.Equal(t, -1, table.FindColumnContaining("session"))
}

func TestParseDayFirstDate(t *testing.T) {
	want := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{
		"12-03-2025",
		"12/03/2025",
		"12.03.2025",
		"2025-03-12",
		" 12-03-2025 ",
		"12-03-2025 00:00:00",
	} {
		got, err := ParseDayFirstDate(input)
		require.NoError(t, err, "input %q", input)
		assert.True(t, got.Equal(want), "input %q parsed to %v", input, got)
	}
}

func TestParseDayFirstDate_DayFirstConvention(t *testing.T) {
	// 03-12-2025 is 3 December, never 12 March
	got, err := ParseDayFirstDate("03-12-2025")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestParseDayFirstDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "Total", "32-01-2025", "12-13-2025"} {
		_, err := ParseDayFirstDate(input)
		assert.Error(t, err, "input %q", input)
	}
}
