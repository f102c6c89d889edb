package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"transect-admin/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Line{}, &models.TeamMember{}, &models.Outing{}, &models.Issue{}))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuild_LineWithNoOutings(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Line{Name: "Quiet", LineType: models.LineTransect}).Error)

	rows, err := Build(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Nil(t, rows[0].LastCompleted)
	assert.Nil(t, rows[0].LastPartial)
	assert.Equal(t, 0, rows[0].CompletedCount)
	assert.Equal(t, 0, rows[0].PartialCount)
	assert.Equal(t, 0, rows[0].IssuesCount)
}

func TestBuild_CompletedCountsAndLastDate(t *testing.T) {
	db := setupTestDB(t)
	line := models.Line{Name: "Ridge", LineType: models.LineTransect}
	require.NoError(t, db.Create(&line).Error)

	for _, d := range []time.Time{date(2024, 1, 10), date(2024, 3, 5), date(2024, 2, 1)} {
		require.NoError(t, db.Create(&models.Outing{
			Date: d, LineID: line.ID, CompletionStatus: models.StatusCompleted,
		}).Error)
	}
	require.NoError(t, db.Create(&models.Outing{
		Date: date(2024, 4, 1), LineID: line.ID, CompletionStatus: models.StatusPartial,
	}).Error)

	rows, err := Build(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 3, rows[0].CompletedCount)
	require.NotNil(t, rows[0].LastCompleted)
	assert.Equal(t, date(2024, 3, 5), *rows[0].LastCompleted)
	assert.Equal(t, 1, rows[0].PartialCount)
	require.NotNil(t, rows[0].LastPartial)
	assert.Equal(t, date(2024, 4, 1), *rows[0].LastPartial)
}

func TestBuild_UnresolvedIssueCount(t *testing.T) {
	db := setupTestDB(t)
	line := models.Line{Name: "Gully", LineType: models.LineMouseLine}
	require.NoError(t, db.Create(&line).Error)

	statuses := []models.IssueStatus{
		models.IssueFixed, models.IssueNoActionReq,
		models.IssueNeedsWork, models.IssueProgressing, models.IssueNeedsRepeating,
	}
	for _, s := range statuses {
		require.NoError(t, db.Create(&models.Issue{
			LineID: line.ID, IssueStatus: s, IssueType: models.IssueNote, StartStationID: "1",
		}).Error)
	}

	rows, err := Build(db)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, 5, rows[0].IssuesCount)
	// unresolved = total minus Fixed and NoActionReq
	assert.Equal(t, 3, rows[0].IssuesUnresolvedCount)
}

func TestSort_CompletedCountDesc(t *testing.T) {
	rows := []Row{
		{LineName: "A", CompletedCount: 2},
		{LineName: "B", CompletedCount: 7},
		{LineName: "C", CompletedCount: 4},
	}
	Sort(rows, "completed_count", "desc")

	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].CompletedCount, rows[i].CompletedCount)
	}
}

func TestSort_LastCompletedNilSortsAsOldest(t *testing.T) {
	d := date(2024, 5, 1)
	rows := []Row{
		{LineName: "never"},
		{LineName: "recent", LastCompleted: &d},
	}
	Sort(rows, "last_completed", "desc")
	assert.Equal(t, "recent", rows[0].LineName)

	Sort(rows, "last_completed", "asc")
	assert.Equal(t, "never", rows[0].LineName)
}

func TestSort_UnknownFieldKeepsOrder(t *testing.T) {
	rows := []Row{{LineName: "B"}, {LineName: "A"}, {LineName: "C"}}
	Sort(rows, "bogus_field", "desc")

	assert.Equal(t, []string{"B", "A", "C"}, []string{rows[0].LineName, rows[1].LineName, rows[2].LineName})
}

func TestWriteCSV_HeadersAndSubstitutions(t *testing.T) {
	d := date(2024, 6, 2)
	rows := []Row{
		{LineName: "Ridge", LineType: models.LineTransect, LastCompleted: &d, CompletedCount: 2},
		{LineName: "Gully", LineType: models.LineMouseLine},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeaders, records[0])
	assert.Equal(t, []string{"Ridge", "Transect", "2024-06-02", "Never", "2", "0", "0", "0"}, records[1])
	assert.Equal(t, []string{"Gully", "Mouse-Line", "Never", "Never", "0", "0", "0", "0"}, records[2])
}

func TestBuild_NaturalOrderIsLineName(t *testing.T) {
	db := setupTestDB(t)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, db.Create(&models.Line{Name: name, LineType: models.LineTransect}).Error)
	}

	rows, err := Build(db)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "alpha", rows[0].LineName)
	assert.Equal(t, "mid", rows[1].LineName)
	assert.Equal(t, "zeta", rows[2].LineName)
}
