package tabular

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"transect-admin/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Line{}, &models.TeamMember{}, &models.Outing{}, &models.Issue{}, &models.Audit{}))
	return db
}

func TestExport_Lines(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Line{
		Name: "Ridge", LineType: models.LineTransect, StartStationID: "1", EndStationID: "20",
	}).Error)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, db, LineResource{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Name", "Type", "Start Station", "End Station"}, records[0])
	assert.Equal(t, []string{"Ridge", "Transect", "1", "20"}, records[1])
}

func TestImport_LinesUpsertByName(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Line{
		Name: "Ridge", LineType: models.LineTransect, StartStationID: "1", EndStationID: "10",
	}).Error)

	input := "Name,Type,Start Station,End Station\n" +
		"Ridge,Transect,1,25\n" +
		"Gully,MouseLine,1,40\n"

	count, err := Import(db, LineResource{}, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var lines []models.Line
	require.NoError(t, db.Order("name ASC").Find(&lines).Error)
	require.Len(t, lines, 2)
	assert.Equal(t, "25", lines[1].EndStationID, "existing line updated, not duplicated")
	assert.Equal(t, models.LineMouseLine, lines[0].LineType)
}

func TestImport_BadRowRollsBackWholeUpload(t *testing.T) {
	db := setupTestDB(t)

	input := "Name,Type,Start Station,End Station\n" +
		"Good,Transect,1,10\n" +
		"Bad,NotAType,1,10\n"

	_, err := Import(db, LineResource{}, strings.NewReader(input))
	require.Error(t, err)

	var count int64
	db.Model(&models.Line{}).Count(&count)
	assert.Equal(t, int64(0), count, "upload is all-or-nothing")
}

func TestImport_TeamMembers(t *testing.T) {
	db := setupTestDB(t)

	input := "Name,Available\nAB,true\nCD,false\n"
	count, err := Import(db, TeamMemberResource{}, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var cd models.TeamMember
	require.NoError(t, db.Where("name = ?", "CD").First(&cd).Error)
	assert.False(t, cd.Available)
}

func TestExport_AuditFormat(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Audit{
		Action: models.AuditLogin, Username: "ranger", IP: "203.0.113.9",
	}).Error)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, db, AuditResource{}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Login", records[1][0])
	assert.Equal(t, "ranger", records[1][1])
}
