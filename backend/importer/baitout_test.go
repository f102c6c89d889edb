package importer

import (
	"testing"

	"transect-admin/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedLine(t *testing.T, db *gorm.DB, name, start, end string) models.Line {
	t.Helper()
	line := models.Line{Name: name, LineType: models.LineTransect, StartStationID: start, EndStationID: end}
	require.NoError(t, db.Create(&line).Error)
	return line
}

func linesMap(t *testing.T, db *gorm.DB) map[string]*models.Line {
	t.Helper()
	var lines []models.Line
	require.NoError(t, db.Find(&lines).Error)
	m := make(map[string]*models.Line, len(lines))
	for i := range lines {
		m[lines[i].Name] = &lines[i]
	}
	return m
}

func TestMatchLineAndStation_ExactName(t *testing.T) {
	db := setupTestDB(t)
	line := seedLine(t, db, "ABC", "1", "20")

	num, matched := matchLineAndStation(linesMap(t, db), "ABC12")
	require.NotNil(t, matched)
	assert.Equal(t, line.ID, matched.ID)
	assert.Equal(t, 12, num)
}

func TestMatchLineAndStation_Variants(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "Ridge line", "1", "50")
	seedLine(t, db, "valley", "1", "40")
	seedLine(t, db, "Creek east", "1", "30")

	_, matched := matchLineAndStation(linesMap(t, db), "Ridge7")
	require.NotNil(t, matched, "' line' suffix variant should match")
	assert.Equal(t, "Ridge line", matched.Name)

	_, matched = matchLineAndStation(linesMap(t, db), "Valley3")
	require.NotNil(t, matched, "lowercased variant should match")
	assert.Equal(t, "valley", matched.Name)

	_, matched = matchLineAndStation(linesMap(t, db), "Creek22")
	require.NotNil(t, matched, "directional suffix variant should match")
	assert.Equal(t, "Creek east", matched.Name)
}

func TestMatchLineAndStation_RangeChecked(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	num, matched := matchLineAndStation(linesMap(t, db), "ABC21")
	assert.Nil(t, matched, "station 21 is outside 1-20")
	assert.Equal(t, 0, num)
}

func TestMatchLineAndStation_NoDigits(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	_, matched := matchLineAndStation(linesMap(t, db), "no-number")
	assert.Nil(t, matched)
}

func TestMatchStationType(t *testing.T) {
	cases := map[string]models.StationType{
		"NC fell off its box":       models.StationNovacoilBoxed,
		"black tunnel collapsed":    models.StationNovacoilBoxed,
		"staple rusted through":     models.StationNovacoil,
		"novacoil torn":             models.StationNovacoil,
		"box needs new screws":      models.StationWoodenBox,
		"nothing hardware-specific": models.StationNA,
	}
	for text, want := range cases {
		assert.Equal(t, want, matchStationType(text), "text %q", text)
	}
}

func TestMatchIssueType(t *testing.T) {
	cases := map[string]models.IssueType{
		"rope tied to a dead tree": models.IssueRopeOnDeadTree,
		"rope frayed":              models.IssueNeedsRope,
		"station not found":        models.IssueMissingStation,
		"needs clearing, treefall": models.IssueNeedsClearing,
		"base rotten through":      models.IssueVeryRotten,
		"rusty hoop":               models.IssueRustingHoop,
		"hoop gone":                models.IssueMissingHoop,
		"lid cracked":              models.IssueNeedsNewICC,
		"no idea what this is":     models.IssueComplicated,
	}
	for text, want := range cases {
		assert.Equal(t, want, matchIssueType(text), "text %q", text)
	}
}

const baitoutRow = "ABC12|x|x|JD|05/03/2024|x|rope frayed at the hoop end\n"

func TestImportBaitout_DryRunCreatesNothing(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, baitoutRow)

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "baitout24"})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)

	var count int64
	db.Model(&models.Issue{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestImportBaitout_CommitCreatesIssue(t *testing.T) {
	db := setupTestDB(t)
	line := seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, baitoutRow)

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "baitout24", Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)

	var issue models.Issue
	require.NoError(t, db.First(&issue).Error)
	assert.Equal(t, line.ID, issue.LineID)
	assert.Equal(t, "12", issue.StartStationID)
	assert.Equal(t, models.IssueNeedsRope, issue.IssueType)
	assert.Equal(t, "baitout24", issue.Origin)
	assert.Equal(t, "JD", issue.ReportedBy)
}

func TestImportBaitout_UnknownStationSkipped(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, "ZZZ9|x|x|JD|05/03/2024|x|whatever\n"+baitoutRow)

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "t", Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.RowsSkipped)
}

func TestImportBaitout_ShortRowSkipped(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, "loneField\n"+baitoutRow)

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "t", Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Created)
	assert.Equal(t, 1, stats.RowsSkipped)
}

func TestImportBaitout_BadDateSkipped(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, "ABC12|x|x|JD|2024-03-05|x|rope frayed\n")

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "t", Commit: true})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Created)
	assert.Equal(t, 1, stats.RowsSkipped)
}

func TestImportBaitout_LimitCapsCreation(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "ABC", "1", "20")

	path := writeFile(t, baitoutRow+baitoutRow+baitoutRow)

	stats, err := ImportBaitout(db, path, BaitoutOptions{Tag: "t", Commit: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Created)

	var count int64
	db.Model(&models.Issue{}).Count(&count)
	assert.Equal(t, int64(2), count)
}
