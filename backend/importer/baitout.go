package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"transect-admin/backend/models"

	"gorm.io/gorm"
)

type BaitoutOptions struct {
	// Tag is stored as the origin of every created issue.
	Tag string
	// Commit writes rows; otherwise the run is a dry run that only logs.
	Commit bool
	// Limit caps the number of created (or printed) rows; 0 means no cap.
	Limit int
}

type BaitoutStats struct {
	Created     int
	RowsSkipped int
}

var stationNameRe = regexp.MustCompile(`^(.*?)([0-9]+)$`)

var stationTypePatterns = []struct {
	stationType models.StationType
	re          *regexp.Regexp
}{
	{models.StationNovacoilBoxed, regexp.MustCompile(`NC.+box|box.+NC|black tunnel`)},
	{models.StationNovacoil, regexp.MustCompile(`NC|staple|[nN]ovacoil`)},
	{models.StationWoodenBox, regexp.MustCompile(`box|screws`)},
}

var issueTypePatterns = []struct {
	issueType models.IssueType
	re        *regexp.Regexp
}{
	{models.IssueRopeOnDeadTree, regexp.MustCompile(`rope.+(dead|rott|tree)`)},
	{models.IssueNeedsRope, regexp.MustCompile(`rope`)},
	{models.IssueMissingStation, regexp.MustCompile(`not found`)},
	{models.IssueNeedsClearing, regexp.MustCompile(`clear|mark|treefall|tree fall`)},
	{models.IssueVeryRotten, regexp.MustCompile(`rott`)},
	{models.IssueRustingHoop, regexp.MustCompile(`rust`)},
	{models.IssueMissingHoop, regexp.MustCompile(`hoop`)},
	{models.IssueNeedsNewICC, regexp.MustCompile(`IC|lid`)},
}

// matchStationType classifies free text into a station type; first pattern
// wins, unknown hardware is N/A.
func matchStationType(text string) models.StationType {
	for _, p := range stationTypePatterns {
		if p.re.MatchString(text) {
			return p.stationType
		}
	}
	return models.StationNA
}

// matchIssueType classifies free text into an issue type; first pattern
// wins, anything unmatched is Complicated.
func matchIssueType(text string) models.IssueType {
	for _, p := range issueTypePatterns {
		if p.re.MatchString(text) {
			return p.issueType
		}
	}
	return models.IssueComplicated
}

// matchLineAndStation splits the trailing digits off a station name like
// "ABC12" and looks for a line whose name matches one of the base-name
// variants (exact, lowercased, with a " line" suffix, each optionally with a
// directional " east"/" west" suffix) and whose station range contains the
// number. Returns (0, nil) when nothing matches.
func matchLineAndStation(linesByName map[string]*models.Line, stationName string) (int, *models.Line) {
	m := stationNameRe.FindStringSubmatch(stationName)
	if m == nil {
		return 0, nil
	}
	baseName := strings.TrimSpace(m[1])
	stationNumber, err := strconv.Atoi(strings.TrimSpace(m[2]))
	if err != nil {
		return 0, nil
	}

	for _, name := range []string{baseName, strings.ToLower(baseName), baseName + " line"} {
		for _, suffix := range []string{"", " east", " west"} {
			line, ok := linesByName[name+suffix]
			if !ok {
				continue
			}
			start, err1 := strconv.Atoi(line.StartStationID)
			end, err2 := strconv.Atoi(line.EndStationID)
			if err1 != nil || err2 != nil {
				continue
			}
			if start <= stationNumber && stationNumber <= end {
				return stationNumber, line
			}
		}
	}
	return 0, nil
}

// ImportBaitout reads a pipe-delimited baitout report and creates one issue
// per resolvable row. Dry runs log what would be created without writing.
func ImportBaitout(db *gorm.DB, path string, opts BaitoutOptions) (*BaitoutStats, error) {
	if opts.Commit {
		slog.Info("committing data", "source", "import-baitout", "tag", opts.Tag)
	} else {
		slog.Info("dry run only, rerun with --commit to commit data", "source", "import-baitout", "tag", opts.Tag)
	}
	if opts.Limit > 0 {
		slog.Info("limited run", "source", "import-baitout", "limit", opts.Limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = '|'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	stats := &BaitoutStats{}

	err = db.Transaction(func(tx *gorm.DB) error {
		var lines []models.Line
		if err := tx.Find(&lines).Error; err != nil {
			return err
		}
		linesByName := make(map[string]*models.Line, len(lines))
		for i := range lines {
			linesByName[lines[i].Name] = &lines[i]
		}

		for rowNum := 0; ; rowNum++ {
			if opts.Limit > 0 && stats.Created >= opts.Limit {
				return nil
			}
			row, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				slog.Warn("unreadable row", "source", "import-baitout", "row", rowNum, "error", err.Error())
				stats.RowsSkipped++
				continue
			}
			if len(row) < 2 {
				slog.Warn("skipped short row", "source", "import-baitout", "row", rowNum, "fields", len(row))
				stats.RowsSkipped++
				continue
			}

			stationName := strings.TrimSpace(row[0])
			stationNumber, line := matchLineAndStation(linesByName, stationName)
			if line == nil {
				slog.Error("failed to identify line", "source", "import-baitout", "row", rowNum, "station", stationName)
				stats.RowsSkipped++
				continue
			}

			if err := importBaitoutRow(tx, stats, opts, rowNum, stationNumber, line, row); err != nil {
				slog.Error("error creating issue", "source", "import-baitout", "row", rowNum, "error", err.Error())
				stats.RowsSkipped++
			}
		}
	})
	if err != nil {
		return nil, err
	}

	slog.Info("baitout import finished", "source", "import-baitout",
		"created", stats.Created, "skipped", stats.RowsSkipped, "commit", opts.Commit)
	return stats, nil
}

func importBaitoutRow(tx *gorm.DB, stats *BaitoutStats, opts BaitoutOptions,
	rowNum, stationNumber int, line *models.Line, row []string) error {

	person := field(row, 3)
	date, err := time.Parse("02/01/2006", field(row, 4))
	if err != nil {
		return fmt.Errorf("invalid date %q", field(row, 4))
	}
	issueText := ""
	if len(row) > 6 {
		issueText = row[6]
	}
	issueType := matchIssueType(issueText)
	stationType := matchStationType(issueText)

	if opts.Commit {
		issue := models.Issue{
			StartStationID: strconv.Itoa(stationNumber),
			StationType:    stationType,
			IssueType:      issueType,
			Description:    issueText,
			LineID:         line.ID,
			Origin:         opts.Tag,
			ReportedBy:     person,
		}
		if err := tx.Create(&issue).Error; err != nil {
			return err
		}
		slog.Info("created issue", "source", "import-baitout", "row", rowNum,
			"line", line.Name, "date", date.Format("2006-01-02"))
	} else {
		slog.Info("would create issue", "source", "import-baitout",
			"line", line.Name, "station", stationNumber,
			"station_type", string(stationType), "issue_type", string(issueType),
			"tag", opts.Tag, "person", person, "text", issueText)
	}
	stats.Created++
	return nil
}
