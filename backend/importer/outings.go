// Package importer holds the two one-shot field-report importers: the
// outing sheet importer (tab-delimited, one row per work visit) and the
// baitout issue importer (pipe-delimited, one row per station observation).
// Each run is wrapped in a single transaction; bad rows are logged and
// skipped, only unexpected failures roll the run back.
package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"transect-admin/backend/models"

	"gorm.io/gorm"
)

// outingHeaderLines is the number of preamble lines before data rows in the
// outing sheet export.
const outingHeaderLines = 4

type OutingStats struct {
	OutingsCreated  int
	OutingsExisting int
	MembersCreated  int
	IssuesCreated   int
	RowsSkipped     int
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

// parseCompletionStatus maps the sheet's free-text status vocabulary onto
// the enum. "Tagged" rows were partial passes; anything unrecognized is
// treated as completed, as the sheet left the column blank for full runs.
func parseCompletionStatus(text string) models.CompletionStatus {
	switch text {
	case "Completed":
		return models.StatusCompleted
	case "Partial", "Tagged", "TaggedPart":
		return models.StatusPartial
	default:
		return models.StatusCompleted
	}
}

// classifyNote finds the first issue type whose display label appears in the
// note text. Notes that match nothing are filed as Complicated for a human
// to sort out.
func classifyNote(note string) models.IssueType {
	lower := strings.ToLower(note)
	for _, t := range models.IssueTypes() {
		if strings.Contains(lower, strings.ToLower(t.Label())) {
			return t
		}
	}
	return models.IssueComplicated
}

// ImportOutings reads a tab-delimited outing sheet and creates outings,
// participants and note-derived issues. Re-running on the same file is safe:
// outings are keyed on (date, line).
func ImportOutings(db *gorm.DB, path string) (*OutingStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	br := bufio.NewReader(f)
	for i := 0; i < outingHeaderLines; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("file shorter than %d header lines: %w", outingHeaderLines, err)
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	stats := &OutingStats{}
	membersByInitial := map[string]models.TeamMember{}

	err = db.Transaction(func(tx *gorm.DB) error {
		rowNum := outingHeaderLines
		for {
			rowNum++
			row, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				slog.Warn("unreadable row", "source", "import-outings", "row", rowNum, "error", err.Error())
				stats.RowsSkipped++
				continue
			}
			if len(row) < 2 {
				stats.RowsSkipped++
				continue
			}

			dateStr := field(row, 0)
			lineName := field(row, 1)
			if dateStr == "" || lineName == "" {
				slog.Warn("skipping row: missing date or line name", "source", "import-outings", "row", rowNum)
				stats.RowsSkipped++
				continue
			}

			date, err := time.Parse("2006-01-02", dateStr)
			if err != nil {
				slog.Warn("skipping row: invalid date", "source", "import-outings", "row", rowNum, "date", dateStr)
				stats.RowsSkipped++
				continue
			}

			var line models.Line
			if err := tx.Where("name = ?", lineName).First(&line).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					slog.Warn("skipping row: line not found", "source", "import-outings", "row", rowNum, "line", lineName)
					stats.RowsSkipped++
					continue
				}
				return err
			}

			status := parseCompletionStatus(field(row, 2))
			startStation := field(row, 3)
			endStation := field(row, 4)

			hours := 0.0
			if v := field(row, 5); v != "" {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					hours = parsed
				}
			}
			workers := 1.0
			if v := field(row, 6); v != "" {
				if parsed, err := strconv.ParseFloat(v, 64); err == nil {
					workers = parsed
				}
			}

			notes := field(row, 9)
			var initials []string
			for _, init := range strings.Split(field(row, 10), ",") {
				if init = strings.TrimSpace(init); init != "" {
					initials = append(initials, init)
				}
			}

			if err := importOutingRow(tx, stats, membersByInitial, rowNum, line, date, status, startStation, endStation, hours, workers, notes, initials); err != nil {
				slog.Error("error creating outing", "source", "import-outings", "row", rowNum, "error", err.Error())
				stats.RowsSkipped++
			}
		}
	})
	if err != nil {
		return nil, err
	}

	slog.Info("outing import finished", "source", "import-outings",
		"created", stats.OutingsCreated, "existing", stats.OutingsExisting,
		"issues", stats.IssuesCreated, "members", stats.MembersCreated,
		"skipped", stats.RowsSkipped)
	return stats, nil
}

func importOutingRow(tx *gorm.DB, stats *OutingStats, membersByInitial map[string]models.TeamMember,
	rowNum int, line models.Line, date time.Time, status models.CompletionStatus,
	startStation, endStation string, hours, workers float64, notes string, initials []string) error {

	var outing models.Outing
	err := tx.Where("date = ? AND line_id = ?", date, line.ID).First(&outing).Error
	created := false
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		outing = models.Outing{
			Date:             date,
			CompletionStatus: status,
			StartStationID:   startStation,
			EndStationID:     endStation,
			Hours:            hours,
			NumberOfWorkers:  workers,
			LineID:           line.ID,
		}
		if err := tx.Create(&outing).Error; err != nil {
			return err
		}
		created = true
		stats.OutingsCreated++
		slog.Info("created outing", "source", "import-outings", "row", rowNum, "line", line.Name, "date", date.Format("2006-01-02"))
	case err != nil:
		return err
	default:
		stats.OutingsExisting++
		slog.Warn("outing already exists", "source", "import-outings", "row", rowNum, "line", line.Name, "date", date.Format("2006-01-02"))
	}

	for _, initial := range initials {
		member, ok := membersByInitial[initial]
		if !ok {
			err := tx.Where("name = ?", initial).First(&member).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				member = models.TeamMember{Name: initial, Available: true}
				if err := tx.Create(&member).Error; err != nil {
					return err
				}
				stats.MembersCreated++
				slog.Info("created team member", "source", "import-outings", "name", initial)
			} else if err != nil {
				return err
			}
			membersByInitial[initial] = member
		}
		if err := tx.Model(&outing).Association("Participants").Append(&member); err != nil {
			return err
		}
	}

	// One issue per outing when the sheet carried a note, but only on first
	// import so re-runs do not duplicate it.
	if notes != "" && created {
		issue := models.Issue{
			StartStationID: startStation,
			EndStationID:   endStation,
			IssueType:      classifyNote(notes),
			StationType:    models.StationNovacoil,
			Description:    notes,
			LineID:         line.ID,
			OutingID:       &outing.ID,
		}
		if err := tx.Create(&issue).Error; err != nil {
			return err
		}
		stats.IssuesCreated++
		slog.Info("created issue from note", "source", "import-outings", "row", rowNum, "line", line.Name)
	}

	return nil
}
