// Package report computes the per-line completion report: how recently and
// how often each line was fully or partially worked, and how many of its
// issues remain unresolved. The report is recomputed from the database on
// every call; nothing is cached.
package report

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"transect-admin/backend/models"

	"gorm.io/gorm"
)

// Row is one line's aggregate. Last* are nil when the line has no outing
// with that status.
type Row struct {
	LineID                uint            `json:"line_id"`
	LineName              string          `json:"line_name"`
	LineType              models.LineType `json:"line_type"`
	LastCompleted         *time.Time      `json:"last_completed"`
	CompletedCount        int             `json:"completed_count"`
	LastPartial           *time.Time      `json:"last_partial"`
	PartialCount          int             `json:"partial_count"`
	IssuesCount           int             `json:"issues_count"`
	IssuesUnresolvedCount int             `json:"issues_unresolved_count"`
}

// CSVHeaders is the fixed column set of the exported report.
var CSVHeaders = []string{
	"Line Name", "Type", "Last Completed", "Last Partial",
	"Completed Count", "Partial Count", "Unresolved Issues", "Total Issues",
}

// Build aggregates outings and issues per line. Natural order is line name
// ascending, the same ordering the line listing uses.
func Build(db *gorm.DB) ([]Row, error) {
	var lines []models.Line
	if err := db.Order("name ASC").Find(&lines).Error; err != nil {
		return nil, err
	}

	var outings []models.Outing
	if err := db.Find(&outings).Error; err != nil {
		return nil, err
	}
	var issues []models.Issue
	if err := db.Find(&issues).Error; err != nil {
		return nil, err
	}

	byLine := make(map[uint]*Row, len(lines))
	rows := make([]Row, len(lines))
	for i, line := range lines {
		rows[i] = Row{LineID: line.ID, LineName: line.Name, LineType: line.LineType}
		byLine[line.ID] = &rows[i]
	}

	for _, o := range outings {
		row, ok := byLine[o.LineID]
		if !ok {
			continue
		}
		date := o.Date
		switch o.CompletionStatus {
		case models.StatusCompleted:
			row.CompletedCount++
			if row.LastCompleted == nil || date.After(*row.LastCompleted) {
				d := date
				row.LastCompleted = &d
			}
		case models.StatusPartial:
			row.PartialCount++
			if row.LastPartial == nil || date.After(*row.LastPartial) {
				d := date
				row.LastPartial = &d
			}
		}
	}

	for _, is := range issues {
		row, ok := byLine[is.LineID]
		if !ok {
			continue
		}
		row.IssuesCount++
		if !is.IssueStatus.Resolved() {
			row.IssuesUnresolvedCount++
		}
	}

	return rows, nil
}

// Sort orders rows by the given field, descending when order is "desc". An
// unrecognized field leaves the natural order untouched.
func Sort(rows []Row, field, order string) {
	var less func(a, b *Row) bool
	switch field {
	case "last_completed":
		less = func(a, b *Row) bool { return dateOrMin(a.LastCompleted).Before(dateOrMin(b.LastCompleted)) }
	case "last_partial":
		less = func(a, b *Row) bool { return dateOrMin(a.LastPartial).Before(dateOrMin(b.LastPartial)) }
	case "completed_count":
		less = func(a, b *Row) bool { return a.CompletedCount < b.CompletedCount }
	case "partial_count":
		less = func(a, b *Row) bool { return a.PartialCount < b.PartialCount }
	case "line_name":
		less = func(a, b *Row) bool { return a.LineName < b.LineName }
	case "issues_count":
		less = func(a, b *Row) bool { return a.IssuesCount < b.IssuesCount }
	case "issues_unresolved_count":
		less = func(a, b *Row) bool { return a.IssuesUnresolvedCount < b.IssuesUnresolvedCount }
	default:
		return
	}

	desc := order == "desc"
	sort.SliceStable(rows, func(i, j int) bool {
		if desc {
			return less(&rows[j], &rows[i])
		}
		return less(&rows[i], &rows[j])
	})
}

func dateOrMin(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format("2006-01-02")
}

// WriteCSV writes the report with its fixed headers, one row per line, in
// the order given.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeaders); err != nil {
		return err
	}
	for i := range rows {
		row := &rows[i]
		record := []string{
			row.LineName,
			row.LineType.Label(),
			formatDate(row.LastCompleted),
			formatDate(row.LastPartial),
			strconv.Itoa(row.CompletedCount),
			strconv.Itoa(row.PartialCount),
			strconv.Itoa(row.IssuesUnresolvedCount),
			strconv.Itoa(row.IssuesCount),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
