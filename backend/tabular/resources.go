package tabular

import (
	"fmt"
	"strconv"

	"transect-admin/backend/models"

	"gorm.io/gorm"
)

// LineResource exports lines and upserts them by name on import.
type LineResource struct{}

func (LineResource) Name() string { return "lines" }

func (LineResource) Headers() []string {
	return []string{"Name", "Type", "Start Station", "End Station"}
}

func (LineResource) Rows(db *gorm.DB) ([][]string, error) {
	var lines []models.Line
	if err := db.Order("name ASC").Find(&lines).Error; err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{l.Name, string(l.LineType), l.StartStationID, l.EndStationID})
	}
	return rows, nil
}

func (LineResource) ImportRow(db *gorm.DB, record []string) error {
	if len(record) < 4 {
		return fmt.Errorf("expected 4 fields, got %d", len(record))
	}
	name := record[0]
	if name == "" {
		return fmt.Errorf("empty line name")
	}
	lineType := models.LineType(record[1])
	if !lineType.Valid() {
		return fmt.Errorf("invalid line type %q", record[1])
	}

	var line models.Line
	err := db.Where("name = ?", name).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		line = models.Line{Name: name}
	} else if err != nil {
		return err
	}
	line.LineType = lineType
	line.StartStationID = record[2]
	line.EndStationID = record[3]
	return db.Save(&line).Error
}

// TeamMemberResource exports members and upserts them by name on import.
type TeamMemberResource struct{}

func (TeamMemberResource) Name() string { return "team-members" }

func (TeamMemberResource) Headers() []string {
	return []string{"Name", "Available"}
}

func (TeamMemberResource) Rows(db *gorm.DB) ([][]string, error) {
	var members []models.TeamMember
	if err := db.Order("available DESC, name ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{m.Name, strconv.FormatBool(m.Available)})
	}
	return rows, nil
}

func (TeamMemberResource) ImportRow(db *gorm.DB, record []string) error {
	if len(record) < 1 || record[0] == "" {
		return fmt.Errorf("empty member name")
	}
	available := true
	if len(record) > 1 && record[1] != "" {
		v, err := strconv.ParseBool(record[1])
		if err != nil {
			return fmt.Errorf("invalid available flag %q", record[1])
		}
		available = v
	}

	var member models.TeamMember
	err := db.Where("name = ?", record[0]).First(&member).Error
	if err == gorm.ErrRecordNotFound {
		member = models.TeamMember{Name: record[0]}
	} else if err != nil {
		return err
	}
	member.Available = available
	return db.Save(&member).Error
}

// OutingResource exports outings as a flat denormalized table.
type OutingResource struct{}

func (OutingResource) Name() string { return "outings" }

func (OutingResource) Headers() []string {
	return []string{"Date", "Line", "Status", "Start Station", "End Station", "Hours", "Workers", "Participants"}
}

func (OutingResource) Rows(db *gorm.DB) ([][]string, error) {
	var outings []models.Outing
	if err := db.Preload("Line").Preload("Participants").Order("date ASC").Find(&outings).Error; err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(outings))
	for _, o := range outings {
		lineName := ""
		if o.Line != nil {
			lineName = o.Line.Name
		}
		participants := ""
		for i, p := range o.Participants {
			if i > 0 {
				participants += ","
			}
			participants += p.Name
		}
		rows = append(rows, []string{
			o.Date.Format("2006-01-02"),
			lineName,
			string(o.CompletionStatus),
			o.StartStationID,
			o.EndStationID,
			strconv.FormatFloat(o.Hours, 'f', -1, 64),
			strconv.FormatFloat(o.NumberOfWorkers, 'f', -1, 64),
			participants,
		})
	}
	return rows, nil
}

// IssueResource exports issues as a flat denormalized table.
type IssueResource struct{}

func (IssueResource) Name() string { return "issues" }

func (IssueResource) Headers() []string {
	return []string{"Line", "Status", "Start Station", "End Station", "Station Type", "Issue Type", "Origin", "Reported By", "Description", "Created"}
}

func (IssueResource) Rows(db *gorm.DB) ([][]string, error) {
	var issues []models.Issue
	if err := db.Preload("Line").Order("created_at ASC").Find(&issues).Error; err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		lineName := ""
		if is.Line != nil {
			lineName = is.Line.Name
		}
		rows = append(rows, []string{
			lineName,
			is.IssueStatus.Label(),
			is.StartStationID,
			is.EndStationID,
			is.StationType.Label(),
			is.IssueType.Label(),
			is.Origin,
			is.ReportedBy,
			is.Description,
			is.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}

// AuditResource exports the authentication log. Audits are append-only, so
// there is no import side.
type AuditResource struct{}

func (AuditResource) Name() string { return "audits" }

func (AuditResource) Headers() []string {
	return []string{"Action", "Username", "IP", "When"}
}

func (AuditResource) Rows(db *gorm.DB) ([][]string, error) {
	var audits []models.Audit
	if err := db.Order("`when` ASC").Find(&audits).Error; err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(audits))
	for _, a := range audits {
		rows = append(rows, []string{
			string(a.Action),
			a.Username,
			a.IP,
			a.When.Format("2006-01-02 15:04:05"),
		})
	}
	return rows, nil
}
