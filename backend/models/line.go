package models

import "time"

// Line is a named trapping transect with a station-id range.
type Line struct {
	ID             uint     `json:"id" gorm:"primaryKey"`
	Name           string   `json:"name" gorm:"index"`
	LineType       LineType `json:"line_type" gorm:"size:20"`
	StartStationID string   `json:"start_station_id" gorm:"size:5"`
	EndStationID   string   `json:"end_station_id" gorm:"size:5"`

	Outings []Outing `json:"outings,omitempty" gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
	Issues  []Issue  `json:"issues,omitempty" gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

// TeamMember is a volunteer who can participate in outings. Unavailable
// members sort after available ones in listings, matching the roster view.
type TeamMember struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"size:15;uniqueIndex"`
	Available bool   `json:"available"`
}

// Outing is one work visit to a line on a given date. The station sub-range
// is the stretch actually worked and may cover only part of the line; it is
// not validated against the line's own range.
type Outing struct {
	ID               uint             `json:"id" gorm:"primaryKey"`
	Date             time.Time        `json:"date" gorm:"index"`
	Hours            float64          `json:"hours"`
	NumberOfWorkers  float64          `json:"number_of_workers" gorm:"default:1"`
	CompletionStatus CompletionStatus `json:"completion_status" gorm:"size:20;default:Completed"`
	StartStationID   string           `json:"start_station_id" gorm:"size:5"`
	EndStationID     string           `json:"end_station_id" gorm:"size:5"`
	LineID           uint             `json:"line_id" gorm:"index"`
	Line             *Line            `json:"line,omitempty" gorm:"foreignKey:LineID"`

	Participants []TeamMember `json:"participants,omitempty" gorm:"many2many:outing_participants"`
	Issues       []Issue      `json:"issues,omitempty" gorm:"foreignKey:OutingID;constraint:OnDelete:CASCADE"`
}

// Issue is a recorded defect or observation at a station. The line link is
// required; the outing link is set only when the issue was found during a
// known outing.
type Issue struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	IssueStatus    IssueStatus `json:"issue_status" gorm:"size:20;default:NeedsWork"`
	LineID         uint        `json:"line_id" gorm:"index"`
	Line           *Line       `json:"line,omitempty" gorm:"foreignKey:LineID"`
	OutingID       *uint       `json:"outing_id,omitempty" gorm:"index"`
	StartStationID string      `json:"start_station_id" gorm:"size:5"`
	EndStationID   string      `json:"end_station_id" gorm:"size:5"`
	StationType    StationType `json:"station_type" gorm:"size:20;default:NA"`
	IssueType      IssueType   `json:"issue_type" gorm:"size:20"`
	Origin         string      `json:"origin,omitempty" gorm:"size:15"`
	ReportedBy     string      `json:"reported_by,omitempty" gorm:"size:10"`
	Description    string      `json:"description,omitempty"`
	Photo          string      `json:"photo,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Audit is one authentication event. Rows are append-only: the API exposes
// no update or delete for them.
type Audit struct {
	ID       uint        `json:"id" gorm:"primaryKey"`
	Action   AuditAction `json:"action" gorm:"size:20;index"`
	IP       string      `json:"ip"`
	Username string      `json:"username" gorm:"size:256;index"`
	When     time.Time   `json:"when" gorm:"autoCreateTime;index"`
}
