package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"transect-admin/backend/database"
	"transect-admin/backend/models"

	"gorm.io/gorm"
)

// LineSummary is one row of the line listing: the line plus the counts the
// change-list shows.
type LineSummary struct {
	models.Line
	OutingCount          int64 `json:"outing_count"`
	CompletedOutingCount int64 `json:"completed_outing_count"`
	IssueCount           int64 `json:"issue_count"`
}

type LinesResponse struct {
	Lines   []LineSummary `json:"lines"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

func ListLines(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.Line{}).Order("name ASC")

	if lt := r.URL.Query().Get("line_type"); lt != "" {
		q = q.Where("line_type = ?", lt)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR start_station_id LIKE ? OR end_station_id LIKE ?", like, like, like)
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var lines []models.Line
	q.Offset((page - 1) * perPage).Limit(perPage).Find(&lines)

	summaries := make([]LineSummary, 0, len(lines))
	for _, line := range lines {
		s := LineSummary{Line: line}
		database.DB.Model(&models.Outing{}).Where("line_id = ?", line.ID).Count(&s.OutingCount)
		database.DB.Model(&models.Outing{}).
			Where("line_id = ? AND completion_status = ?", line.ID, models.StatusCompleted).
			Count(&s.CompletedOutingCount)
		database.DB.Model(&models.Issue{}).Where("line_id = ?", line.ID).Count(&s.IssueCount)
		summaries = append(summaries, s)
	}

	writeJSON(w, http.StatusOK, LinesResponse{
		Lines:   summaries,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

// GetLine returns the line with its outings and issues inlined, newest
// outings first.
func GetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	var line models.Line
	err := database.DB.
		Preload("Outings", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Outings.Participants").
		Preload("Issues").
		First(&line, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Line not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load line")
		return
	}

	writeJSON(w, http.StatusOK, line)
}

type lineRequest struct {
	Name           string          `json:"name"`
	LineType       models.LineType `json:"line_type"`
	StartStationID string          `json:"start_station_id"`
	EndStationID   string          `json:"end_station_id"`
}

func (req *lineRequest) validate() string {
	if req.Name == "" {
		return "Name is required"
	}
	if !req.LineType.Valid() {
		return "Invalid line type"
	}
	return ""
}

func CreateLine(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	line := models.Line{
		Name:           req.Name,
		LineType:       req.LineType,
		StartStationID: req.StartStationID,
		EndStationID:   req.EndStationID,
	}
	if err := database.DB.Create(&line).Error; err != nil {
		slog.Error("failed to create line", "source", "lines", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create line")
		return
	}

	slog.Info("line created", "source", "lines", "line_id", line.ID, "name", line.Name)
	writeJSON(w, http.StatusCreated, line)
}

func UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	var line models.Line
	if err := database.DB.First(&line, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Line not found")
		return
	}

	var req lineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	line.Name = req.Name
	line.LineType = req.LineType
	line.StartStationID = req.StartStationID
	line.EndStationID = req.EndStationID
	if err := database.DB.Save(&line).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update line")
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// DeleteLine removes the line and cascades to its outings (including their
// participant links) and issues.
func DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid line id")
		return
	}

	var line models.Line
	if err := database.DB.First(&line, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Line not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_id = ?", line.ID).Delete(&models.Issue{}).Error; err != nil {
			return err
		}
		var outingIDs []uint
		if err := tx.Model(&models.Outing{}).Where("line_id = ?", line.ID).Pluck("id", &outingIDs).Error; err != nil {
			return err
		}
		if len(outingIDs) > 0 {
			if err := tx.Exec("DELETE FROM outing_participants WHERE outing_id IN ?", outingIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("line_id = ?", line.ID).Delete(&models.Outing{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&line).Error
	})
	if err != nil {
		slog.Error("failed to delete line", "source", "lines", "line_id", line.ID, "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to delete line")
		return
	}

	slog.Info("line deleted", "source", "lines", "line_id", line.ID, "name", line.Name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
