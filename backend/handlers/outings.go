package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"transect-admin/backend/database"
	"transect-admin/backend/models"

	"gorm.io/gorm"
)

type OutingsResponse struct {
	Outings []models.Outing `json:"outings"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

func ListOutings(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.Outing{}).Order("date DESC")

	if lineID := r.URL.Query().Get("line_id"); lineID != "" {
		q = q.Where("line_id = ?", lineID)
	}
	if status := r.URL.Query().Get("completion_status"); status != "" {
		q = q.Where("completion_status = ?", status)
	}
	if date := r.URL.Query().Get("date"); date != "" {
		q = q.Where("date = ?", date)
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var outings []models.Outing
	q.Preload("Line").Preload("Participants").
		Offset((page - 1) * perPage).Limit(perPage).Find(&outings)

	writeJSON(w, http.StatusOK, OutingsResponse{
		Outings: outings,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func GetOuting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid outing id")
		return
	}

	var outing models.Outing
	err := database.DB.Preload("Line").Preload("Participants").Preload("Issues").
		First(&outing, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Outing not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load outing")
		return
	}

	writeJSON(w, http.StatusOK, outing)
}

type outingRequest struct {
	Date             string                  `json:"date"` // 2006-01-02
	Hours            float64                 `json:"hours"`
	NumberOfWorkers  *float64                `json:"number_of_workers"`
	CompletionStatus models.CompletionStatus `json:"completion_status"`
	StartStationID   string                  `json:"start_station_id"`
	EndStationID     string                  `json:"end_station_id"`
	LineID           uint                    `json:"line_id"`
	ParticipantIDs   []uint                  `json:"participant_ids"`
}

func (req *outingRequest) parse() (time.Time, string) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return time.Time{}, "Invalid date, expected YYYY-MM-DD"
	}
	if req.CompletionStatus == "" {
		req.CompletionStatus = models.StatusCompleted
	}
	if !req.CompletionStatus.Valid() {
		return time.Time{}, "Invalid completion status"
	}
	if req.Hours < 0 {
		return time.Time{}, "Hours must not be negative"
	}
	if req.NumberOfWorkers != nil && *req.NumberOfWorkers < 0 {
		return time.Time{}, "Number of workers must not be negative"
	}
	return date, ""
}

func loadParticipants(tx *gorm.DB, ids []uint) ([]models.TeamMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var members []models.TeamMember
	if err := tx.Find(&members, ids).Error; err != nil {
		return nil, err
	}
	if len(members) != len(ids) {
		return nil, gorm.ErrRecordNotFound
	}
	return members, nil
}

func CreateOuting(w http.ResponseWriter, r *http.Request) {
	var req outingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var line models.Line
	if err := database.DB.First(&line, req.LineID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "Unknown line")
		return
	}

	workers := 1.0
	if req.NumberOfWorkers != nil {
		workers = *req.NumberOfWorkers
	}

	outing := models.Outing{
		Date:             date,
		Hours:            req.Hours,
		NumberOfWorkers:  workers,
		CompletionStatus: req.CompletionStatus,
		StartStationID:   req.StartStationID,
		EndStationID:     req.EndStationID,
		LineID:           line.ID,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&outing).Error; err != nil {
			return err
		}
		members, err := loadParticipants(tx, req.ParticipantIDs)
		if err != nil {
			return err
		}
		if len(members) > 0 {
			return tx.Model(&outing).Association("Participants").Append(&members)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to create outing", "source", "outings", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create outing")
		return
	}

	slog.Info("outing created", "source", "outings", "outing_id", outing.ID, "line_id", line.ID)
	writeJSON(w, http.StatusCreated, outing)
}

func UpdateOuting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid outing id")
		return
	}

	var outing models.Outing
	if err := database.DB.First(&outing, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Outing not found")
		return
	}

	var req outingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	date, msg := req.parse()
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.LineID != 0 && req.LineID != outing.LineID {
		var line models.Line
		if err := database.DB.First(&line, req.LineID).Error; err != nil {
			writeError(w, http.StatusBadRequest, "Unknown line")
			return
		}
		outing.LineID = line.ID
	}

	outing.Date = date
	outing.Hours = req.Hours
	if req.NumberOfWorkers != nil {
		outing.NumberOfWorkers = *req.NumberOfWorkers
	}
	outing.CompletionStatus = req.CompletionStatus
	outing.StartStationID = req.StartStationID
	outing.EndStationID = req.EndStationID

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&outing).Error; err != nil {
			return err
		}
		if req.ParticipantIDs == nil {
			return nil
		}
		members, err := loadParticipants(tx, req.ParticipantIDs)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return tx.Model(&outing).Association("Participants").Clear()
		}
		return tx.Model(&outing).Association("Participants").Replace(&members)
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update outing")
		return
	}

	writeJSON(w, http.StatusOK, outing)
}

// DeleteOuting removes the outing, its participant links and its issues.
func DeleteOuting(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid outing id")
		return
	}

	var outing models.Outing
	if err := database.DB.First(&outing, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Outing not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("outing_id = ?", outing.ID).Delete(&models.Issue{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM outing_participants WHERE outing_id = ?", outing.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&outing).Error
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete outing")
		return
	}

	slog.Info("outing deleted", "source", "outings", "outing_id", outing.ID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
