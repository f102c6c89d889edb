package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"transect-admin/backend/config"
	"transect-admin/backend/database"
	"transect-admin/backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IssuesResponse struct {
	Issues  []models.Issue `json:"issues"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

func ListIssues(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.Issue{}).Order("created_at DESC")

	if status := r.URL.Query().Get("issue_status"); status != "" {
		q = q.Where("issue_status = ?", status)
	}
	if it := r.URL.Query().Get("issue_type"); it != "" {
		q = q.Where("issue_type = ?", it)
	}
	if st := r.URL.Query().Get("station_type"); st != "" {
		q = q.Where("station_type = ?", st)
	}
	if lineID := r.URL.Query().Get("line_id"); lineID != "" {
		q = q.Where("line_id = ?", lineID)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("start_station_id LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var issues []models.Issue
	q.Preload("Line").Offset((page - 1) * perPage).Limit(perPage).Find(&issues)

	writeJSON(w, http.StatusOK, IssuesResponse{
		Issues:  issues,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func GetIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid issue id")
		return
	}

	var issue models.Issue
	if err := database.DB.Preload("Line").First(&issue, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "Issue not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to load issue")
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

type issueRequest struct {
	IssueStatus    models.IssueStatus `json:"issue_status"`
	LineID         uint               `json:"line_id"`
	OutingID       *uint              `json:"outing_id"`
	StartStationID string             `json:"start_station_id"`
	EndStationID   string             `json:"end_station_id"`
	StationType    models.StationType `json:"station_type"`
	IssueType      models.IssueType   `json:"issue_type"`
	Origin         string             `json:"origin"`
	ReportedBy     string             `json:"reported_by"`
	Description    string             `json:"description"`
}

func (req *issueRequest) validate() string {
	if req.IssueStatus == "" {
		req.IssueStatus = models.IssueNeedsWork
	}
	if !req.IssueStatus.Valid() {
		return "Invalid issue status"
	}
	if req.StationType == "" {
		req.StationType = models.StationNA
	}
	if !req.StationType.Valid() {
		return "Invalid station type"
	}
	if !req.IssueType.Valid() {
		return "Invalid issue type"
	}
	if req.StartStationID == "" {
		return "Start station id is required"
	}
	return ""
}

func CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	var line models.Line
	if err := database.DB.First(&line, req.LineID).Error; err != nil {
		writeError(w, http.StatusBadRequest, "Unknown line")
		return
	}
	if req.OutingID != nil {
		var outing models.Outing
		if err := database.DB.First(&outing, *req.OutingID).Error; err != nil {
			writeError(w, http.StatusBadRequest, "Unknown outing")
			return
		}
	}

	issue := models.Issue{
		IssueStatus:    req.IssueStatus,
		LineID:         line.ID,
		OutingID:       req.OutingID,
		StartStationID: req.StartStationID,
		EndStationID:   req.EndStationID,
		StationType:    req.StationType,
		IssueType:      req.IssueType,
		Origin:         req.Origin,
		ReportedBy:     req.ReportedBy,
		Description:    req.Description,
	}
	if err := database.DB.Create(&issue).Error; err != nil {
		slog.Error("failed to create issue", "source", "issues", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create issue")
		return
	}

	slog.Info("issue created", "source", "issues", "issue_id", issue.ID, "line_id", line.ID)
	writeJSON(w, http.StatusCreated, issue)
}

func UpdateIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid issue id")
		return
	}

	var issue models.Issue
	if err := database.DB.First(&issue, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if req.LineID != 0 && req.LineID != issue.LineID {
		var line models.Line
		if err := database.DB.First(&line, req.LineID).Error; err != nil {
			writeError(w, http.StatusBadRequest, "Unknown line")
			return
		}
		issue.LineID = line.ID
	}

	issue.IssueStatus = req.IssueStatus
	issue.OutingID = req.OutingID
	issue.StartStationID = req.StartStationID
	issue.EndStationID = req.EndStationID
	issue.StationType = req.StationType
	issue.IssueType = req.IssueType
	issue.Origin = req.Origin
	issue.ReportedBy = req.ReportedBy
	issue.Description = req.Description

	if err := database.DB.Save(&issue).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	writeJSON(w, http.StatusOK, issue)
}

func DeleteIssue(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid issue id")
		return
	}

	var issue models.Issue
	if err := database.DB.First(&issue, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	if err := database.DB.Delete(&issue).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete issue")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// UploadIssuePhoto stores a photo for the issue under a random filename in
// the media directory and records the filename on the issue.
func UploadIssuePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid issue id")
		return
	}

	var issue models.Issue
	if err := database.DB.First(&issue, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Issue not found")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing photo file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		writeError(w, http.StatusBadRequest, "Unsupported photo format")
		return
	}

	if err := os.MkdirAll(config.C.MediaDir, 0o755); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(config.C.MediaDir, name))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	issue.Photo = name
	if err := database.DB.Save(&issue).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update issue")
		return
	}

	slog.Info("issue photo uploaded", "source", "issues", "issue_id", issue.ID, "photo", name)
	writeJSON(w, http.StatusOK, issue)
}
