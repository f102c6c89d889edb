package handlers

import (
	"net/http"

	"transect-admin/backend/database"
	"transect-admin/backend/models"
)

type LogsResponse struct {
	Logs    []models.LogEntry `json:"logs"`
	Total   int64             `json:"total"`
	Page    int               `json:"page"`
	PerPage int               `json:"per_page"`
}

func GetLogs(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.LogEntry{}).Order("created_at DESC")

	if level := r.URL.Query().Get("level"); level != "" {
		q = q.Where("level = ?", level)
	}
	if source := r.URL.Query().Get("source"); source != "" {
		q = q.Where("source = ?", source)
	}
	if username := r.URL.Query().Get("username"); username != "" {
		q = q.Where("username = ?", username)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		q = q.Where("message LIKE ? OR data LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var logs []models.LogEntry
	q.Offset((page - 1) * perPage).Limit(perPage).Find(&logs)

	writeJSON(w, http.StatusOK, LogsResponse{
		Logs:    logs,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func GetLogSources(w http.ResponseWriter, r *http.Request) {
	var sources []string
	database.DB.Model(&models.LogEntry{}).Distinct("source").Where("source != ''").Pluck("source", &sources)
	writeJSON(w, http.StatusOK, sources)
}
