package handlers

import (
	"net/http"

	"transect-admin/backend/database"
	"transect-admin/backend/models"
)

type AuditsResponse struct {
	Audits  []models.Audit `json:"audits"`
	Total   int64          `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// ListAudits lists authentication events, newest first. Audit rows are
// append-only; there is deliberately no create, update or delete route.
func ListAudits(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.Audit{}).Order("`when` DESC")

	if action := r.URL.Query().Get("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if username := r.URL.Query().Get("username"); username != "" {
		q = q.Where("username = ?", username)
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var audits []models.Audit
	q.Offset((page - 1) * perPage).Limit(perPage).Find(&audits)

	writeJSON(w, http.StatusOK, AuditsResponse{
		Audits:  audits,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}
