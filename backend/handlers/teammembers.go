package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"transect-admin/backend/database"
	"transect-admin/backend/models"
)

type TeamMembersResponse struct {
	Members []models.TeamMember `json:"members"`
	Total   int64               `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// ListTeamMembers sorts available members first, then by name, matching the
// roster ordering.
func ListTeamMembers(w http.ResponseWriter, r *http.Request) {
	q := database.DB.Model(&models.TeamMember{}).Order("available DESC, name ASC")

	if search := r.URL.Query().Get("search"); search != "" {
		q = q.Where("name LIKE ?", "%"+search+"%")
	}
	if avail := r.URL.Query().Get("available"); avail != "" {
		q = q.Where("available = ?", avail == "true")
	}

	var total int64
	q.Count(&total)

	page, perPage := pagination(r)
	var members []models.TeamMember
	q.Offset((page - 1) * perPage).Limit(perPage).Find(&members)

	writeJSON(w, http.StatusOK, TeamMembersResponse{
		Members: members,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	})
}

func GetTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid team member id")
		return
	}

	var member models.TeamMember
	if err := database.DB.First(&member, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Team member not found")
		return
	}

	writeJSON(w, http.StatusOK, member)
}

type teamMemberRequest struct {
	Name      string `json:"name"`
	Available *bool  `json:"available"`
}

func CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	var req teamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	member := models.TeamMember{Name: req.Name, Available: true}
	if req.Available != nil {
		member.Available = *req.Available
	}
	if err := database.DB.Create(&member).Error; err != nil {
		slog.Error("failed to create team member", "source", "team", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create team member")
		return
	}

	writeJSON(w, http.StatusCreated, member)
}

func UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid team member id")
		return
	}

	var member models.TeamMember
	if err := database.DB.First(&member, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Team member not found")
		return
	}

	var req teamMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Available != nil {
		member.Available = *req.Available
	}
	// Available is bool so Save, not Updates, which skips zero values
	if err := database.DB.Save(&member).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update team member")
		return
	}

	writeJSON(w, http.StatusOK, member)
}

func DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid team member id")
		return
	}

	var member models.TeamMember
	if err := database.DB.First(&member, id).Error; err != nil {
		writeError(w, http.StatusNotFound, "Team member not found")
		return
	}

	if err := database.DB.Exec("DELETE FROM outing_participants WHERE team_member_id = ?", member.ID).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete team member")
		return
	}
	if err := database.DB.Delete(&member).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete team member")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
