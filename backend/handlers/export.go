package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"transect-admin/backend/database"
	"transect-admin/backend/tabular"
)

var exportResources = map[string]tabular.Resource{
	"lines":        tabular.LineResource{},
	"team-members": tabular.TeamMemberResource{},
	"outings":      tabular.OutingResource{},
	"issues":       tabular.IssueResource{},
	"audits":       tabular.AuditResource{},
}

var importResources = map[string]tabular.Importer{
	"lines":        tabular.LineResource{},
	"team-members": tabular.TeamMemberResource{},
}

// ExportEntity streams a CSV dump of the named entity.
func ExportEntity(w http.ResponseWriter, r *http.Request) {
	res, ok := exportResources[r.PathValue("entity")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown entity")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, res.Name()))
	if err := tabular.Export(w, database.DB, res); err != nil {
		slog.Error("export failed", "source", "export", "entity", res.Name(), "error", err.Error())
	}
}

// ImportEntity accepts a CSV upload for entities with an import binding.
// The upload is all-or-nothing.
func ImportEntity(w http.ResponseWriter, r *http.Request) {
	imp, ok := importResources[r.PathValue("entity")]
	if !ok {
		writeError(w, http.StatusNotFound, "Entity does not support import")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()

	count, err := tabular.Import(database.DB, imp, file)
	if err != nil {
		slog.Warn("import rejected", "source", "export", "entity", imp.Name(), "error", err.Error())
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slog.Info("import applied", "source", "export", "entity", imp.Name(), "rows", count)
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}
