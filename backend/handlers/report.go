package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"transect-admin/backend/database"
	"transect-admin/backend/report"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return "Never"
		}
		return t.Format("2006-01-02")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Line Completion Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: left; }
th a { text-decoration: none; color: inherit; }
</style>
</head>
<body>
<h1>Line Completion Report</h1>
<p><a href="?sort={{.Sort}}&order={{.Order}}&format=csv">Download CSV</a></p>
<table>
<tr>
<th><a href="?sort=line_name&order=asc">Line Name</a></th>
<th>Type</th>
<th><a href="?sort=last_completed&order=desc">Last Completed</a></th>
<th><a href="?sort=last_partial&order=desc">Last Partial</a></th>
<th><a href="?sort=completed_count&order=desc">Completed Count</a></th>
<th><a href="?sort=partial_count&order=desc">Partial Count</a></th>
<th><a href="?sort=issues_unresolved_count&order=desc">Unresolved Issues</a></th>
<th><a href="?sort=issues_count&order=desc">Total Issues</a></th>
</tr>
{{range .Rows}}
<tr>
<td>{{.LineName}}</td>
<td>{{.LineType.Label}}</td>
<td>{{date .LastCompleted}}</td>
<td>{{date .LastPartial}}</td>
<td>{{.CompletedCount}}</td>
<td>{{.PartialCount}}</td>
<td>{{.IssuesUnresolvedCount}}</td>
<td>{{.IssuesCount}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

// CompletionReport renders the per-line completion report. Query params:
// sort (closed field set, default last_completed), order (asc|desc, default
// desc) and format=csv for an attachment download.
func CompletionReport(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "last_completed"
	}
	order := r.URL.Query().Get("order")
	if order == "" {
		order = "desc"
	}

	rows, err := report.Build(database.DB)
	if err != nil {
		slog.Error("failed to build completion report", "source", "report", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}
	report.Sort(rows, sortBy, order)

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="completion_report.csv"`)
		if err := report.WriteCSV(w, rows); err != nil {
			slog.Error("failed to write report csv", "source", "report", "error", err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	reportTemplate.Execute(w, map[string]any{
		"Rows":  rows,
		"Sort":  sortBy,
		"Order": order,
	})
}
