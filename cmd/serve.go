package cmd

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"transect-admin/backend/config"
	"transect-admin/backend/database"
	"transect-admin/backend/handlers"
	"transect-admin/backend/logger"
	"transect-admin/backend/middleware"

	"github.com/spf13/cobra"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

// Rate limiter for auth endpoints (10 requests per minute)
var authRateLimiter = middleware.NewRateLimiter(10, time.Minute)

func serve() error {
	if err := handlers.InitSession(); err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}

	// Structured logging to stdout and the log_entries table
	slog.SetDefault(slog.New(logger.NewDBHandler(database.DB)))
	go logger.CleanupOldLogs(database.DB, config.C.Logs.MaxAge)

	slog.Info("server starting", "source", "main", "listen", config.C.Listen)

	mux := http.NewServeMux()

	// Health check (unauthenticated, for load balancers)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", middleware.MetricsHandler())

	// Auth routes (public, rate limited)
	mux.HandleFunc("POST /admin/login", authRateLimiter.LimitFunc(handlers.Login))
	mux.HandleFunc("POST /admin/register", authRateLimiter.LimitFunc(handlers.Register))
	mux.HandleFunc("POST /admin/logout", handlers.Logout)

	// Lines
	mux.HandleFunc("GET /admin/api/lines", middleware.RequireAuth(handlers.ListLines))
	mux.HandleFunc("POST /admin/api/lines", middleware.RequireAuth(handlers.CreateLine))
	mux.HandleFunc("GET /admin/api/lines/{id}", middleware.RequireAuth(handlers.GetLine))
	mux.HandleFunc("PUT /admin/api/lines/{id}", middleware.RequireAuth(handlers.UpdateLine))
	mux.HandleFunc("DELETE /admin/api/lines/{id}", middleware.RequireAuth(handlers.DeleteLine))

	// Outings
	mux.HandleFunc("GET /admin/api/outings", middleware.RequireAuth(handlers.ListOutings))
	mux.HandleFunc("POST /admin/api/outings", middleware.RequireAuth(handlers.CreateOuting))
	mux.HandleFunc("GET /admin/api/outings/{id}", middleware.RequireAuth(handlers.GetOuting))
	mux.HandleFunc("PUT /admin/api/outings/{id}", middleware.RequireAuth(handlers.UpdateOuting))
	mux.HandleFunc("DELETE /admin/api/outings/{id}", middleware.RequireAuth(handlers.DeleteOuting))

	// Team members
	mux.HandleFunc("GET /admin/api/team-members", middleware.RequireAuth(handlers.ListTeamMembers))
	mux.HandleFunc("POST /admin/api/team-members", middleware.RequireAuth(handlers.CreateTeamMember))
	mux.HandleFunc("GET /admin/api/team-members/{id}", middleware.RequireAuth(handlers.GetTeamMember))
	mux.HandleFunc("PUT /admin/api/team-members/{id}", middleware.RequireAuth(handlers.UpdateTeamMember))
	mux.HandleFunc("DELETE /admin/api/team-members/{id}", middleware.RequireAuth(handlers.DeleteTeamMember))

	// Issues
	mux.HandleFunc("GET /admin/api/issues", middleware.RequireAuth(handlers.ListIssues))
	mux.HandleFunc("POST /admin/api/issues", middleware.RequireAuth(handlers.CreateIssue))
	mux.HandleFunc("GET /admin/api/issues/{id}", middleware.RequireAuth(handlers.GetIssue))
	mux.HandleFunc("PUT /admin/api/issues/{id}", middleware.RequireAuth(handlers.UpdateIssue))
	mux.HandleFunc("DELETE /admin/api/issues/{id}", middleware.RequireAuth(handlers.DeleteIssue))
	mux.HandleFunc("POST /admin/api/issues/{id}/photo", middleware.RequireAuth(handlers.UploadIssuePhoto))

	// Audit log (append-only: list is the only route)
	mux.HandleFunc("GET /admin/api/audits", middleware.RequireAuth(handlers.ListAudits))

	// Application logs
	mux.HandleFunc("GET /admin/api/logs", middleware.RequireAuth(handlers.GetLogs))
	mux.HandleFunc("GET /admin/api/logs/sources", middleware.RequireAuth(handlers.GetLogSources))

	// Tabular export/import per entity
	mux.HandleFunc("GET /admin/api/export/{entity}", middleware.RequireAuth(handlers.ExportEntity))
	mux.HandleFunc("POST /admin/api/import/{entity}", middleware.RequireAuth(handlers.ImportEntity))

	// Completion report (HTML or format=csv)
	mux.HandleFunc("GET /admin/report", middleware.RequireAuth(handlers.CompletionReport))

	// Admin root redirects to the report
	mux.HandleFunc("GET /admin", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/report", http.StatusSeeOther)
	})
	mux.HandleFunc("GET /admin/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/admin/report", http.StatusSeeOther)
	})

	// Issue photos
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(config.C.MediaDir))))

	handler := middleware.Metrics(middleware.SecurityHeaders(mux))

	fmt.Printf("Server running at %s\n", config.C.Listen)
	log.Fatal(http.ListenAndServe(config.C.Listen, handler))
	return nil
}
