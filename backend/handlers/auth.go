package handlers

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"transect-admin/backend/config"
	"transect-admin/backend/database"
	"transect-admin/backend/models"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"
)

var Store *sessions.CookieStore

// InitSession configures the session store with the secret and timeout from
// config. A missing secret gets a random one (sessions then do not survive
// restarts).
func InitSession() error {
	secret := config.C.Session.Secret
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return err
		}
		secret = string(b)
	}
	Store = sessions.NewCookieStore([]byte(secret))
	Store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(config.C.Session.Timeout.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return nil
}

// clientIP extracts the caller's network address for audit rows.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// recordAudit appends one immutable audit row. A failed write is logged but
// does not block the request.
func recordAudit(action models.AuditAction, r *http.Request, username string) {
	entry := models.Audit{
		Action:   action,
		IP:       clientIP(r),
		Username: username,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		slog.Error("failed to record audit entry", "source", "auth", "error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func Login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		slog.Warn("login failed: user not found", "source", "auth", "username", username)
		recordAudit(models.AuditLoginFailed, r, username)
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		slog.Warn("login failed: invalid password", "source", "auth", "username", username)
		recordAudit(models.AuditLoginFailed, r, username)
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	session, _ := Store.Get(r, "session")
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Save(r, w)

	slog.Info("user logged in", "source", "auth", "username", username)
	recordAudit(models.AuditLogin, r, username)

	writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
}

func Register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if len(password) < 6 {
		slog.Warn("registration failed: password too short", "source", "auth", "username", username)
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err == nil {
		slog.Warn("registration failed: username exists", "source", "auth", "username", username)
		writeError(w, http.StatusConflict, "Username already registered")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("registration failed: hash error", "source", "auth", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	user := models.User{Username: username, Password: string(hashed)}
	if err := database.DB.Create(&user).Error; err != nil {
		slog.Error("registration failed: db error", "source", "auth", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user registered", "source", "auth", "username", username)

	session, _ := Store.Get(r, "session")
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Save(r, w)

	writeJSON(w, http.StatusCreated, map[string]string{"username": user.Username})
}

func Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := Store.Get(r, "session")
	username, _ := session.Values["username"].(string)
	slog.Info("user logged out", "source", "auth", "username", username)
	recordAudit(models.AuditLogout, r, username)

	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	session.Save(r, w)

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// GetCurrentUser is a variable to allow mocking in tests
var GetCurrentUser = func(r *http.Request) *models.User {
	session, err := Store.Get(r, "session")
	if err != nil {
		return nil
	}
	userID, ok := session.Values["user_id"].(uint)
	if !ok {
		return nil
	}
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}
