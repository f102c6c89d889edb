package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"transect-admin/backend/config"
	"transect-admin/backend/database"
	"transect-admin/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	var err error
	database.DB, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(database.DB); err != nil {
		t.Fatal(err)
	}
	config.C.Session.Timeout = time.Hour
	if err := InitSession(); err != nil {
		t.Fatal(err)
	}
}

func createTestUser(t *testing.T, username, password string) models.User {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user := models.User{Username: username, Password: string(hashed)}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.9:51000"
	return req
}

func auditRows(t *testing.T, action models.AuditAction) []models.Audit {
	var audits []models.Audit
	if err := database.DB.Where("action = ?", action).Find(&audits).Error; err != nil {
		t.Fatal(err)
	}
	return audits
}

func TestLogin_Success_RecordsAudit(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "ranger", "secret123")

	req := postForm("/admin/login", url.Values{"username": {"ranger"}, "password": {"secret123"}})
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	audits := auditRows(t, models.AuditLogin)
	if len(audits) != 1 {
		t.Fatalf("Expected 1 login audit row, got %d", len(audits))
	}
	if audits[0].Username != "ranger" {
		t.Errorf("Expected username ranger, got %s", audits[0].Username)
	}
	if audits[0].IP != "203.0.113.9" {
		t.Errorf("Expected IP 203.0.113.9, got %s", audits[0].IP)
	}
}

func TestLogin_WrongPassword_RecordsFailedAudit(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "ranger", "secret123")

	req := postForm("/admin/login", url.Values{"username": {"ranger"}, "password": {"wrong"}})
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
	if n := len(auditRows(t, models.AuditLoginFailed)); n != 1 {
		t.Errorf("Expected 1 failed-login audit row, got %d", n)
	}
	if n := len(auditRows(t, models.AuditLogin)); n != 0 {
		t.Errorf("Expected no successful-login audit rows, got %d", n)
	}
}

func TestLogin_UnknownUser_RecordsAttemptedUsername(t *testing.T) {
	setupTestDB(t)

	req := postForm("/admin/login", url.Values{"username": {"ghost"}, "password": {"x"}})
	rec := httptest.NewRecorder()
	Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
	audits := auditRows(t, models.AuditLoginFailed)
	if len(audits) != 1 {
		t.Fatalf("Expected 1 failed-login audit row, got %d", len(audits))
	}
	if audits[0].Username != "ghost" {
		t.Errorf("Expected attempted username ghost, got %s", audits[0].Username)
	}
}

func TestLogout_RecordsAudit(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "ranger", "secret123")

	// Log in first so the session carries the username
	loginReq := postForm("/admin/login", url.Values{"username": {"ranger"}, "password": {"secret123"}})
	loginRec := httptest.NewRecorder()
	Login(loginRec, loginReq)

	req := postForm("/admin/logout", url.Values{})
	for _, c := range loginRec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	audits := auditRows(t, models.AuditLogout)
	if len(audits) != 1 {
		t.Fatalf("Expected 1 logout audit row, got %d", len(audits))
	}
	if audits[0].Username != "ranger" {
		t.Errorf("Expected username ranger, got %s", audits[0].Username)
	}
}

func TestRegister_ShortPasswordRejected(t *testing.T) {
	setupTestDB(t)

	req := postForm("/admin/register", url.Values{"username": {"new"}, "password": {"123"}})
	rec := httptest.NewRecorder()
	Register(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no users created, got %d", count)
	}
}
