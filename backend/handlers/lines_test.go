package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"transect-admin/backend/database"
	"transect-admin/backend/models"
)

func seedLine(t *testing.T, name string) models.Line {
	t.Helper()
	line := models.Line{Name: name, LineType: models.LineTransect, StartStationID: "1", EndStationID: "20"}
	if err := database.DB.Create(&line).Error; err != nil {
		t.Fatal(err)
	}
	return line
}

func TestListLines_FilterAndCounts(t *testing.T) {
	setupTestDB(t)
	line := seedLine(t, "Ridge")
	database.DB.Create(&models.Line{Name: "Mouse run", LineType: models.LineMouseLine})

	database.DB.Create(&models.Outing{Date: time.Now(), LineID: line.ID, CompletionStatus: models.StatusCompleted})
	database.DB.Create(&models.Outing{Date: time.Now(), LineID: line.ID, CompletionStatus: models.StatusPartial})
	database.DB.Create(&models.Issue{LineID: line.ID, IssueType: models.IssueNote, StartStationID: "3"})

	req := httptest.NewRequest("GET", "/admin/api/lines?line_type=Transect", nil)
	rec := httptest.NewRecorder()
	ListLines(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp LinesResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Total != 1 {
		t.Fatalf("Expected 1 transect line, got %d", resp.Total)
	}
	got := resp.Lines[0]
	if got.OutingCount != 2 || got.CompletedOutingCount != 1 || got.IssueCount != 1 {
		t.Errorf("Unexpected counts: outings=%d completed=%d issues=%d",
			got.OutingCount, got.CompletedOutingCount, got.IssueCount)
	}
}

func TestCreateLine_InvalidTypeRejected(t *testing.T) {
	setupTestDB(t)

	body := `{"name":"Bad","line_type":"Zipline","start_station_id":"1","end_station_id":"5"}`
	req := httptest.NewRequest("POST", "/admin/api/lines", strings.NewReader(body))
	rec := httptest.NewRecorder()
	CreateLine(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetLine_NotFound(t *testing.T) {
	setupTestDB(t)

	req := httptest.NewRequest("GET", "/admin/api/lines/99", nil)
	req.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	GetLine(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestDeleteLine_CascadesToOutingsAndIssues(t *testing.T) {
	setupTestDB(t)
	line := seedLine(t, "Ridge")
	member := models.TeamMember{Name: "AB"}
	database.DB.Create(&member)

	outing := models.Outing{Date: time.Now(), LineID: line.ID, CompletionStatus: models.StatusCompleted}
	database.DB.Create(&outing)
	database.DB.Model(&outing).Association("Participants").Append(&member)
	database.DB.Create(&models.Issue{LineID: line.ID, OutingID: &outing.ID, IssueType: models.IssueNote, StartStationID: "3"})

	req := httptest.NewRequest("DELETE", "/admin/api/lines/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()
	DeleteLine(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var outings, issues int64
	database.DB.Model(&models.Outing{}).Count(&outings)
	database.DB.Model(&models.Issue{}).Count(&issues)
	if outings != 0 || issues != 0 {
		t.Errorf("Expected cascade delete, got %d outings and %d issues left", outings, issues)
	}

	// Team member survives the cascade
	var members int64
	database.DB.Model(&models.TeamMember{}).Count(&members)
	if members != 1 {
		t.Errorf("Expected team member to survive, got %d", members)
	}
}
