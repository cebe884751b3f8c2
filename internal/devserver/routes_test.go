package devserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/m1haww/call-recorder-sub000/internal/config"
	"github.com/m1haww/call-recorder-sub000/internal/domain"
)

func setupTestServer(t *testing.T) (*gin.Engine, *Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:         "8080",
		BaseURL:      "http://localhost:8080",
		DataDir:      t.TempDir(),
		MediaSecret:  "secret",
		MediaTTL:     time.Minute,
		ServicePhone: "+15550100000",
	}

	return NewEngine(cfg)
}

func postJSON(t *testing.T, engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	engine, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if ok, exists := body["ok"].(bool); !exists || !ok {
		t.Fatalf("expected ok=true, body=%v", body)
	}
}

func TestRegisterIssuesStableUserID(t *testing.T) {
	engine, _ := setupTestServer(t)

	first := postJSON(t, engine, "/api/users/register", `{"countryCode":"US","phoneNumber":"+15550123456","fcmToken":"tok"}`)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	var firstBody struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &firstBody); err != nil {
		t.Fatalf("decode register body: %v", err)
	}
	if firstBody.UserID == "" {
		t.Fatalf("register returned empty userId")
	}

	second := postJSON(t, engine, "/api/users/register", `{"countryCode":"US","phoneNumber":"+15550123456"}`)
	var secondBody struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(second.Body.Bytes(), &secondBody); err != nil {
		t.Fatalf("decode second register body: %v", err)
	}

	if firstBody.UserID != secondBody.UserID {
		t.Errorf("re-registering the same phone minted a new id: %q vs %q", firstBody.UserID, secondBody.UserID)
	}
}

func TestRegisterRequiresPhoneNumber(t *testing.T) {
	engine, _ := setupTestServer(t)

	rec := postJSON(t, engine, "/api/users/register", `{"countryCode":"US"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetCallsSignsCompletedMediaURLs(t *testing.T) {
	engine, store := setupTestServer(t)
	userID := store.SeedDemo()

	rec := postJSON(t, engine, "/get_calls_for_user", `{"user_id":"`+userID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var calls []domain.Recording
	if err := json.Unmarshal(rec.Body.Bytes(), &calls); err != nil {
		t.Fatalf("decode calls: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("expected 3 seeded calls, got %d", len(calls))
	}

	for _, call := range calls {
		if call.RecordingStatus != domain.StatusCompleted {
			if call.RecordingURL != "" {
				t.Errorf("unfinished recording %s has media url", call.ID)
			}
			continue
		}

		parsed, err := url.Parse(call.RecordingURL)
		if err != nil || parsed.Query().Get("sig") == "" || parsed.Query().Get("exp") == "" {
			t.Errorf("recording %s url %q is not a signed link", call.ID, call.RecordingURL)
		}
	}
}

func TestMediaLinkValidation(t *testing.T) {
	engine, store := setupTestServer(t)
	userID := store.SeedDemo()

	var recordingID string
	for _, call := range store.CallsForUser(userID) {
		if call.RecordingStatus == domain.StatusCompleted {
			recordingID = call.ID
			break
		}
	}
	if recordingID == "" {
		t.Fatalf("no completed seeded recording")
	}

	invalidReq := httptest.NewRequest(http.MethodGet, "/media/"+recordingID+"?exp=9999999999&sig=invalid", nil)
	invalidRec := httptest.NewRecorder()
	engine.ServeHTTP(invalidRec, invalidReq)

	if invalidRec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for invalid signature, got %d", invalidRec.Code)
	}

	expiredReq := httptest.NewRequest(http.MethodGet, "/media/"+recordingID+"?exp=1&sig=whatever", nil)
	expiredRec := httptest.NewRecorder()
	engine.ServeHTTP(expiredRec, expiredReq)

	if expiredRec.Code != http.StatusGone {
		t.Fatalf("expected 410 for expired link, got %d", expiredRec.Code)
	}

	missingReq := httptest.NewRequest(http.MethodGet, "/media/"+recordingID, nil)
	missingRec := httptest.NewRecorder()
	engine.ServeHTTP(missingRec, missingReq)

	if missingRec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unsigned link, got %d", missingRec.Code)
	}
}

func TestDeleteRecordingNotFound(t *testing.T) {
	engine, store := setupTestServer(t)
	userID := store.SeedDemo()

	rec := postJSON(t, engine, "/delete_recording", `{"recording_id":"nope","user_id":"`+userID+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteRecordingOfAnotherUser(t *testing.T) {
	engine, store := setupTestServer(t)
	userID := store.SeedDemo()
	other := store.RegisterUser("+15550999999", "US", "")

	var recordingID string
	for _, call := range store.CallsForUser(userID) {
		recordingID = call.ID
		break
	}

	rec := postJSON(t, engine, "/delete_recording", `{"recording_id":"`+recordingID+`","user_id":"`+other+`"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting someone else's recording, got %d", rec.Code)
	}
}

func TestDeleteAllRecordings(t *testing.T) {
	engine, store := setupTestServer(t)
	userID := store.SeedDemo()

	rec := postJSON(t, engine, "/delete_all_recordings", `{"user_id":"`+userID+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if remaining := store.CallsForUser(userID); len(remaining) != 0 {
		t.Errorf("expected no recordings left, got %d", len(remaining))
	}
}

func TestUpdateNotificationsUnknownUser(t *testing.T) {
	engine, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/users/notifications", strings.NewReader(`{"userId":"ghost","pushNotificationsEnabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestServicePhone(t *testing.T) {
	engine, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/service/phone", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.PhoneNumber != "+15550100000" {
		t.Errorf("phoneNumber = %q", body.PhoneNumber)
	}
}
