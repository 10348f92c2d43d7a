package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "mudra-api-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	dbPath := filepath.Join(tmpDir, "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func createTestSign(t *testing.T, s *store.Store, id, name, letter string) *store.Sign {
	t.Helper()
	sign := &store.Sign{
		ID:       id,
		Name:     name,
		Letter:   letter,
		Movement: "static",
	}
	if err := s.Signs().Create(sign); err != nil {
		t.Fatalf("failed to create sign: %v", err)
	}
	return sign
}

func TestSignHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	createTestSign(t, s, "sign-1", "Letter A", "A")

	req := httptest.NewRequest(http.MethodGet, "/api/signs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	contentType := rec.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", contentType)
	}

	var response listSignsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(response.Signs) != 1 {
		t.Fatalf("expected 1 sign, got %d", len(response.Signs))
	}

	if response.Signs[0].ID != "sign-1" {
		t.Errorf("expected sign ID 'sign-1', got %q", response.Signs[0].ID)
	}

	if response.Signs[0].Letter != "A" {
		t.Errorf("expected letter 'A', got %q", response.Signs[0].Letter)
	}
}

func TestSignHandler_Create(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{
		"name": "Letter Z",
		"letter": " z ",
		"movement": "right",
		"min_movement": 0.15,
		"fingers": {"index": true},
		"hint": "Trace the Z in the air"
	}`)

	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response signResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.ID == "" {
		t.Error("expected non-empty ID in response")
	}

	// The letter is normalized to an uppercase trimmed form
	if response.Letter != "Z" {
		t.Errorf("expected letter 'Z', got %q", response.Letter)
	}

	if response.Movement != "right" {
		t.Errorf("expected movement 'right', got %q", response.Movement)
	}

	if !response.Fingers.Index || response.Fingers.Thumb {
		t.Errorf("fingers not preserved: %+v", response.Fingers)
	}

	// Verify the sign was persisted in the store
	created, err := s.Signs().GetByID(response.ID)
	if err != nil {
		t.Fatalf("failed to get created sign: %v", err)
	}

	if created.Name != "Letter Z" {
		t.Errorf("stored sign name mismatch: got %q, want 'Letter Z'", created.Name)
	}
}

func TestSignHandler_Create_DefaultsToStatic(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{"name": "Letter B", "letter": "B"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response signResponse
	json.NewDecoder(rec.Body).Decode(&response)

	if response.Movement != "static" {
		t.Errorf("expected movement 'static', got %q", response.Movement)
	}
}

func TestSignHandler_Create_DefaultTravelForMovingSigns(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{"name": "Letter J", "movement": "down", "fingers": {"pinky": true}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var response signResponse
	json.NewDecoder(rec.Body).Decode(&response)

	if response.MinMovement != 0.15 {
		t.Errorf("expected default min_movement 0.15, got %v", response.MinMovement)
	}
}

func TestSignHandler_Create_InvalidJSON(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSignHandler_Create_MissingName(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{"letter": "A"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSignHandler_Create_InvalidMovement(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{"name": "Bad", "movement": "sideways"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/signs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestSignHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	createTestSign(t, s, "sign-1", "Letter A", "A")

	req := httptest.NewRequest(http.MethodGet, "/api/signs/sign-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response signResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.ID != "sign-1" {
		t.Errorf("expected ID 'sign-1', got %q", response.ID)
	}
}

func TestSignHandler_Get_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/signs/non-existent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSignHandler_Get_CountsAttempts(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	createTestSign(t, s, "sign-1", "Letter A", "A")
	for i := 0; i < 3; i++ {
		err := s.Attempts().Create(&store.Attempt{
			ID:         fmt.Sprintf("attempt-%d", i),
			SignID:     "sign-1",
			Confidence: 0.9,
		})
		if err != nil {
			t.Fatalf("failed to create attempt: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/signs/sign-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	var response signResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", response.Attempts)
	}
}

func TestSignHandler_Daily(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	if err := s.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/signs/daily", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var first signResponse
	if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected a sign of the day")
	}

	// A second request on the same day returns the same sign
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signs/daily", nil))

	var second signResponse
	if err := json.NewDecoder(rec.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("daily sign changed between requests: %q then %q", first.ID, second.ID)
	}
}

func TestSignHandler_Daily_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	req := httptest.NewRequest(http.MethodGet, "/api/signs/daily", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSignHandler_Update(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	createTestSign(t, s, "sign-1", "Letter A", "A")

	body := []byte(`{"name": "Letter A v2", "fingers": {"thumb": true}, "hint": "Thumb beside the fist"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/signs/sign-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var response signResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response.Name != "Letter A v2" {
		t.Errorf("expected name 'Letter A v2', got %q", response.Name)
	}
	if !response.Fingers.Thumb {
		t.Error("expected thumb to be set")
	}
	// Fields absent from the request stay untouched
	if response.Letter != "A" {
		t.Errorf("letter should be unchanged, got %q", response.Letter)
	}

	updated, _ := s.Signs().GetByID("sign-1")
	if updated.Name != "Letter A v2" || !updated.Thumb {
		t.Errorf("stored sign not updated: %+v", updated)
	}
}

func TestSignHandler_Update_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	body := []byte(`{"name": "updated"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/signs/non-existent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSignHandler_Delete(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	createTestSign(t, s, "sign-1", "Letter A", "A")

	req := httptest.NewRequest(http.MethodDelete, "/api/signs/sign-1", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/signs/sign-1", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSignHandler_Delete_NotFound(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	req := httptest.NewRequest(http.MethodDelete, "/api/signs/non-existent", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestSignHandler_MethodNotAllowed(t *testing.T) {
	s := newTestStore(t)
	handler := NewSignHandler(s)

	// PATCH is not allowed on the collection endpoint
	req := httptest.NewRequest(http.MethodPatch, "/api/signs", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}

	// POST is not allowed on the daily endpoint
	req = httptest.NewRequest(http.MethodPost, "/api/signs/daily", nil)
	rec = httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
