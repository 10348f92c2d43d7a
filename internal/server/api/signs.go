// Package api provides the HTTP API handlers for the Mudra sign tutor.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/store"
)

// SignHandler handles HTTP requests for sign resources.
type SignHandler struct {
	store *store.Store
}

// NewSignHandler creates a new SignHandler with the given store.
func NewSignHandler(s *store.Store) *SignHandler {
	return &SignHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SignHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/signs, /api/signs/daily or /api/signs/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/signs")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/signs
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// The day's suggestion: /api/signs/daily
	if path == "daily" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.daily(w, r)
		return
	}

	// Item endpoint: /api/signs/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createSignRequest struct {
	Name        string           `json:"name"`
	Letter      string           `json:"letter"`
	Movement    string           `json:"movement"`
	MinMovement float64          `json:"min_movement"`
	Fingers     hand.FingerState `json:"fingers"`
	Hint        string           `json:"hint"`
}

type updateSignRequest struct {
	Name        string            `json:"name"`
	Letter      *string           `json:"letter"`
	Movement    string            `json:"movement"`
	MinMovement *float64          `json:"min_movement"`
	Fingers     *hand.FingerState `json:"fingers"`
	Hint        *string           `json:"hint"`
}

type signResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Letter      string           `json:"letter"`
	Movement    string           `json:"movement"`
	MinMovement float64          `json:"min_movement"`
	Fingers     hand.FingerState `json:"fingers"`
	Hint        string           `json:"hint"`
	Attempts    int              `json:"attempts"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
}

type listSignsResponse struct {
	Signs []signResponse `json:"signs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Sign to a signResponse.
func toResponse(sign *store.Sign, attempts int) signResponse {
	return signResponse{
		ID:          sign.ID,
		Name:        sign.Name,
		Letter:      sign.Letter,
		Movement:    sign.Movement,
		MinMovement: sign.MinMovement,
		Fingers: hand.FingerState{
			Thumb:  sign.Thumb,
			Index:  sign.Index,
			Middle: sign.Middle,
			Ring:   sign.Ring,
			Pinky:  sign.Pinky,
		},
		Hint:      sign.Hint,
		Attempts:  attempts,
		CreatedAt: sign.CreatedAt.Format(time.RFC3339),
		UpdatedAt: sign.UpdatedAt.Format(time.RFC3339),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/signs and returns all signs.
func (h *SignHandler) list(w http.ResponseWriter, r *http.Request) {
	signs, err := h.store.Signs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list signs")
		return
	}

	response := listSignsResponse{
		Signs: make([]signResponse, 0, len(signs)),
	}

	for _, sign := range signs {
		count, err := h.store.Attempts().CountBySign(sign.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count attempts")
			return
		}
		response.Signs = append(response.Signs, toResponse(sign, count))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/signs/{id} and returns a single sign.
func (h *SignHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	sign, err := h.store.Signs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sign")
		return
	}

	count, err := h.store.Attempts().CountBySign(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count attempts")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sign, count))
}

// daily handles GET /api/signs/daily and returns the day's suggestion.
func (h *SignHandler) daily(w http.ResponseWriter, r *http.Request) {
	sign, err := h.store.SignOfDay(time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No signs available")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to pick sign of the day")
		return
	}

	count, err := h.store.Attempts().CountBySign(sign.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count attempts")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sign, count))
}

// create handles POST /api/signs and creates a new sign.
func (h *SignHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate required fields
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Set default movement if not provided
	movement := gesture.Movement(req.Movement)
	if movement == "" {
		movement = gesture.MovementStatic
	}
	if !movement.Valid() {
		writeError(w, http.StatusBadRequest, "Invalid movement")
		return
	}

	// Set default travel threshold for moving signs if not provided
	minMovement := req.MinMovement
	if minMovement == 0 && movement != gesture.MovementStatic {
		minMovement = gesture.DefaultMinMovement
	}

	sign := &store.Sign{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Letter:      strings.ToUpper(strings.TrimSpace(req.Letter)),
		Movement:    string(movement),
		MinMovement: minMovement,
		Thumb:       req.Fingers.Thumb,
		Index:       req.Fingers.Index,
		Middle:      req.Fingers.Middle,
		Ring:        req.Fingers.Ring,
		Pinky:       req.Fingers.Pinky,
		Hint:        req.Hint,
	}

	if err := h.store.Signs().Create(sign); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create sign")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(sign, 0))
}

// update handles PUT /api/signs/{id} and updates an existing sign.
func (h *SignHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	// First, get the existing sign
	sign, err := h.store.Signs().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get sign")
		return
	}

	var req updateSignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Update fields if provided
	if req.Name != "" {
		sign.Name = req.Name
	}
	if req.Letter != nil {
		sign.Letter = strings.ToUpper(strings.TrimSpace(*req.Letter))
	}
	if req.Movement != "" {
		movement := gesture.Movement(req.Movement)
		if !movement.Valid() {
			writeError(w, http.StatusBadRequest, "Invalid movement")
			return
		}
		sign.Movement = string(movement)
	}
	if req.MinMovement != nil {
		sign.MinMovement = *req.MinMovement
	}
	if req.Fingers != nil {
		sign.Thumb = req.Fingers.Thumb
		sign.Index = req.Fingers.Index
		sign.Middle = req.Fingers.Middle
		sign.Ring = req.Fingers.Ring
		sign.Pinky = req.Fingers.Pinky
	}
	if req.Hint != nil {
		sign.Hint = *req.Hint
	}

	if err := h.store.Signs().Update(sign); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update sign")
		return
	}

	count, err := h.store.Attempts().CountBySign(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count attempts")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(sign, count))
}

// delete handles DELETE /api/signs/{id} and removes a sign with its history.
func (h *SignHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Signs().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Sign not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sign")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
