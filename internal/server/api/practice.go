package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// Session is the slice of the running pipeline the practice endpoints
// drive.
type Session interface {
	SetEnabled(enabled bool)
	IsEnabled() bool
	SetTargetSign(sign *store.Sign)
	CurrentSign() *store.Sign
	Feedback() gesture.Feedback
}

// PracticeHandler handles HTTP requests for the practice session.
type PracticeHandler struct {
	session Session
	store   *store.Store
}

// NewPracticeHandler creates a new PracticeHandler with the given
// session and store.
func NewPracticeHandler(session Session, s *store.Store) *PracticeHandler {
	return &PracticeHandler{session: session, store: s}
}

// ServeHTTP implements the http.Handler interface.
// Expected paths: /api/practice and /api/practice/attempts
func (h *PracticeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/practice")
	path = strings.TrimPrefix(path, "/")

	switch path {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r)
		case http.MethodPut:
			h.update(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "attempts":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.attempts(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found")
	}
}

// Request and response types

type updatePracticeRequest struct {
	// SignID switches the target; the empty string clears it. A
	// missing field leaves the target alone.
	SignID  *string `json:"sign_id"`
	Enabled *bool   `json:"enabled"`
}

type practiceResponse struct {
	Enabled  bool             `json:"enabled"`
	Sign     *signResponse    `json:"sign,omitempty"`
	Feedback gesture.Feedback `json:"feedback"`
}

type attemptResponse struct {
	ID          string  `json:"id"`
	SignID      string  `json:"sign_id"`
	Confidence  float64 `json:"confidence"`
	HeldSeconds float64 `json:"held_seconds"`
	Excellent   bool    `json:"excellent"`
	CreatedAt   string  `json:"created_at"`
}

type listAttemptsResponse struct {
	Attempts []attemptResponse `json:"attempts"`
}

// get handles GET /api/practice and reports the session state.
func (h *PracticeHandler) get(w http.ResponseWriter, r *http.Request) {
	response := practiceResponse{
		Enabled:  h.session.IsEnabled(),
		Feedback: h.session.Feedback(),
	}

	if sign := h.session.CurrentSign(); sign != nil {
		count, err := h.store.Attempts().CountBySign(sign.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to count attempts")
			return
		}
		resp := toResponse(sign, count)
		response.Sign = &resp
	}

	writeJSON(w, http.StatusOK, response)
}

// update handles PUT /api/practice. It can switch the practiced sign,
// pause or resume evaluation, or both at once.
func (h *PracticeHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updatePracticeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.SignID != nil {
		if *req.SignID == "" {
			h.session.SetTargetSign(nil)
		} else {
			sign, err := h.store.Signs().GetByID(*req.SignID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					writeError(w, http.StatusNotFound, "Sign not found")
					return
				}
				writeError(w, http.StatusInternalServerError, "Failed to get sign")
				return
			}
			h.session.SetTargetSign(sign)
		}
	}

	if req.Enabled != nil {
		h.session.SetEnabled(*req.Enabled)
	}

	h.get(w, r)
}

// attempts handles GET /api/practice/attempts. The history can be
// narrowed with ?sign={id} and capped with ?limit={n}.
func (h *PracticeHandler) attempts(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	var (
		attempts []*store.Attempt
		err      error
	)
	if signID := r.URL.Query().Get("sign"); signID != "" {
		attempts, err = h.store.Attempts().ListBySign(signID, limit)
	} else {
		attempts, err = h.store.Attempts().ListRecent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attempts")
		return
	}

	response := listAttemptsResponse{
		Attempts: make([]attemptResponse, 0, len(attempts)),
	}

	for _, a := range attempts {
		response.Attempts = append(response.Attempts, attemptResponse{
			ID:          a.ID,
			SignID:      a.SignID,
			Confidence:  a.Confidence,
			HeldSeconds: a.HeldSeconds,
			Excellent:   a.Excellent,
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
