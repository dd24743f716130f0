package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/daybook/internal/common"
	"github.com/dmitrijs2005/daybook/internal/server/models"
	"github.com/gorilla/mux"
)

// Wire DTOs. Field names follow the entries table columns so the payloads
// read the same on both sides of the API.

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type entryPayload struct {
	Date      string    `json:"entry_date"`
	Content   string    `json:"content"`
	WordCount int       `json:"word_count,omitempty"`
	Prompt    string    `json:"prompt_text,omitempty"`
	Mood      string    `json:"mood,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (p entryPayload) toModel() *models.Entry {
	return &models.Entry{
		EntryDate: p.Date,
		Content:   p.Content,
		WordCount: p.WordCount,
		Prompt:    p.Prompt,
		Mood:      p.Mood,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPayload(e *models.Entry) entryPayload {
	return entryPayload{
		Date:      e.EntryDate,
		Content:   e.Content,
		WordCount: e.WordCount,
		Prompt:    e.Prompt,
		Mood:      e.Mood,
		UpdatedAt: e.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *HTTPServer) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	if _, err := s.users.Register(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeError(w, http.StatusConflict, common.ErrorAlreadyExists.Error())
			return
		}
		s.logger.Error(r.Context(), "register failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	pair, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, common.ErrorUnauthorized.Error())
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) || errors.Is(err, common.ErrRefreshTokenExpired) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.logger.Error(r.Context(), "token refresh failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		UserID:       pair.UserID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (s *HTTPServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	entries, err := s.entries.List(r.Context(), userID)
	if err != nil {
		s.logger.Error(r.Context(), "listing entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	payloads := make([]entryPayload, 0, len(entries))
	for _, e := range entries {
		payloads = append(payloads, toPayload(e))
	}
	writeJSON(w, http.StatusOK, payloads)
}

func (s *HTTPServer) handleUpsertBatch(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	var payloads []entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	batch := make([]*models.Entry, 0, len(payloads))
	for _, p := range payloads {
		batch = append(batch, p.toModel())
	}

	if err := s.entries.UpsertBatch(r.Context(), userID, batch); err != nil {
		s.logger.Error(r.Context(), "batch upsert failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleUpsertOne(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	date := mux.Vars(r)["date"]

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}

	// The path names the day being written; the body must agree.
	entry := payload.toModel()
	entry.EntryDate = date

	if err := s.entries.UpsertOne(r.Context(), userID, entry); err != nil {
		s.logger.Error(r.Context(), "entry upsert failed", "date", date, "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleTodayPrompt(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(common.DateLayout)

	prompt, err := s.entries.PromptForDate(r.Context(), today)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, http.StatusNotFound, common.ErrorNotFound.Error())
			return
		}
		s.logger.Error(r.Context(), "prompt lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": prompt.Text})
}

func (s *HTTPServer) handlePresignBackup(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())

	key, url, err := s.backups.GetPresignedPutUrl(r.Context(), userID)
	if err != nil {
		s.logger.Error(r.Context(), "backup presign failed", "error", err)
		writeError(w, http.StatusInternalServerError, common.ErrorInternal.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}
