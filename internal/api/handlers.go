package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/career-roadmap/ai-gateway/internal/core"
	"github.com/career-roadmap/ai-gateway/internal/errx"
	"github.com/career-roadmap/ai-gateway/internal/logx"
	"github.com/career-roadmap/ai-gateway/internal/notify"
)

const maxRequestBytes = 1 << 20

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) bool
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type APIHandler struct {
	chat        *core.ChatService
	roadmaps    *core.RoadmapService
	suggestions *core.SuggestionService
	notifier    Notifier
	db          Pinger
	engines     func() []string
}

func NewAPIHandler(
	chat *core.ChatService,
	roadmaps *core.RoadmapService,
	suggestions *core.SuggestionService,
	notifier Notifier,
	db Pinger,
	engines func() []string,
) *APIHandler {
	return &APIHandler{
		chat:        chat,
		roadmaps:    roadmaps,
		suggestions: suggestions,
		notifier:    notifier,
		db:          db,
		engines:     engines,
	}
}

type AskRequest struct {
	Engine   string `json:"engine"`
	Question string `json:"question"`
	UID      string `json:"uid"`
}

func (h *APIHandler) AskAIHandler(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Engine) == "" || strings.TrimSpace(req.Question) == "" {
		writeError(w, r, errx.Validation("Missing engine or question"))
		return
	}

	answer, err := h.chat.Ask(r.Context(), req.UID, req.Engine, req.Question)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type HistoryRecord struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"` // "user" or "ai"
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Engine    string `json:"engine"`
}

type HistoryResponse struct {
	ChatHistory []HistoryRecord `json:"chat_history"`
}

func (h *APIHandler) GetChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.chat.History(r.Context(), r.URL.Query().Get("uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	records := make([]HistoryRecord, 0, 2*len(entries))
	for _, e := range entries {
		ts := e.Timestamp.UTC().Format(time.RFC3339Nano)
		records = append(records,
			HistoryRecord{ID: 2 * e.ID, Type: "user", Content: e.Question, Timestamp: ts, Engine: e.Engine},
			HistoryRecord{ID: 2*e.ID + 1, Type: "ai", Content: e.Answer, Timestamp: ts, Engine: e.Engine},
		)
	}
	writeJSON(w, http.StatusOK, HistoryResponse{ChatHistory: records})
}

func (h *APIHandler) ClearChatHistoryHandler(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.chat.ClearHistory(r.Context(), r.URL.Query().Get("uid"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Chat history cleared successfully",
		"deleted": deleted,
	})
}

type RoadmapRequest struct {
	UID           string   `json:"uid"`
	SkillsToLearn []string `json:"skills_to_learn"`
	PlanningDays  *int     `json:"planning_days"`
}

type RoadmapResponse struct {
	RoadmapSteps []string `json:"roadmap_steps"`
	RoadmapImage string   `json:"roadmap_image"`
	PlanningDays int      `json:"planning_days"`
	DaysPerStep  int      `json:"days_per_step"`
}

func (h *APIHandler) GenerateRoadmapHandler(w http.ResponseWriter, r *http.Request) {
	var req RoadmapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	days := core.DefaultPlanningDays
	if req.PlanningDays != nil {
		days = *req.PlanningDays
	}

	roadmap, err := h.roadmaps.Generate(r.Context(), req.UID, req.SkillsToLearn, days)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoadmapResponse{
		RoadmapSteps: roadmap.Steps,
		RoadmapImage: imageRoute + "/" + filepath.Base(roadmap.ImagePath),
		PlanningDays: roadmap.PlanningDays,
		DaysPerStep:  roadmap.DaysPerStep,
	})
}

type SuggestionRequest struct {
	UID                  string   `json:"uid"`
	Domain               string   `json:"domain"`
	CompletionPercentage *float64 `json:"completion_percentage"`
}

func (req SuggestionRequest) percentage() float64 {
	if req.CompletionPercentage == nil {
		return 0
	}
	return *req.CompletionPercentage
}

type EventSuggestion struct {
	Name string `json:"name"`
	Date string `json:"date"`
	Link string `json:"link"`
}

type ProjectSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *APIHandler) SuggestEventHandler(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	events, err := h.suggestions.Events(r.Context(), req.UID, req.Domain, req.percentage())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]EventSuggestion, 0, len(events))
	for _, e := range events {
		out = append(out, EventSuggestion{Name: e.EventName, Date: e.Date, Link: e.Link})
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": out})
}

func (h *APIHandler) SuggestProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req SuggestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	projects, err := h.suggestions.Projects(r.Context(), req.UID, req.Domain, req.percentage())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]ProjectSuggestion, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectSuggestion{Name: p.ProjectName, Description: p.Description})
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

type NotificationRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *APIHandler) SendNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, errx.Validation("Missing email"))
		return
	}
	if req.Subject == "" {
		req.Subject = notify.DefaultSubject
	}

	success := h.notifier.Send(r.Context(), strings.TrimSpace(req.Email), req.Subject, req.Message)
	writeJSON(w, http.StatusOK, map[string]bool{"success": success})
}

func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		log := logx.Ctx(r.Context())
		log.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "engines": h.engines()})
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return errx.Validation("Invalid request body: empty")
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBytes))
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errx.Validation("Invalid request body: too large")
		}
		return errx.Validation("Invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and a message that is safe to return. Causes
// are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logx.Ctx(r.Context())
	if e, ok := errx.As(err); ok {
		status := e.Status()
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str(logx.FieldEngine, e.Engine).Msg("request failed")
		} else {
			log.Debug().Err(err).Msg("request rejected")
		}
		writeJSON(w, status, map[string]string{"error": e.Public()})
		return
	}
	log.Error().Err(err).Msg("unexpected error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errx.SystemErrorMessage})
}
