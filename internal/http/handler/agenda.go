package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/minsu-lee/agenda-api/internal/agenda"
	"github.com/minsu-lee/agenda-api/internal/middleware"
	"github.com/minsu-lee/agenda-api/internal/model"
	"github.com/minsu-lee/agenda-api/internal/service"
	"github.com/minsu-lee/agenda-api/internal/session"
)

const maxAgendaBodySize = 1 << 20 // 1 MB

// AgendaHandler handles /api/v1/agendas requests. Mutations go through the
// session coordinator so optimistic state, notifications, and the delayed
// carry-over follow-up stay consistent.
type AgendaHandler struct {
	coord *session.Coordinator
}

func NewAgendaHandler(coord *session.Coordinator) *AgendaHandler {
	return &AgendaHandler{coord: coord}
}

// ServeHTTP routes:
//
//	GET    /api/v1/agendas
//	POST   /api/v1/agendas
//	DELETE /api/v1/agendas/{id}?confirm=true
//	PUT    /api/v1/agendas/{id}/tasks
//	PATCH  /api/v1/agendas/{id}/tasks/{taskID}
func (h *AgendaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.GetOwnerID(r)
	if ownerID == "" {
		WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "owner not authenticated")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAgendaBodySize)

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/agendas")
	rest = strings.Trim(rest, "/")

	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r, ownerID)
		case http.MethodPost:
			h.handleSubmit(w, r, ownerID)
		default:
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		}
		return
	}

	parts := strings.Split(rest, "/")
	switch {
	case len(parts) == 1:
		if r.Method != http.MethodDelete {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleDelete(w, r, ownerID, parts[0])
	case len(parts) == 2 && parts[1] == "tasks":
		if r.Method != http.MethodPut {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleEditTasks(w, r, ownerID, parts[0])
	case len(parts) == 3 && parts[1] == "tasks":
		if r.Method != http.MethodPatch {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
			return
		}
		h.handleToggleTask(w, r, ownerID, parts[0], parts[2])
	default:
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "endpoint not found")
	}
}

// --- DTOs ---

type submitAgendaRequest struct {
	Tasks []string `json:"tasks"`
}

type submitAgendaResponse struct {
	Agenda    model.Agenda `json:"agenda"`
	Created   bool         `json:"created"`
	CarryOver int          `json:"carry_over_pending"`
}

type editTasksRequest struct {
	Tasks []string `json:"tasks"`
}

type toggleTaskResponse struct {
	TaskID    string `json:"task_id"`
	Completed bool   `json:"completed"`
}

// --- Handlers ---

func (h *AgendaHandler) handleList(w http.ResponseWriter, r *http.Request, ownerID string) {
	agendas := h.coord.Refresh(r.Context(), ownerID)
	WriteJSON(w, http.StatusOK, map[string]any{"agendas": agendas})
}

func (h *AgendaHandler) handleSubmit(w http.ResponseWriter, r *http.Request, ownerID string) {
	var req submitAgendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	res, err := h.coord.Submit(r.Context(), ownerID, req.Tasks)
	if err != nil {
		handleAgendaError(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, submitAgendaResponse{
		Agenda:    res.Agenda,
		Created:   res.Created,
		CarryOver: len(res.CarryOver),
	})
}

func (h *AgendaHandler) handleToggleTask(w http.ResponseWriter, r *http.Request, ownerID, agendaID, taskID string) {
	completed, err := h.coord.ToggleTask(r.Context(), ownerID, agendaID, taskID)
	if err != nil {
		handleAgendaError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, toggleTaskResponse{TaskID: taskID, Completed: completed})
}

func (h *AgendaHandler) handleEditTasks(w http.ResponseWriter, r *http.Request, ownerID, agendaID string) {
	var req editTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid request body")
		return
	}

	tasks, err := h.coord.EditTasks(r.Context(), ownerID, agendaID, req.Tasks)
	if err != nil {
		handleAgendaError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

func (h *AgendaHandler) handleDelete(w http.ResponseWriter, r *http.Request, ownerID, agendaID string) {
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := h.coord.Delete(r.Context(), ownerID, agendaID, confirmed); err != nil {
		handleAgendaError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "agenda deleted"})
}

// handleAgendaError maps coordinator and service errors to HTTP responses.
func handleAgendaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agenda.ErrNoTasks):
		WriteError(w, http.StatusBadRequest, "NO_TASKS", "at least one non-empty task is required")
	case errors.Is(err, session.ErrNotConfirmed):
		WriteError(w, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", "deletion requires confirm=true")
	case errors.Is(err, service.ErrNotFound):
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "agenda or task not found")
	default:
		slog.Error("agenda internal error", "error", err.Error())
		WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
