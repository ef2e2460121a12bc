package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atrium-hq/atrium/internal/audit"
	"github.com/atrium-hq/atrium/internal/platform/httpx"
	"github.com/atrium-hq/atrium/internal/shared"
)

// Recorder appends audit events; failures never surface here.
type Recorder interface {
	Record(ctx context.Context, ev audit.Event) audit.Entry
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	audit    Recorder
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, recorder Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		audit:    recorder,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListTasksRequest{}
	q := r.URL.Query()
	if v := q.Get("client_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			req.ClientID = parsed
		}
	}
	if v := q.Get("status"); v != "" {
		switch v {
		case StatusOpen, StatusDone, StatusCancelled:
			req.Status = v
		default:
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "unknown task status")
			return
		}
	}
	if q.Get("overdue") == "true" {
		req.Overdue = true
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	result, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if result == nil {
		result = []Task{}
	}

	h.record(r, audit.ActionView, "", "listed scheduled tasks")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"tasks": result,
		"total": total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid task id")
		return
	}
	task, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get task", err)
		return
	}
	h.record(r, audit.ActionView, task.Title, "viewed task")
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create task", err)
		return
	}
	h.record(r, audit.ActionCreate, task.Title, "created task")
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid task id")
		return
	}
	var req UpdateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	task, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update task", err)
		return
	}
	h.record(r, audit.ActionEdit, task.Title, "updated task")
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid task id")
		return
	}
	var req TransitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	task, err := h.service.Transition(r.Context(), id, req.Status)
	if err != nil {
		h.respondError(w, "transition task", err)
		return
	}
	h.record(r, audit.ActionEdit, task.Title, fmt.Sprintf("marked task %s", task.Status))
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid task id")
		return
	}
	task, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondError(w, "delete task", err)
		return
	}
	h.record(r, audit.ActionDelete, task.Title, "deleted task")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) record(r *http.Request, action, entityLabel, detail string) {
	if h.audit == nil {
		return
	}
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		return
	}
	h.audit.Record(r.Context(), audit.Event{
		ActorID:     identity.ID,
		Action:      action,
		Module:      shared.ModuleSchedule,
		EntityLabel: entityLabel,
		Detail:      detail,
		Origin:      r.RemoteAddr,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrInvalidTransition) {
		httpx.Problem(w, http.StatusConflict, "Invalid Transition", err.Error())
		return
	}
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
