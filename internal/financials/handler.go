package financials

import (
	"context"
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
	req := ListTermsRequest{}
	q := r.URL.Query()
	if v := q.Get("client_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			req.ClientID = parsed
		}
	}
	if v := q.Get("due_day"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.DueDay = parsed
		}
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
		h.logger.Error("list financial terms", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if result == nil {
		result = []Terms{}
	}

	h.record(r, audit.ActionView, "", "listed financial terms")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"terms": result,
		"total": total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid terms id")
		return
	}
	terms, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get financial terms", err)
		return
	}
	h.record(r, audit.ActionView, terms.ClientName, "viewed financial terms")
	httpx.JSON(w, http.StatusOK, terms)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTermsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	terms, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create financial terms", err)
		return
	}
	h.record(r, audit.ActionCreate, terms.ClientName, "created financial terms")
	httpx.JSON(w, http.StatusCreated, terms)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid terms id")
		return
	}
	var req UpdateTermsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	terms, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update financial terms", err)
		return
	}
	h.record(r, audit.ActionEdit, terms.ClientName, "updated financial terms")
	httpx.JSON(w, http.StatusOK, terms)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid terms id")
		return
	}
	terms, err := h.service.Delete(r.Context(), id)
	if err != nil {
		h.respondError(w, "delete financial terms", err)
		return
	}
	h.record(r, audit.ActionDelete, terms.ClientName, "deleted financial terms")
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
		Module:      shared.ModuleFinancials,
		EntityLabel: entityLabel,
		Detail:      detail,
		Origin:      r.RemoteAddr,
	})
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !httpx.IsClientError(err) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
