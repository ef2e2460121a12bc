package users

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atrium-hq/atrium/internal/access"
	"github.com/atrium-hq/atrium/internal/audit"
	"github.com/atrium-hq/atrium/internal/platform/httpx"
	"github.com/atrium-hq/atrium/internal/shared"
)

// Recorder appends audit events; failures never surface here.
type Recorder interface {
	Record(ctx context.Context, ev audit.Event) audit.Entry
}

// Grants manages the per-module grant set of a user.
type Grants interface {
	GrantsFor(ctx context.Context, userID int64) ([]access.Grant, error)
	SetGrants(ctx context.Context, userID int64, grants []access.Grant) error
}

type Handler struct {
	logger   *slog.Logger
	service  *Service
	grants   Grants
	audit    Recorder
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service, grants Grants, recorder Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:   logger,
		service:  service,
		grants:   grants,
		audit:    recorder,
		validate: validator.New(),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListUsersRequest{}
	q := r.URL.Query()
	req.Search = strings.TrimSpace(q.Get("search"))
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
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if result == nil {
		result = []User{}
	}

	h.record(r, audit.ActionView, "", "listed users")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"users": result,
		"total": total,
	})
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get user", err)
		return
	}
	h.record(r, audit.ActionView, user.Name, "viewed user")
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create user", err)
		return
	}
	h.record(r, audit.ActionCreate, user.Name, "created user account")
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	var req UpdateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update user", err)
		return
	}
	h.record(r, audit.ActionEdit, user.Name, "updated user account")
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) ShowGrants(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get user", err)
		return
	}

	grants, err := h.grants.GrantsFor(r.Context(), id)
	if err != nil {
		h.logger.Error("list grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if grants == nil {
		grants = []access.Grant{}
	}

	h.record(r, audit.ActionView, user.Name, "viewed user grants")
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id": id,
		"grants":  grants,
	})
}

func (h *Handler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid user id")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get user", err)
		return
	}

	var req SetGrantsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	grants := make([]access.Grant, 0, len(req.Grants))
	for _, g := range req.Grants {
		grants = append(grants, access.Grant{UserID: id, Module: g.Module, CanEdit: g.CanEdit})
	}
	if err := h.grants.SetGrants(r.Context(), id, grants); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	stored, err := h.grants.GrantsFor(r.Context(), id)
	if err != nil {
		h.logger.Error("list grants", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if stored == nil {
		stored = []access.Grant{}
	}

	h.record(r, audit.ActionEdit, user.Name, fmt.Sprintf("replaced user grants (%d modules)", len(stored)))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user_id": id,
		"grants":  stored,
	})
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
		Module:      shared.ModuleConfiguration,
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
