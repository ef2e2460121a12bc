package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrium-hq/atrium/internal/access"
	"github.com/atrium-hq/atrium/internal/audit"
	"github.com/atrium-hq/atrium/internal/platform/httpx"
	"github.com/atrium-hq/atrium/internal/shared"
)

type mockClientRepo struct {
	clients map[int64]*Client
	nextID  int64
}

func newMockClientRepo() *mockClientRepo {
	return &mockClientRepo{clients: make(map[int64]*Client), nextID: 1}
}

func (m *mockClientRepo) Get(ctx context.Context, id int64) (*Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockClientRepo) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var out []Client
	for _, c := range m.clients {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockClientRepo) Create(ctx context.Context, client Client) (int64, error) {
	client.ID = m.nextID
	client.CreatedAt = time.Now()
	m.nextID++
	m.clients[client.ID] = &client
	return client.ID, nil
}

func (m *mockClientRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	c, ok := m.clients[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	return nil
}

func (m *mockClientRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

type mockGrantRepo struct {
	grants map[string]access.Grant
}

func (m *mockGrantRepo) GetGrant(ctx context.Context, userID int64, module string) (access.Grant, error) {
	g, ok := m.grants[module]
	if !ok || g.UserID != userID {
		return access.Grant{}, shared.ErrNotFound
	}
	return g, nil
}

func (m *mockGrantRepo) ListGrants(ctx context.Context, userID int64) ([]access.Grant, error) {
	return nil, nil
}

func (m *mockGrantRepo) ReplaceGrants(ctx context.Context, userID int64, grants []access.Grant) error {
	return nil
}

type captureRecorder struct {
	events []audit.Event
}

func (c *captureRecorder) Record(ctx context.Context, ev audit.Event) audit.Entry {
	c.events = append(c.events, ev)
	return audit.Entry{ID: int64(len(c.events)), ActorID: ev.ActorID, Action: ev.Action, Module: ev.Module}
}

// newTestRouter mounts the client routes the way the application router does:
// identity injected, grants enforced per route group.
func newTestRouter(repo Repository, grants *mockGrantRepo, recorder *captureRecorder, identity shared.Identity) http.Handler {
	handler := NewHandler(nil, NewService(repo), recorder)
	guard := access.Middleware{Service: access.NewService(grants)}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithIdentity(req.Context(), identity)))
		})
	})
	r.Route("/clients", func(r chi.Router) {
		handler.MountRoutes(r, guard)
	})
	return r
}

func TestViewOnlyGrantCanListButNotEdit(t *testing.T) {
	repo := newMockClientRepo()
	grants := &mockGrantRepo{grants: map[string]access.Grant{
		shared.ModuleClients: {UserID: 5, Module: shared.ModuleClients, CanEdit: false},
	}}
	recorder := &captureRecorder{}
	user := shared.Identity{ID: 5, Name: "Lia", Role: shared.RoleStandard}
	router := newTestRouter(repo, grants, recorder, user)

	// Edit attempt is rejected before any state change.
	create := httptest.NewRequest(http.MethodPost, "/clients/", strings.NewReader(`{"name":"Acme","tax_id":"123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, create)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, repo.clients, "denied request mutates nothing")
	assert.Empty(t, recorder.events, "denied request is not audited as an action")

	// Viewing succeeds and appends a VIEW entry.
	list := httptest.NewRequest(http.MethodGet, "/clients/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, list)
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, recorder.events, 1)
	ev := recorder.events[0]
	assert.Equal(t, audit.ActionView, ev.Action)
	assert.Equal(t, shared.ModuleClients, ev.Module)
	assert.Equal(t, int64(5), ev.ActorID)
}

func TestAdminFullCycleIsAudited(t *testing.T) {
	repo := newMockClientRepo()
	recorder := &captureRecorder{}
	admin := shared.Identity{ID: 1, Name: "Ana", Role: shared.RoleAdmin}
	router := newTestRouter(repo, &mockGrantRepo{}, recorder, admin)

	create := httptest.NewRequest(http.MethodPost, "/clients/", strings.NewReader(`{"name":"Acme","tax_id":"123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, create)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.clients, 1)

	update := httptest.NewRequest(http.MethodPut, "/clients/1", strings.NewReader(`{"name":"Acme Ltd"}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, update)
	require.Equal(t, http.StatusOK, rec.Code)

	del := httptest.NewRequest(http.MethodDelete, "/clients/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, del)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.Len(t, recorder.events, 3)
	assert.Equal(t, audit.ActionCreate, recorder.events[0].Action)
	assert.Equal(t, audit.ActionEdit, recorder.events[1].Action)
	assert.Equal(t, audit.ActionDelete, recorder.events[2].Action)
	for _, ev := range recorder.events {
		assert.Equal(t, shared.ModuleClients, ev.Module)
		assert.Equal(t, int64(1), ev.ActorID)
	}
}

type duplicateClientRepo struct{ *mockClientRepo }

func (d *duplicateClientRepo) Create(ctx context.Context, client Client) (int64, error) {
	return 0, ErrAlreadyExists
}

func TestCreateDuplicateClientIs409(t *testing.T) {
	recorder := &captureRecorder{}
	repo := &duplicateClientRepo{newMockClientRepo()}
	router := newTestRouter(repo, &mockGrantRepo{}, recorder, shared.Identity{ID: 1, Role: shared.RoleAdmin})

	req := httptest.NewRequest(http.MethodPost, "/clients/", strings.NewReader(`{"name":"Acme","tax_id":"123"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	var problem httpx.ProblemDetail
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&problem))
	assert.Equal(t, "a client with this tax id already exists", problem.Detail)
	assert.Empty(t, recorder.events, "failed create is not audited")
}

func TestShowUnknownClientIs404(t *testing.T) {
	router := newTestRouter(newMockClientRepo(), &mockGrantRepo{}, &captureRecorder{}, shared.Identity{ID: 1, Role: shared.RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/clients/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
