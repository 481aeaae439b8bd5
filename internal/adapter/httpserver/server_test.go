package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fmsilvestri/condobase/internal/app"
	"github.com/fmsilvestri/condobase/internal/auth"
	"github.com/fmsilvestri/condobase/internal/domain"
	"github.com/fmsilvestri/condobase/internal/platform/config"
	"github.com/fmsilvestri/condobase/internal/platform/correlation"
	apperrors "github.com/fmsilvestri/condobase/internal/platform/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppURL = "https://app.condobase.example"

// tokenVerifierStub accepts tokens of the form role:userID:condominiumID.
type tokenVerifierStub struct{}

func (tokenVerifierStub) Verify(token string) (*auth.Principal, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return nil, errors.New("malformed token")
	}
	role, err := domain.ParseRole(parts[0])
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(parts[1])
	if err != nil {
		return nil, err
	}
	condoID, err := uuid.Parse(parts[2])
	if err != nil {
		return nil, err
	}
	return &auth.Principal{UserID: userID, CondominiumID: condoID, Role: role}, nil
}

func tokenFor(a app.Actor) string {
	return fmt.Sprintf("%s:%s:%s", a.Role, a.UserID, a.CondominiumID)
}

func newActor(role domain.Role) app.Actor {
	return app.Actor{UserID: uuid.New(), CondominiumID: uuid.New(), Role: role}
}

type testServerOption func(*Server)

func withHealthChecks(checks ...HealthCheck) testServerOption {
	return func(s *Server) { s.healthChecks = checks }
}

func newTestServer(t *testing.T, svc appService, opts ...testServerOption) *Server {
	t.Helper()
	cfg := &config.Config{
		AppEnv:             "test",
		Port:               "0",
		AppURL:             testAppURL,
		LoginRatePerSecond: 100,
		LoginBurst:         100,
	}
	srv, err := NewServer(cfg, svc, tokenVerifierStub{}, Handlers{}, nil, nil)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

type request struct {
	method  string
	path    string
	body    any
	token   string
	headers map[string]string
}

func do(t *testing.T, srv *Server, r request) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if r.body != nil {
		if raw, ok := r.body.(string); ok {
			body.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&body).Encode(r.body))
		}
	}
	req := httptest.NewRequest(r.method, r.path, &body)
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestNewServer_InvalidAppURL(t *testing.T) {
	_, err := NewServer(&config.Config{AppURL: "not a url"}, &mockAppService{}, tokenVerifierStub{}, Handlers{}, nil, nil)
	assert.Error(t, err)
}

func TestAppOrigin(t *testing.T) {
	origin, err := appOrigin("https://app.condobase.example/login?next=/")
	require.NoError(t, err)
	assert.Equal(t, "https://app.condobase.example", origin)

	_, err = appOrigin("/relative")
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := do(t, srv, request{method: http.MethodGet, path: "/api/v1/notifications"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperrors.TypeUnauthorized, decodeError(t, rec).Type)

	rec = do(t, srv, request{method: http.MethodGet, path: "/api/v1/notifications", token: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decodeError(t, rec).Error)
}

func TestRequireAuth_ChecksAccountState(t *testing.T) {
	sindico := newActor(domain.RoleSindico)
	account := &domain.User{ID: sindico.UserID, CondominiumID: sindico.CondominiumID, Role: domain.RoleSindico, Active: true}
	svc := &mockAppService{
		authenticateFn: func(_ context.Context, p *auth.Principal) (*domain.User, error) {
			assert.Equal(t, sindico.UserID, p.UserID)
			if !account.Active {
				return nil, domain.ErrInvalidCredentials
			}
			return account, nil
		},
		listUsersFn: func(context.Context, app.Actor, domain.Page) ([]*domain.User, error) {
			return []*domain.User{account}, nil
		},
	}
	srv := newTestServer(t, svc)
	listUsers := request{method: http.MethodGet, path: "/api/v1/users", token: tokenFor(sindico)}

	assert.Equal(t, http.StatusOK, do(t, srv, listUsers).Code)

	account.Role = domain.RoleResident
	rec := do(t, srv, listUsers)
	assert.Equal(t, http.StatusForbidden, rec.Code, "demoted account loses manager rights before its token expires")

	account.Active = false
	rec = do(t, srv, listUsers)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "account is inactive or no longer exists", decodeError(t, rec).Error)
}

func TestRequireRole(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	tests := []struct {
		name   string
		role   domain.Role
		method string
		path   string
		want   int
	}{
		{"resident cannot list users", domain.RoleResident, http.MethodGet, "/api/v1/users", http.StatusForbidden},
		{"staff cannot create equipment", domain.RoleStaff, http.MethodPost, "/api/v1/equipment", http.StatusForbidden},
		{"sindico cannot manage condominiums", domain.RoleSindico, http.MethodGet, "/api/v1/condominiums", http.StatusForbidden},
		{"sindico cannot change permissions", domain.RoleSindico, http.MethodPut, "/api/v1/permissions", http.StatusForbidden},
		{"resident cannot change maintenance status", domain.RoleResident, http.MethodPost, "/api/v1/maintenance/" + uuid.NewString() + "/status", http.StatusForbidden},
		{"resident cannot see employees", domain.RoleResident, http.MethodGet, "/api/v1/employees", http.StatusForbidden},
		{"resident cannot download reports", domain.RoleResident, http.MethodGet, "/api/v1/reports/maintenance.pdf", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, request{method: tt.method, path: tt.path, token: tokenFor(newActor(tt.role)), body: "{}"})
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, apperrors.TypeForbidden, decodeError(t, rec).Type)
		})
	}
}

func TestRequireModule_Disabled(t *testing.T) {
	actor := newActor(domain.RoleSindico)
	svc := &mockAppService{
		moduleEnabledFn: func(_ context.Context, condominiumID uuid.UUID, module domain.Module) (bool, error) {
			assert.Equal(t, actor.CondominiumID, condominiumID)
			return module != domain.ModuleMarket, nil
		},
		listProductsFn: func(context.Context, app.Actor, domain.Page) ([]*domain.Product, error) {
			t.Fatal("handler must not run for a disabled module")
			return nil, nil
		},
	}
	srv := newTestServer(t, svc)

	rec := do(t, srv, request{method: http.MethodGet, path: "/api/v1/market/products", token: tokenFor(actor)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "module disabled", resp.Error)
	assert.Equal(t, "market", resp.Context["module"])
}

func TestRequireModule_LookupFailure(t *testing.T) {
	svc := &mockAppService{
		moduleEnabledFn: func(context.Context, uuid.UUID, domain.Module) (bool, error) {
			return false, errors.New("redis down")
		},
	}
	srv := newTestServer(t, svc)

	rec := do(t, srv, request{method: http.MethodGet, path: "/api/v1/teams", token: tokenFor(newActor(domain.RoleStaff))})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCondominiumOverride(t *testing.T) {
	target := uuid.New()
	var seen []uuid.UUID
	svc := &mockAppService{
		listTeamsFn: func(_ context.Context, actor app.Actor, _ domain.Page) ([]*domain.Team, error) {
			seen = append(seen, actor.CondominiumID)
			return nil, nil
		},
	}
	srv := newTestServer(t, svc)
	headers := map[string]string{condominiumHeader: target.String()}

	admin := newActor(domain.RoleAdmin)
	rec := do(t, srv, request{method: http.MethodGet, path: "/api/v1/teams", token: tokenFor(admin), headers: headers})
	require.Equal(t, http.StatusOK, rec.Code)

	sindico := newActor(domain.RoleSindico)
	rec = do(t, srv, request{method: http.MethodGet, path: "/api/v1/teams", token: tokenFor(sindico), headers: headers})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []uuid.UUID{target, sindico.CondominiumID}, seen)

	rec = do(t, srv, request{method: http.MethodGet, path: "/api/v1/teams", token: tokenFor(admin), headers: map[string]string{condominiumHeader: "nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorrelationIDIsEchoed(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := do(t, srv, request{method: http.MethodGet, path: "/health/live", headers: map[string]string{correlation.Header: "req-123"}})
	assert.Equal(t, "req-123", rec.Header().Get(correlation.Header))

	rec = do(t, srv, request{method: http.MethodGet, path: "/health/live"})
	assert.Len(t, rec.Header().Get(correlation.Header), 8)
}

func TestCORSAllowsAppOrigin(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := do(t, srv, request{method: http.MethodOptions, path: "/api/v1/me", headers: map[string]string{
		"Origin":                        testAppURL,
		"Access-Control-Request-Method": http.MethodGet,
	}})
	assert.Equal(t, testAppURL, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, srv, request{method: http.MethodOptions, path: "/api/v1/me", headers: map[string]string{
		"Origin":                        "https://evil.example",
		"Access-Control-Request-Method": http.MethodGet,
	}})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRouteIsStructured404(t *testing.T) {
	srv := newTestServer(t, &mockAppService{})

	rec := do(t, srv, request{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperrors.TypeNotFound, decodeError(t, rec).Type)
}

func TestMountedHandlers(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })
	cfg := &config.Config{AppURL: testAppURL, LoginRatePerSecond: 1, LoginBurst: 1}
	srv, err := NewServer(cfg, &mockAppService{}, tokenVerifierStub{}, Handlers{WebSocket: ok, Metrics: ok}, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, do(t, srv, request{method: http.MethodGet, path: "/ws"}).Code)
	assert.Equal(t, http.StatusTeapot, do(t, srv, request{method: http.MethodGet, path: "/metrics"}).Code)
}
