package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	auth "github.com/studiolane/campus-auth"
	"github.com/studiolane/campus-auth/course"
	"github.com/studiolane/campus-auth/dashboard"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*auth.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*auth.User{}}
}

func (m *memUsers) clone(u *auth.User) *auth.User {
	cp := *u
	cp.Sessions = append([]auth.SessionEntry(nil), u.Sessions...)
	return &cp
}

func (m *memUsers) ByID(ctx context.Context, id string) (*auth.User, error) {
	return m.ByIDTx(ctx, nil, id)
}

func (m *memUsers) ByIDTx(_ context.Context, _ bun.IDB, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		return m.clone(u), nil
	}
	return nil, repository.NewRecordNotFound()
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return m.GetByEmailTx(ctx, nil, email)
}

func (m *memUsers) GetByEmailTx(_ context.Context, _ bun.IDB, email string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return m.clone(u), nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

func (m *memUsers) RegisterTx(_ context.Context, _ bun.IDB, user *auth.User) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID.String()] = m.clone(user)
	return m.clone(user), nil
}

func (m *memUsers) SaveTx(_ context.Context, _ bun.IDB, user *auth.User) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[user.ID.String()] = m.clone(user)
	return m.clone(user), nil
}

type passTx struct{}

func (passTx) RunInTx(ctx context.Context, _ *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

type sinkMailer struct{}

func (sinkMailer) Send(context.Context, auth.Message) error { return nil }

type memDashboards struct {
	mu      sync.Mutex
	byOwner map[string]*dashboard.Dashboard
}

func newMemDashboards() *memDashboards {
	return &memDashboards{byOwner: map[string]*dashboard.Dashboard{}}
}

func (m *memDashboards) GetByOwner(_ context.Context, userID uuid.UUID) (*dashboard.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.byOwner[userID.String()]; ok {
		return d, nil
	}
	return nil, dashboard.ErrNotFound
}

func (m *memDashboards) CreateForUserTx(_ context.Context, _ bun.IDB, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byOwner[userID.String()] = &dashboard.Dashboard{ID: uuid.New(), UserID: userID}
	return nil
}

type memCatalog struct {
	records []course.Course
}

func (m *memCatalog) List(context.Context) ([]course.Course, error) {
	return m.records, nil
}

func (m *memCatalog) ListByCategory(_ context.Context, category string) ([]course.Course, error) {
	var out []course.Course
	for _, c := range m.records {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCatalog) ByID(_ context.Context, id string) (*course.Course, error) {
	for i := range m.records {
		if m.records[i].ID.String() == id {
			return &m.records[i], nil
		}
	}
	return nil, repository.NewRecordNotFound()
}

type fixture struct {
	srv        *Server
	svc        *auth.AuthService
	tokens     *auth.TokenService
	dashboards *memDashboards
	catalog    *memCatalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := auth.Config{
		SigningKey:            "test-signing-key",
		SigningMethod:         "HS256",
		Issuer:                "campus-auth-test",
		AccessTokenTTLMinutes: 30,
	}

	tokens := auth.NewTokenService(cfg, nil)
	dashboards := newMemDashboards()

	svc := auth.NewAuthServiceWithStore(newMemUsers(), passTx{}, tokens, cfg).
		WithMailer(sinkMailer{}).
		WithDashboardCreator(dashboards)

	webCourse := course.Course{ID: uuid.New(), Title: "Frontend Web Development", Category: "web-development"}
	webCourse.ApplyDefaults()
	catalog := &memCatalog{records: []course.Course{webCourse}}

	srv := New(Config{
		Port:              0,
		DisableRateLimits: true,
	}, svc, nil, course.NewService(catalog), dashboards, nil)

	return &fixture{
		srv:        srv,
		svc:        svc,
		tokens:     tokens,
		dashboards: dashboards,
		catalog:    catalog,
	}
}

func (f *fixture) request(t *testing.T, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// registerAndVerify drives the service directly to produce a verified
// account with one live session, returning its access token and user id.
func (f *fixture) registerAndVerify(t *testing.T, email string) (string, string) {
	t.Helper()

	reg, err := f.svc.Register(context.Background(), auth.RegisterInput{
		FullName: "Jane Doe",
		Email:    email,
		Password: "a-long-password",
	})
	require.NoError(t, err)

	token, err := f.tokens.IssueVerificationToken(reg.User.ID)
	require.NoError(t, err)

	result, err := f.svc.VerifyEmail(context.Background(), token, auth.DeviceDesktop)
	require.NoError(t, err)

	return result.AccessToken, reg.User.ID
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestHealthRoute(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeBody(t, resp)["status"])
}

func TestRegisterRoute(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/auth/register", map[string]string{
		"full_name": "jane doe",
		"email":     "jane@example.com",
		"password":  "a-long-password",
	}, nil)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])

	// The same address again, different casing.
	resp = f.request(t, http.MethodPost, "/auth/register", map[string]string{
		"full_name": "jane doe",
		"email":     "JANE@example.com",
		"password":  "a-long-password",
	}, nil)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, auth.TextCodeDuplicateEmail, body["code"])
}

func TestRegisterRouteValidation(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/auth/register", map[string]string{
		"full_name": "jane doe",
		"email":     "not-an-email",
		"password":  "short",
	}, nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerifyEmailRoute(t *testing.T) {
	f := newFixture(t)

	reg, err := f.svc.Register(context.Background(), auth.RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "a-long-password",
	})
	require.NoError(t, err)

	token, err := f.tokens.IssueVerificationToken(reg.User.ID)
	require.NoError(t, err)

	resp := f.request(t, http.MethodGet, "/auth/verify-email?token="+token, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/auth/verify-email?token=garbage", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/auth/verify-email", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRoute(t *testing.T) {
	f := newFixture(t)
	f.registerAndVerify(t, "jane@example.com")

	resp := f.request(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "a-long-password",
	}, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["access_token"])

	resp = f.request(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "wrong-password",
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, auth.TextCodeInvalidCredentials, body["code"])
}

func TestLoginRouteUnverified(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Register(context.Background(), auth.RegisterInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
		Password: "a-long-password",
	})
	require.NoError(t, err)

	resp := f.request(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "jane@example.com",
		"password": "a-long-password",
	}, nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, auth.TextCodeEmailNotVerified, body["code"])
}

func TestProfileRoute(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerAndVerify(t, "jane@example.com")

	resp := f.request(t, http.MethodGet, "/auth/profile", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, "jane@example.com", data["email"])

	resp = f.request(t, http.MethodGet, "/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/auth/profile", nil, bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutRoute(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerAndVerify(t, "jane@example.com")

	resp := f.request(t, http.MethodPost, "/auth/logout", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The revoked session no longer authenticates.
	resp = f.request(t, http.MethodGet, "/auth/profile", nil, bearer(token))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, auth.TextCodeSessionRevoked, body["code"])
}

func TestOnboardingRoute(t *testing.T) {
	f := newFixture(t)
	token, _ := f.registerAndVerify(t, "jane@example.com")

	resp := f.request(t, http.MethodPatch, "/auth/onboarding-complete", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "onboarding completed", body["message"])

	resp = f.request(t, http.MethodPatch, "/auth/onboarding-complete", nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "onboarding already completed", body["message"])
}

func TestCourseRoutes(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodGet, "/courses/", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	courseID := f.catalog.records[0].ID.String()
	resp = f.request(t, http.MethodGet, "/courses/"+courseID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/courses/not-a-uuid", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/courses/"+uuid.NewString(), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/courses/category/web-development", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Len(t, body["data"], 1)
}

func TestDashboardRoute(t *testing.T) {
	f := newFixture(t)
	token, userID := f.registerAndVerify(t, "jane@example.com")

	resp := f.request(t, http.MethodGet, "/dashboard/"+userID, nil, bearer(token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Another user's dashboard is off limits.
	resp = f.request(t, http.MethodGet, fmt.Sprintf("/dashboard/%s", uuid.NewString()), nil, bearer(token))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.request(t, http.MethodGet, "/dashboard/"+userID, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOAuthRouteWithoutProvider(t *testing.T) {
	f := newFixture(t)

	resp := f.request(t, http.MethodPost, "/oauth/google", map[string]string{"code": "auth-code"}, nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestParseDeviceClass(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want auth.DeviceClass
	}{
		{"empty", "", auth.DeviceUnknown},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", auth.DeviceMobile},
		{"android phone", "Mozilla/5.0 (Linux; Android 14) Chrome/120 Mobile Safari/537.36", auth.DeviceMobile},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", auth.DeviceTablet},
		{"android tablet", "Mozilla/5.0 (Linux; Android 14; Tablet) Chrome/120", auth.DeviceTablet},
		{"desktop", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120", auth.DeviceDesktop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDeviceClass(tt.ua))
		})
	}
}
