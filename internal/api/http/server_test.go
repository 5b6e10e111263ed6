package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-tracker/internal/auth"
	"github.com/spec-kit/course-tracker/internal/config"
	"github.com/spec-kit/course-tracker/internal/observability"
	"github.com/spec-kit/course-tracker/internal/repository"
	"github.com/spec-kit/course-tracker/internal/seed"
)

type testServer struct {
	app     *fiber.App
	metrics *observability.Metrics
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	courses := repository.NewMemoryCourseRepository()
	seeder := &seed.Seeder{Users: users, Courses: courses, BcryptCost: 4}
	catalog, err := seed.DefaultCatalog()
	require.NoError(t, err)
	_, err = seeder.SeedUsers(context.Background(), seed.DefaultAccounts)
	require.NoError(t, err)
	_, err = seeder.SeedCourses(context.Background(), catalog)
	require.NoError(t, err)

	metrics := observability.NewMetrics()
	app, err := NewServer(ServerDeps{
		Config: &config.Config{
			App:  config.AppConfig{Name: "course-tracker-test", Version: "test"},
			Auth: config.AuthConfig{JWTSecret: "test-secret", BcryptCost: 4},
		},
		Metrics: metrics,
		Users:   users,
		Courses: courses,
	})
	require.NoError(t, err)
	return &testServer{app: app, metrics: metrics}
}

type response struct {
	*nethttp.Response
	body string
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.body), &out), r.body)
	return out
}

func (r response) sessionCookie() *nethttp.Cookie {
	for _, c := range r.Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func (s *testServer) do(t *testing.T, method, target, contentType, body, token string) response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.AddCookie(&nethttp.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return response{Response: resp, body: string(raw)}
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := s.do(t, nethttp.MethodPost, "/api/auth/login", fiber.MIMEApplicationJSON,
		`{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, resp.body)
	cookie := resp.sessionCookie()
	require.NotNil(t, cookie)
	return cookie.Value
}

func errorCode(t *testing.T, resp response) string {
	t.Helper()
	errBody, ok := resp.json(t)["error"].(map[string]any)
	require.True(t, ok, resp.body)
	return errBody["code"].(string)
}

const newCourse = `{"grade":4,"discipline":"Coding","courseName":"Python Games"}`

func TestManagerCanCreateCourse(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "manager@edtech.com", "manager123")

	resp := s.do(t, nethttp.MethodPost, "/api/courses", fiber.MIMEApplicationJSON, newCourse, token)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, resp.body)
	course := resp.json(t)["course"].(map[string]any)
	assert.Equal(t, "Python Games", course["courseName"])
	assert.Equal(t, "manager@edtech.com", course["updatedBy"])
	assert.Equal(t, "Not Started", course["textbookStatus"])
	id := course["id"].(string)

	resp = s.do(t, nethttp.MethodPut, "/api/courses/"+id, fiber.MIMEApplicationJSON, `{"workbookStatus":"Review"}`, token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, resp.body)
	assert.Equal(t, "Review", resp.json(t)["course"].(map[string]any)["workbookStatus"])

	resp = s.do(t, nethttp.MethodGet, "/api/courses?grade=4", "", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, resp.json(t)["courses"], 2)

	resp = s.do(t, nethttp.MethodDelete, "/api/courses/"+id, "", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, resp.body)

	resp = s.do(t, nethttp.MethodGet, "/api/courses/"+id, "", "", token)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestEmployeeCannotMutateCourses(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "employee@edtech.com", "employee123")

	resp := s.do(t, nethttp.MethodPost, "/api/courses", fiber.MIMEApplicationJSON, newCourse, token)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))

	resp = s.do(t, nethttp.MethodGet, "/api/courses", "", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Len(t, resp.json(t)["courses"], 14)

	resp = s.do(t, nethttp.MethodDelete, "/api/courses/anything", "", "", token)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)
}

func TestAPIWithoutSession(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{nethttp.MethodGet, "/api/courses", ""},
		{nethttp.MethodGet, "/api/courses/x", ""},
		{nethttp.MethodPost, "/api/courses", newCourse},
		{nethttp.MethodGet, "/api/auth/me", ""},
	} {
		resp := s.do(t, tc.method, tc.path, fiber.MIMEApplicationJSON, tc.body, "")
		assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode, tc.path)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, resp))
	}

	resp := s.do(t, nethttp.MethodGet, "/api/courses", "", "", "forged.token.value")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	s := newTestServer(t)

	wrong := s.do(t, nethttp.MethodPost, "/api/auth/login", fiber.MIMEApplicationJSON,
		`{"email":"manager@edtech.com","password":"nope"}`, "")
	unknown := s.do(t, nethttp.MethodPost, "/api/auth/login", fiber.MIMEApplicationJSON,
		`{"email":"ghost@edtech.com","password":"manager123"}`, "")

	assert.Equal(t, nethttp.StatusUnauthorized, wrong.StatusCode)
	assert.Equal(t, wrong.body, unknown.body)
	assert.Nil(t, wrong.sessionCookie())

	missing := s.do(t, nethttp.MethodPost, "/api/auth/login", fiber.MIMEApplicationJSON, `{"email":""}`, "")
	assert.Equal(t, nethttp.StatusBadRequest, missing.StatusCode)
}

func TestFormLoginAndLogout(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"email": {"Employee@EdTech.com"}, "password": {"employee123"}}.Encode()

	resp := s.do(t, nethttp.MethodPost, "/api/auth/login", fiber.MIMEApplicationForm, form, "")
	require.Equal(t, nethttp.StatusSeeOther, resp.StatusCode, resp.body)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	cookie := resp.sessionCookie()
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	resp = s.do(t, nethttp.MethodGet, "/api/auth/me", "", "", cookie.Value)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, "employee", resp.json(t)["user"].(map[string]any)["role"])

	resp = s.do(t, nethttp.MethodPost, "/api/auth/logout", fiber.MIMEApplicationForm, "", cookie.Value)
	require.Equal(t, nethttp.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	cleared := resp.sessionCookie()
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	resp = s.do(t, nethttp.MethodGet, "/dashboard", "", "", cleared.Value)
	assert.Equal(t, nethttp.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = s.do(t, nethttp.MethodPost, "/api/auth/logout", fiber.MIMEApplicationJSON, "", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestDashboardFilters(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t, "employee@edtech.com", "employee123")

	resp := s.do(t, nethttp.MethodGet, "/dashboard?grade=4", "", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, "Introduction to Python")
	assert.NotContains(t, resp.body, "Basic Circuits")
	assert.Contains(t, resp.body, `<option value="4" selected>`)

	resp = s.do(t, nethttp.MethodGet, "/dashboard?discipline=Robotics&textbookStatus=In+Progress", "", "", token)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, "Simple Machines and Robots")
	assert.Contains(t, resp.body, "Autonomous Robots")
	assert.NotContains(t, resp.body, "AI and Machine Learning in Robotics")
	assert.NotContains(t, resp.body, "Gears and Motion</a>")

	resp = s.do(t, nethttp.MethodGet, "/dashboard?grade=13", "", "", token)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)
	body := `{"name":"New Hire","email":"hire@edtech.com","password":"secret1"}`

	resp := s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON, body, "")
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, resp.body)
	assert.Equal(t, "employee", resp.json(t)["user"].(map[string]any)["role"])
	assert.NotNil(t, resp.sessionCookie())

	resp = s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON, body, "")
	assert.Equal(t, nethttp.StatusConflict, resp.StatusCode)

	managerBody := `{"name":"Boss","email":"boss@edtech.com","password":"secret1","role":"manager"}`
	resp = s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON, managerBody, "")
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	employee := s.login(t, "employee@edtech.com", "employee123")
	resp = s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON, managerBody, employee)
	assert.Equal(t, nethttp.StatusForbidden, resp.StatusCode)

	manager := s.login(t, "manager@edtech.com", "manager123")
	resp = s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON, managerBody, manager)
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode, resp.body)
	assert.Equal(t, "manager", resp.json(t)["user"].(map[string]any)["role"])
	assert.Nil(t, resp.sessionCookie(), "an existing session is left in place")

	resp = s.do(t, nethttp.MethodPost, "/api/auth/register", fiber.MIMEApplicationJSON,
		`{"name":"X","email":"not-an-email","password":"secret1"}`, "")
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, resp))
}

func TestPagesBehindGatekeeper(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, nethttp.MethodGet, "/dashboard", "", "", "")
	assert.Equal(t, nethttp.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp = s.do(t, nethttp.MethodGet, "/dashboard/courses/new", "", "", "garbage")
	assert.Equal(t, nethttp.StatusTemporaryRedirect, resp.StatusCode)

	resp = s.do(t, nethttp.MethodGet, "/login", "", "", "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, "Sign in")

	employee := s.login(t, "employee@edtech.com", "employee123")
	resp = s.do(t, nethttp.MethodGet, "/dashboard", "", "", employee)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.body, "Introduction to Python")

	resp = s.do(t, nethttp.MethodGet, "/dashboard/courses/new", "", "", employee)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = s.do(t, nethttp.MethodGet, "/dashboard/courses/missing", "", "", employee)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = s.do(t, nethttp.MethodGet, "/login", "", "", employee)
	assert.Equal(t, nethttp.StatusFound, resp.StatusCode)

	manager := s.login(t, "manager@edtech.com", "manager123")
	resp = s.do(t, nethttp.MethodGet, "/dashboard/courses/new", "", "", manager)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	snapshot := s.metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.SessionRejections[auth.ReasonMissing])
	assert.Equal(t, int64(1), snapshot.SessionRejections[auth.ReasonInvalidSignature])
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp := s.do(t, nethttp.MethodGet, "/health/live", "", "", "")
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp = s.do(t, nethttp.MethodGet, "/health/ready", "", "", "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode, resp.body)
	deps := resp.json(t)["dependencies"].(map[string]any)
	assert.Equal(t, "in-memory", deps["postgres"])
	assert.Equal(t, "disabled", deps["redis"])
}
