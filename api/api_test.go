package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/teamforge-backend/config"
	"github.com/rpupo63/teamforge-backend/database/dbtest"
	"github.com/rpupo63/teamforge-backend/services"
	"github.com/rpupo63/teamforge-backend/storage"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://signed.example/" + key, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newTestServerWithStore(t, &memStore{objects: map[string][]byte{}})
}

func newTestServerWithStore(t *testing.T, store storage.Storage) *httptest.Server {
	t.Helper()
	db := dbtest.NewDatabase(t)
	cfg := config.Config{
		Port:       "0",
		SecretKey:  "test-secret",
		SessionTTL: time.Hour,
		Storage:    config.StorageConfig{MaxUploadMB: 1},
	}
	srv := httptest.NewServer(newRouter(services.New(db, store, nil), db, withConfig(cfg), withStartupTime(time.Now()), withStorage(store)))
	t.Cleanup(srv.Close)
	return srv
}

// client keeps cookies and never follows redirects.
type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: srv.URL, http: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

func (c *client) do(req *http.Request) (*http.Response, map[string]any) {
	c.t.Helper()
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	body := map[string]any{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func (c *client) json(method, path string, payload any) (*http.Response, map[string]any) {
	c.t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(c.t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, body)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *client) form(path string, values url.Values) (*http.Response, map[string]any) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodPost, c.base+path, strings.NewReader(values.Encode()))
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) upload(path, field, filename, contentType string, data []byte) (*http.Response, map[string]any) {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(c.t, err)
	_, err = part.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, c.base+path, &buf)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *client) signup(username string) {
	c.t.Helper()
	resp, _ := c.json(http.MethodPost, "/api/register", map[string]string{
		"username": username, "email": username + "@x.com", "password": "password1",
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	resp, _ = c.json(http.MethodPost, "/api/login", map[string]string{"username": username, "password": "password1"})
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
}

func (c *client) createProject(name string) uint {
	c.t.Helper()
	resp, body := c.json(http.MethodPost, "/api/create_project", map[string]any{
		"name": name, "description": faker.Sentence(), "sector": "embedded", "people_count": 4,
		"skills": []string{"C", "Other"}, "other_skill": "VHDL",
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode, body)
	return uint(body["project"].(map[string]any)["id"].(float64))
}

func flashMessages(body map[string]any) []string {
	var out []string
	flashes, _ := body["flashes"].([]any)
	for _, f := range flashes {
		out = append(out, f.(map[string]any)["message"].(string))
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, body := newClient(t, srv).json(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "ok"}, body)

	resp, body = newClient(t, srv).json(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAPISessionFlow(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, body := c.json(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "login required", body["error"])

	c.signup("alice")
	resp, body = c.json(http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "alice", profile["user"].(map[string]any)["username"])

	resp, body = c.json(http.MethodPost, "/api/register", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "password1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "User already exists", body["error"])

	resp, _ = c.json(http.MethodPost, "/api/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.json(http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBearerToken(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")
	_, body := c.json(http.MethodPost, "/api/login", map[string]string{"username": "alice", "password": "password1"})
	token := body["token"].(string)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, _ := newClient(t, srv).do(req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req.Header.Set("Authorization", "Bearer "+token+"x")
	resp, _ = newClient(t, srv).do(req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMalformedJSON(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/login", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, body := c.do(req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "payload", body["field"])
}

func TestProjectsAndApplicants(t *testing.T) {
	srv := newTestServer(t)
	alice, bob := newClient(t, srv), newClient(t, srv)
	alice.signup("alice")
	bob.signup("bob")

	id := alice.createProject("Robotics Club")

	resp, body := bob.json(http.MethodGet, fmt.Sprintf("/api/project/%d", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []any{"C", "Other", "VHDL"}, body["project"].(map[string]any)["skills"])
	assert.Equal(t, false, body["is_creator"])

	resp, _ = bob.json(http.MethodPost, fmt.Sprintf("/api/apply/%d", id), map[string]any{"skills": []string{"Python"}})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = bob.json(http.MethodGet, fmt.Sprintf("/api/project/%d/applicants", id), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])

	resp, body = alice.json(http.MethodGet, fmt.Sprintf("/api/project/%d/applicants", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["applicants"], 1)

	resp, _ = alice.json(http.MethodGet, "/api/project/999/applicants", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = alice.json(http.MethodGet, "/api/project/abc", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = bob.json(http.MethodDelete, fmt.Sprintf("/api/project/%d", id), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = alice.json(http.MethodDelete, fmt.Sprintf("/api/project/%d", id), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSearchEndpoints(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")
	resp, _ := c.json(http.MethodPost, "/api/profile/skills", map[string]any{"name": "Python", "level": "Expert", "years": 5})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := c.json(http.MethodGet, "/api/search/all?q=", nil)
	assert.Equal(t, services.EmptyQueryMessage, body["message"])
	assert.Empty(t, body["users"])

	_, body = c.json(http.MethodGet, "/api/search/all?q=pyth", nil)
	skills := body["skills"].([]any)
	require.Len(t, skills, 1)
	assert.Equal(t, "Python", skills[0].(map[string]any)["name"])

	for i := 0; i < 3; i++ {
		newClient(t, srv).signup(fmt.Sprintf("user%d", i))
	}
	_, body = c.json(http.MethodGet, "/api/search/users?q=user&limit=2", nil)
	assert.EqualValues(t, 3, body["total"])
	assert.Len(t, body["results"], 2)
	assert.Equal(t, "/api/search/users?limit=2&offset=2&q=user", body["next"])
}

func TestSearchAllHonoursPreviewLimit(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")
	for i := 0; i < 7; i++ {
		c.createProject(fmt.Sprintf("Proj %d", i))
	}

	_, body := c.json(http.MethodGet, "/api/search/all?q=proj&limit=2", nil)
	assert.Len(t, body["projects"], 2)
	assert.EqualValues(t, 7, body["counts"].(map[string]any)["projects"])
	assert.Contains(t, body["more"], "projects")

	_, body = c.json(http.MethodGet, "/api/search/all?q=proj", nil)
	assert.Len(t, body["projects"], services.DefaultPreviewLimit)

	_, body = c.json(http.MethodGet, "/api/search/all?q=proj&limit=junk", nil)
	assert.Len(t, body["projects"], services.DefaultPreviewLimit)
}

func TestUploadsAcceptClientFieldNames(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")

	resp, body := c.upload("/api/profile/avatar", "avatar_file", "me.png", "image/png", []byte("png"))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body["avatar_url"], "avatars/")

	resp, body = c.upload("/api/profile/demo", "demo_file", "take.mp3", "audio/mpeg", []byte("ID3"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = c.json(http.MethodPost, "/api/profile/skills", map[string]any{"instrument": "Guitar", "level": "Expert", "years": "5"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = c.upload("/api/profile/demo", "recording", "take.mp3", "audio/mpeg", []byte("ID3"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No file uploaded", body["error"])
}

func TestLocalMediaKeepsPrivateDemosPrivate(t *testing.T) {
	srv := newTestServerWithStore(t, storage.NewLocalStorage(t.TempDir(), "test-secret", time.Hour))
	c := newClient(t, srv)
	c.signup("alice")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("is_public", "false"))
	part, err := mw.CreateFormFile("demo_file", "secret.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/profile/demo", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, body := c.do(req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	demo := body["demo"].(map[string]any)
	assert.Equal(t, false, demo["is_public"])
	signed := demo["url"].(string)

	anon := newClient(t, srv)
	for _, path := range []string{"/media/demos/", "/media/demos/1/", strings.SplitN(signed, "?", 2)[0]} {
		resp, err := anon.http.Get(srv.URL + path)
		require.NoError(t, err)
		raw, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.NotContains(t, string(raw), "secret.mp3", path)
	}

	resp, err = anon.http.Get(srv.URL + signed)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ID3", string(raw))

	_, body = anon.json(http.MethodGet, "/api/users/alice", nil)
	assert.Empty(t, body["profile"].(map[string]any)["demos"])
}

func TestUploads(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")

	resp, body := c.upload("/api/profile/avatar", "avatar", "me.png", "image/png", []byte("png"))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body["avatar_url"], "avatars/")

	resp, body = c.upload("/api/profile/avatar", "avatar", "me.bmp", "image/bmp", []byte("bmp"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Only JPG/PNG/WEBP/GIF allowed", body["error"])

	resp, body = c.upload("/api/profile/demo", "demo", "take.mp3", "audio/mpeg", []byte("ID3"))
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	demoID := body["demo"].(map[string]any)["id"].(float64)

	resp, _ = c.json(http.MethodDelete, fmt.Sprintf("/api/profile/demo/%d", int(demoID)), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = c.json(http.MethodDelete, fmt.Sprintf("/api/profile/demo/%d", int(demoID)), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFormFlowsRedirectWithFlash(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	resp, _ := c.json(http.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, _ = c.form("/register", url.Values{"username": {"alice"}, "email": {"alice@x.com"}, "password": {"password1"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	_, body := c.json(http.MethodGet, "/login", nil)
	assert.Contains(t, flashMessages(body), "Registration successful! Please log in.")
	_, body = c.json(http.MethodGet, "/login", nil)
	assert.Empty(t, flashMessages(body))

	resp, _ = c.form("/login", url.Values{"username": {"alice"}, "password": {"wrong-pass"}})
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	_, body = c.json(http.MethodGet, "/login", nil)
	assert.Contains(t, flashMessages(body), "Invalid username or password")

	resp, _ = c.form("/login", url.Values{"username": {"alice"}, "password": {"password1"}})
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp, _ = c.form("/create_project", url.Values{
		"name": {"Robotics Club"}, "description": {"Build robots"}, "sector": {"embedded"},
		"people_count": {"4"}, "skills": {"C", "Other"}, "other_skill": {"VHDL"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	projectPath := resp.Header.Get("Location")
	assert.True(t, strings.HasPrefix(projectPath, "/project/"))

	resp, _ = c.form(projectPath+"/gui", url.Values{"action": {"add_task"}, "title": {"Solder"}})
	assert.Equal(t, projectPath+"/gui", resp.Header.Get("Location"))
	resp, _ = c.form(projectPath+"/gui", url.Values{"action": {"explode"}})
	assert.Equal(t, projectPath+"/gui", resp.Header.Get("Location"))

	resp, body = c.json(http.MethodGet, projectPath+"/gui", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, flashMessages(body), "Unknown action")
	progress := body["workspace"].(map[string]any)["progress"].(map[string]any)
	assert.EqualValues(t, 1, progress["total"])

	resp, _ = c.form("/profile/skills/add", url.Values{"name": {"Guitar"}, "level": {"Advanced"}, "years": {"-3"}})
	assert.Equal(t, "/profile", resp.Header.Get("Location"))
	_, body = c.json(http.MethodGet, "/profile", nil)
	assert.Contains(t, flashMessages(body), "Invalid years value")

	resp, _ = c.json(http.MethodGet, "/logout", nil)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	_, body = c.json(http.MethodGet, "/", nil)
	assert.Equal(t, false, body["authenticated"])
}

func TestDashboardFilters(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)
	c.signup("alice")
	c.createProject("Robotics Club")

	_, body := c.json(http.MethodGet, "/api/dashboard/filters", nil)
	filters := body["filters"].(map[string]any)
	assert.Equal(t, []any{"embedded"}, filters["sectors"])
	assert.Equal(t, []any{"C", "Other", "VHDL"}, filters["skills"])

	_, body = c.json(http.MethodGet, "/api/dashboard?sectors=embedded&skills=VHDL", nil)
	dash := body["dashboard"].(map[string]any)
	assert.Len(t, dash["filtered_projects"], 1)
	assert.Len(t, dash["my_projects"], 1)
	assert.Equal(t, "sectors=embedded&skills=VHDL", body["filter_query"])

	_, body = c.json(http.MethodGet, "/api/dashboard?sectors=web", nil)
	assert.Empty(t, body["dashboard"].(map[string]any)["filtered_projects"])
}

func TestHomeListsProjectsNewestFirst(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t, srv)

	_, body := c.json(http.MethodGet, "/", nil)
	assert.Empty(t, body["projects"])

	c.signup("alice")
	c.createProject("Robotics Club")
	c.createProject("Web Guild")

	_, body = newClient(t, srv).json(http.MethodGet, "/", nil)
	assert.Equal(t, "home", body["page"])
	assert.Equal(t, false, body["authenticated"])
	projects := body["projects"].([]any)
	require.Len(t, projects, 2)
	assert.Equal(t, "Web Guild", projects[0].(map[string]any)["name"])
	assert.Equal(t, "Robotics Club", projects[1].(map[string]any)["name"])
}
