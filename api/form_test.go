package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/teamforge-backend/errs"
)

func TestFlashRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	setFlash(rec, flash{Category: flashError, Message: "Skill already exists"})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	out := httptest.NewRecorder()
	flashes := popFlashes(out, req)
	require.Len(t, flashes, 1)
	assert.Equal(t, "Skill already exists", flashes[0].Message)
	assert.Equal(t, flashError, flashes[0].Category)

	cookies := out.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestPopFlashesIgnoresGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "%%%"})
	assert.Equal(t, []flash{}, popFlashes(httptest.NewRecorder(), req))
}

func TestFormValues(t *testing.T) {
	body := url.Values{"skills": {"C", " ", " Go "}, "is_public": {"on"}, "people_count": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/create_project", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.NoError(t, parseForm(httptest.NewRecorder(), req, maxJSONBody))

	assert.Equal(t, []string{"C", "Go"}, formValues(req, "skills"))
	assert.True(t, formBool(req, "is_public"))
	assert.False(t, formBool(req, "missing"))

	_, err := formInt(req, "people_count")
	assert.True(t, errs.IsInvalidFieldError(err))
	n, err := formInt(req, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReadUploadEnforcesLimit(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("demo", "big.mp3")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte("a"), 64<<10))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/demo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, _, err = readUpload(httptest.NewRecorder(), req, 16<<10, "demo")
	require.Error(t, err)
	assert.True(t, errs.IsMaxBodySizeExceededError(err))
	assert.Equal(t, http.StatusRequestEntityTooLarge, errs.StatusCode(err))
	assert.Equal(t, "File too large (max 16 KiB)", err.Error())
}

func TestReadUploadMissingFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/demo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	_, _, err := readUpload(httptest.NewRecorder(), req, 1<<20, "demo")
	assert.True(t, errs.IsMissingRequiredFieldError(err))
}

func TestReadUploadFallsBackAcrossFieldNames(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("demo", "take.mp3")
	require.NoError(t, err)
	_, err = part.Write([]byte("ID3"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/profile/demo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	up, done, err := readUpload(httptest.NewRecorder(), req, 1<<20, "demo_file", "demo")
	require.NoError(t, err)
	defer done()
	assert.Equal(t, "take.mp3", up.Filename)
	assert.EqualValues(t, 3, up.Size)
}
