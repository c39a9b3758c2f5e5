package handler_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leca/picvault/internal/config"
	"github.com/leca/picvault/internal/database"
	"github.com/leca/picvault/internal/model"
	"github.com/leca/picvault/internal/router"
	"github.com/leca/picvault/internal/storage"
	"github.com/stretchr/testify/require"
)

const testPassword = "3498"

// testEnv is a running server plus a cookie-keeping client that does not
// follow redirects.
type testEnv struct {
	ts         *httptest.Server
	client     *http.Client
	db         *database.SQLiteDB
	storageDir string
}

// newTestEnv creates a test HTTP server backed by in-memory SQLite
// and a temporary filesystem storage directory.
func newTestEnv(t *testing.T, mutate ...func(*config.Config)) *testEnv {
	t.Helper()

	db, err := database.NewSQLiteDB("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Password = testPassword
	cfg.SessionSecret = "0123456789abcdef0123456789abcdef"
	for _, m := range mutate {
		m(cfg)
	}

	srv := router.New(db, storage.NewFileSystem(dir), cfg)
	ts := httptest.NewServer(srv.Router)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		ts: ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		db:         db,
		storageDir: dir,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.ts.URL+path, nil)
	require.NoError(t, err)
	return e.do(t, req)
}

func (e *testEnv) login(t *testing.T, password string) *http.Response {
	t.Helper()
	form := url.Values{"password": {password}}
	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/login", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(t, req)
}

func (e *testEnv) upload(t *testing.T, fileName string, content []byte) *http.Response {
	t.Helper()
	body, contentType := multipartFileBody(t, "file", fileName, content)
	req, err := http.NewRequest(http.MethodPost, e.ts.URL+"/", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	return e.do(t, req)
}

func (e *testEnv) listing(t *testing.T) []*model.Image {
	t.Helper()
	images, err := e.db.ListImages()
	require.NoError(t, err)
	return images
}

// storedFiles lists the regular files in the storage directory.
func (e *testEnv) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(e.storageDir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// multipartFileBody builds a multipart request body with a file field.
func multipartFileBody(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return data
}
