package stateful

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(a *App, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.mux.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	return w
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "switch.css"), []byte(".toggle-btn{}"), 0o644))

	a := New()
	a.Static("/assets", dir)

	testcases := []struct {
		path string
		code int
		body string
	}{
		{"/assets/css/switch.css", http.StatusOK, ".toggle-btn{}"},
		{"/assets/", http.StatusNotFound, ""},
		{"/assets/css/", http.StatusNotFound, ""},
		{"/assets/missing.css", http.StatusNotFound, ""},
	}
	for _, tc := range testcases {
		t.Run(tc.path, func(t *testing.T) {
			w := serve(a, tc.path)
			assert.Equal(t, tc.code, w.Code)
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestStaticFS(t *testing.T) {
	fsys := fstest.MapFS{
		"switch.css":    {Data: []byte(".toggle-btn{}")},
		"js/lessons.js": {Data: []byte("console.log('on')")},
	}
	a := New()
	a.StaticFS("/static/", fsys)

	assert.Equal(t, ".toggle-btn{}", serve(a, "/static/switch.css").Body.String())
	assert.Equal(t, "console.log('on')", serve(a, "/static/js/lessons.js").Body.String())
	assert.Equal(t, http.StatusNotFound, serve(a, "/static/").Code)
	assert.Equal(t, http.StatusNotFound, serve(a, "/static/js/").Code)
}
