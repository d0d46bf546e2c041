package app

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menuboard/client"
	"menuboard/config"
	"menuboard/database"
	"menuboard/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		UI: config.UIConfig{
			RequestTimeout: 5 * time.Second,
			SessionTTL:     time.Hour,
			MaxSessions:    10,
			RateLimit:      100,
		},
		API: config.APIConfig{
			UploadDir:      t.TempDir(),
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxImageBytes:  1 << 20,
			RateLimit:      100,
		},
		Log: config.LogConfig{Level: "error"},
	}
}

func TestPageAgainstReferenceAPI(t *testing.T) {
	cfg := testConfig(t)
	store := database.NewMemoryMenuStore()
	apiServer := httptest.NewServer(NewAPIRouter(cfg, store))
	defer apiServer.Close()

	cfg.UI.MenuAPIURL = apiServer.URL
	api, err := client.New(cfg.UI.MenuAPIURL, client.WithTimeout(cfg.UI.RequestTimeout))
	require.NoError(t, err)
	ui, err := NewUIRouter(cfg, api)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ui.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(utils.RequestIDHeader))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Latte"))
	require.NoError(t, mw.WriteField("price", "60"))
	require.NoError(t, mw.WriteField("cost", "20"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/save", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	ui.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	menus, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "Latte", menus[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	ui.ServeHTTP(w, req)
	body := w.Body.String()
	assert.Contains(t, body, "เพิ่มเมนูสำเร็จ")
	assert.Contains(t, body, `data-key="1"`)
}

func TestAPIRouterCORSAndSystemRoutes(t *testing.T) {
	router := NewAPIRouter(testConfig(t), database.NewMemoryMenuStore())

	req := httptest.NewRequest(http.MethodOptions, "/add-menu", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	for _, path := range []string{"/healthz", "/metrics", "/menus"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestAPIRouterFractionalRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.RateLimit = 0.4
	router := NewAPIRouter(cfg, database.NewMemoryMenuStore())

	post := func() int {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Latte"))
		require.NoError(t, mw.WriteField("price", "60"))
		require.NoError(t, mw.WriteField("cost", "20"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/add-menu", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, post())
}

func TestNewLimiterBurst(t *testing.T) {
	tests := []struct {
		rate      float64
		wantBurst int
	}{
		{0.1, 1},
		{0.4, 1},
		{0.6, 2},
		{20, 40},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantBurst, newLimiter(tt.rate).Burst(), "rate %v", tt.rate)
	}
	assert.True(t, newLimiter(0).Allow())
}

func TestRunAPIStopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunAPI(ctx, cfg) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunAPI did not stop after cancel")
	}
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("release")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())

	SetGinMode("")
	assert.Equal(t, gin.DebugMode, gin.Mode())
}
