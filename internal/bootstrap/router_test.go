package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imageanchor/artaday-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", AllowedOrigins: []string{"https://diary.example"}},
		Store:   config.StoreConfig{Backend: config.StoreMemory, PollInterval: time.Second},
		Catalog: config.CatalogConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second, RateLimit: 10, Burst: 1},
		Wall:    config.WallConfig{ReferenceImage: "IMG_9692.png", PhysicalWidth: 0.2524, TileSize: 0.070},
		App:     config.AppConfig{Environment: "test", Version: "test", Timezone: "UTC"},
	}
}

func startDiary(t *testing.T, cfg *config.Config) (*Resources, *Diary) {
	t.Helper()
	ctx := context.Background()

	res, err := OpenResources(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { res.Close() })

	diary, err := NewDiary(cfg, res.Store)
	require.NoError(t, err)
	require.NoError(t, diary.Start(ctx))
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		diary.Stop(stopCtx)
	})

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, diary.WaitSynced(waitCtx))
	return res, diary
}

func TestBuildRouter(t *testing.T) {
	SetGinMode("test")
	cfg := testConfig()
	res, diary := startDiary(t, cfg)

	r := BuildRouter(RouterDeps{
		ServiceName:    "artaday-backend",
		Version:        cfg.App.Version,
		Backend:        res.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          res.Store,
		Diary:          diary,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health struct {
		Store   string `json:"store"`
		Backend string `json:"backend"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "up", health.Store)
	assert.Equal(t, config.StoreMemory, health.Backend)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/diary/gate", nil)
	req.Header.Set("Origin", "https://diary.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://diary.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Body.String(), `"can_submit_today":true`)
}

func TestOpenResources_UnknownBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = "sqlite"

	_, err := OpenResources(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOpenResources_RedisUnreachable(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Backend = config.StoreRedis
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := OpenResources(context.Background(), cfg)
	assert.Error(t, err, "unreachable redis fails fast")
}

func TestOpenResources_RedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig()
	cfg.Store.Backend = config.StoreRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Stream = "diary:entries"

	res, err := OpenResources(context.Background(), cfg)
	require.NoError(t, err)
	defer res.Close()

	assert.Equal(t, config.StoreRedis, res.Backend)
	assert.NoError(t, res.Store.Ping(context.Background()))
	assert.Nil(t, res.Auth)
}
