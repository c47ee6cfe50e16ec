package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/foresight/internal/api/handlers"
	"github.com/wonny/foresight/pkg/config"
	"github.com/wonny/foresight/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	return logger.New(&config.Config{
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	})
}

func TestHealthCheck(t *testing.T) {
	log := testLogger(t)
	hub := NewProgressHub(log)
	defer hub.Close()

	router := NewRouter(handlers.NewSearchHandler(nil, nil, nil, &config.Config{}, log), hub, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "foresight-api", body["service"])
}

func TestRecoveryMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	wrapped := recoveryMiddleware(testLogger(t))(panicking)

	req := httptest.NewRequest(http.MethodGet, "/panics", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func TestProgressHub_Broadcast(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping websocket test in short mode")
	}

	log := testLogger(t)
	hub := NewProgressHub(log)
	defer hub.Close()

	router := NewRouter(handlers.NewSearchHandler(nil, nil, nil, &config.Config{}, log), hub, log)
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http", "ws", 1) + "/ws/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// 핸들러의 등록이 업그레이드 직후 이루어지므로 잠깐 대기
	time.Sleep(100 * time.Millisecond)

	hub.Publish("[add false none 0 false false]", 6.98)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ProgressMessage
	require.NoError(t, conn.ReadJSON(&msg))

	assert.Equal(t, "[add false none 0 false false]", msg.Config)
	assert.InDelta(t, 6.98, msg.RMSE, 1e-9)
}

func TestProgressHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewProgressHub(testLogger(t))
	defer hub.Close()

	// 구독자가 없어도 조용히 무시되어야 함
	hub.Publish("[none false none 0 false false]", 1.0)
}
