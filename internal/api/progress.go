package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/foresight/pkg/logger"
)

const progressWriteTimeout = 5 * time.Second

// ProgressMessage 평가 완료된 설정 하나에 대한 진행 메시지
type ProgressMessage struct {
	Config string  `json:"config"`
	RMSE   float64 `json:"rmse"`
}

// ProgressHub broadcasts per-configuration progress lines to websocket
// subscribers. search.ProgressSink 구현체
// ⭐ SSOT: 진행 상황 브로드캐스트는 이 허브에서만
type ProgressHub struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
	logger   *logger.Logger
}

// NewProgressHub creates an empty hub.
func NewProgressHub(log *logger.Logger) *ProgressHub {
	return &ProgressHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 내부 도구라 origin 제한 없음
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
		logger:  log.WithField("module", "progress_hub"),
	}
}

// Serve upgrades the request and registers the subscriber.
func (h *ProgressHub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.clients[conn] = true
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.WithField("subscribers", count).Debug("progress subscriber connected")

	// 구독자가 보내는 메시지는 사용하지 않음, 연결 종료 감지용
	go func() {
		defer h.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends one progress line to every subscriber.
// 느리거나 끊긴 구독자는 제거하고 계속 진행
func (h *ProgressHub) Publish(configID string, rmse float64) {
	msg := ProgressMessage{Config: configID, RMSE: rmse}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(progressWriteTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Close disconnects every subscriber.
func (h *ProgressHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *ProgressHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[conn] {
		conn.Close()
		delete(h.clients, conn)
	}
}
