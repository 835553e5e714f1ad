package websocket

import (
	"encoding/json"
	"sync"

	"github.com/hjkwon/paymap-backend/internal/app/model"
	"github.com/hjkwon/paymap-backend/pkg/logger"
)

// 지도 클라이언트로 내려보내는 이벤트 타입
const (
	EventStoreCreated       = "store_created"
	EventStoreStatusChanged = "store_status_changed"
	EventStoreDeleted       = "store_deleted"
)

// Event 지도 피드 브로드캐스트 메시지
type Event struct {
	Type  string      `json:"type"`
	Store interface{} `json:"store,omitempty"`
	StoreID uint      `json:"store_id,omitempty"`
}

// Client WebSocket 클라이언트
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub 지도 피드 연결 관리자.
// 채널 구독 개념 없이 모든 접속자에게 가맹점 이벤트를 흘려보낸다.
type Hub struct {
	// 등록된 클라이언트들 (UserID -> []*Client - 멀티 디바이스 지원)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
						// 전송 성공
					default:
						// Send 채널이 막혀있음 - 비동기로 정리
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline 사용자 온라인 여부 확인
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// BroadcastEvent 접속 중인 모든 지도 클라이언트에 이벤트 전송.
// 브로드캐스트 버퍼가 가득 차면 메시지를 버린다 (주요 로직에 영향 없음).
func (h *Hub) BroadcastEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// NotifyStoreCreated 가맹점 등록 이벤트
func (h *Hub) NotifyStoreCreated(store *model.Store) {
	h.BroadcastEvent(Event{Type: EventStoreCreated, Store: store, StoreID: store.ID})
}

// NotifyStoreStatusChanged 가맹점 상태 변경 이벤트
func (h *Hub) NotifyStoreStatusChanged(store *model.Store) {
	h.BroadcastEvent(Event{Type: EventStoreStatusChanged, Store: store, StoreID: store.ID})
}

// NotifyStoreDeleted 가맹점 삭제 이벤트
func (h *Hub) NotifyStoreDeleted(storeID uint) {
	h.BroadcastEvent(Event{Type: EventStoreDeleted, StoreID: storeID})
}
