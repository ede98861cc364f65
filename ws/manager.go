package ws

import (
	"sync"

	"cargolink_backend/internal/logger"
)

// WebSocketManager — реестр живых соединений, ключ — id пользователя.
// У пользователя может быть несколько соединений (вкладки, телефон).
// Реестр процесс-локальный; единственный надёжный журнал уведомлений —
// база, сюда доставляем best-effort.
type WebSocketManager struct {
	clients    map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (manager *WebSocketManager) Run() {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]bool)
			}
			manager.clients[client.UserID][client] = true
			manager.mu.Unlock()
			logger.Debug("WS client registered", "user_id", client.UserID, "total", manager.ConnectionCount())

		case client := <-manager.unregister:
			manager.removeClient(client)
		}
	}
}

func (manager *WebSocketManager) removeClient(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if conns, ok := manager.clients[client.UserID]; ok {
		if conns[client] {
			delete(conns, client)
			close(client.Send)
		}
		if len(conns) == 0 {
			delete(manager.clients, client.UserID)
		}
	}
}

// Push отправляет payload во все живые соединения пользователя.
// Отправка неблокирующая: если буфер соединения полон, соединение
// считается мёртвым и уходит в unregister. Ошибок наружу нет —
// при отсутствии соединений это тихий no-op, запись в базе остаётся
// источником истины.
//
// Инвариант: Send закрывается только в removeClient под mu.Lock,
// а все отправки идут под mu.RLock — send на закрытый канал
// невозможен. Снимать клиента из-под RLock нельзя, поэтому мёртвые
// соединения передаются горутине Run после отпускания блокировки.
func (manager *WebSocketManager) Push(userID string, payload any) {
	var dead []*Client

	manager.mu.RLock()
	for client := range manager.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			// Канал забит: медленный клиент не должен задерживать остальных
			dead = append(dead, client)
		}
	}
	manager.mu.RUnlock()

	for _, client := range dead {
		logger.Warn("WS send buffer full, dropping connection", "user_id", userID)
		manager.unregister <- client
	}
}

// ConnectionCount возвращает число живых соединений (для health/stats).
func (manager *WebSocketManager) ConnectionCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	total := 0
	for _, conns := range manager.clients {
		total += len(conns)
	}
	return total
}

// IsUserConnected проверяет, есть ли у пользователя живые соединения.
func (manager *WebSocketManager) IsUserConnected(userID string) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID]) > 0
}
