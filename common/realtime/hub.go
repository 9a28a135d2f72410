package realtime

import (
	"sync"

	"github.com/gorilla/websocket"

	"kiosko/common/log"
)

var (
	clients   = make(map[*websocket.Conn]bool)
	broadcast = make(chan interface{}, 16)
	mutex     sync.Mutex
)

// RegisterClient adds a connected leaderboard viewer.
func RegisterClient(conn *websocket.Conn) {
	mutex.Lock()
	clients[conn] = true
	mutex.Unlock()
}

// UnregisterClient removes a viewer; the caller closes the connection.
func UnregisterClient(conn *websocket.Conn) {
	mutex.Lock()
	delete(clients, conn)
	mutex.Unlock()
}

// Broadcast queues a payload for delivery to every connected viewer.
func Broadcast(payload interface{}) {
	broadcast <- payload
}

func handleBroadcast() {
	for payload := range broadcast {
		mutex.Lock()
		for client := range clients {
			if err := client.WriteJSON(payload); err != nil {
				log.Logger().Errorf("websocket write: %s", err.Error())
				_ = client.Close()
				delete(clients, client)
			}
		}
		mutex.Unlock()
	}
}

func init() {
	go handleBroadcast()
}
