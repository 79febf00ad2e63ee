package websocket

import (
	"log"
	"net/http"
	"sync"

	"essayhub/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type analysisEvent struct {
	EssayID string                   `json:"essayId"`
	Status  string                   `json:"status"`
	Result  *services.AnalysisResult `json:"result"`
}

// Notifier pushes analysis-completion events to clients subscribed per
// essay, so the UI does not have to poll the analysis endpoint.
type Notifier struct {
	mu          sync.Mutex
	subscribers map[string]map[*websocket.Conn]bool
}

func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[string]map[*websocket.Conn]bool)}
}

// Subscribe upgrades the request and registers the connection for the
// essay's completion events.
func (n *Notifier) Subscribe(c *gin.Context, essayID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	n.mu.Lock()
	if n.subscribers[essayID] == nil {
		n.subscribers[essayID] = make(map[*websocket.Conn]bool)
	}
	n.subscribers[essayID][conn] = true
	n.mu.Unlock()

	// Reader loop only detects disconnects; clients don't send data.
	go func() {
		defer n.drop(essayID, conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish sends the completed analysis to every subscriber of the essay.
func (n *Notifier) Publish(essayID string, result *services.AnalysisResult) {
	event := analysisEvent{EssayID: essayID, Status: "completed", Result: result}

	n.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(n.subscribers[essayID]))
	for conn := range n.subscribers[essayID] {
		conns = append(conns, conn)
	}
	n.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			n.drop(essayID, conn)
		}
	}
}

func (n *Notifier) drop(essayID string, conn *websocket.Conn) {
	n.mu.Lock()
	if subs, ok := n.subscribers[essayID]; ok {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(n.subscribers, essayID)
		}
	}
	n.mu.Unlock()
	conn.Close()
}
