package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"swapskill/internal/session"
	"swapskill/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
)

// Client is one WebSocket connection and the session it owns.
type Client struct {
	UserID  string
	IsAdmin bool
	Conn    *websocket.Conn
	Send    chan []byte

	store  *session.Store
	bridge *session.Bridge

	// dirty is signalled when the session changed; WritePump then sends the
	// latest snapshot, so bursts of changes collapse into one frame.
	dirty chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	stopFn func()
}

// NewClient creates the connection's session. The context is cancelled when
// the client is unregistered.
func NewClient(ctx context.Context, userID string, isAdmin bool, conn *websocket.Conn, services session.Services) *Client {
	ctx, cancel := context.WithCancel(ctx)
	store := session.NewStore(userID, services)
	c := &Client{
		UserID:  userID,
		IsAdmin: isAdmin,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		store:   store,
		bridge:  session.NewBridge(store),
		dirty:   make(chan struct{}, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	c.stopFn = store.OnChange(func(session.State) { c.markDirty() })
	return c
}

func (c *Client) markDirty() {
	select {
	case c.dirty <- struct{}{}:
	default:
	}
}

func (c *Client) close() {
	c.stopFn()
	c.bridge.Close()
	c.cancel()
}

// Manager tracks every open connection. A user may hold several.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]struct{})
				}
				m.clients[client.UserID][client] = struct{}{}
				m.mutex.Unlock()
				logger.Info("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.mutex.Lock()
				if conns, ok := m.clients[client.UserID]; ok {
					if _, ok := conns[client]; ok {
						delete(conns, client)
						client.close()
						close(client.Send)
					}
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
				m.mutex.Unlock()
				logger.Info("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for _, conns := range m.clients {
					for client := range conns {
						client.close()
					}
				}
				m.clients = make(map[string]map[*Client]struct{})
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// ConnectionCount returns the number of open connections.
func (m *Manager) ConnectionCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	n := 0
	for _, conns := range m.clients {
		n += len(conns)
	}
	return n
}

// ReadPump reads commands until the connection closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		select {
		case m.Unregister <- c:
		case <-m.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket: read error from %s: %v", c.UserID, err)
			}
			break
		}

		m.HandleClientMessage(c, message)
	}
}

// WritePump sends queued frames, the latest session snapshot after every
// change, and keepalive pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Warn("WebSocket: write error to %s: %v", c.UserID, err)
				return
			}

		case <-c.dirty:
			frame, err := json.Marshal(newMessage(MessageTypeState, c.store.Snapshot()))
			if err != nil {
				logger.Error("WebSocket: failed to encode state for %s: %v", c.UserID, err)
				continue
			}
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Warn("WebSocket: write error to %s: %v", c.UserID, err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
