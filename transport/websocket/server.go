package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gomoku/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

type gameSession interface {
	State() *entity.Game
	PlaceStone(ctx context.Context, row, col int) (*entity.Game, error)
	Click(ctx context.Context, x, y float64) (*entity.Game, error)
	Undo(ctx context.Context) (*entity.Game, error)
	Redo(ctx context.Context) (*entity.Game, error)
	Reset(ctx context.Context) (*entity.Game, error)
}

type handler func(ctx context.Context, payload *Payload) (*entity.Game, error)

// Server serves game clients over WebSocket and broadcasts every state change to them.
type Server struct {
	logger   *slog.Logger
	session  gameSession
	upgrader websocket.Upgrader
	handlers map[string]handler

	clientsMutex sync.RWMutex
	clients      map[*client]struct{}
}

// New builds the hub. Browsers may connect only from pages whose Origin is one
// of originHosts; clients that send no Origin are accepted.
func New(logger *slog.Logger, session gameSession, originHosts ...string) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return checkOrigin(r, originHosts)
			},
		},
		clients: make(map[*client]struct{}),
	}

	server.handlers = map[string]handler{
		actionState: server.handleState,
		actionPlace: server.handlePlace,
		actionClick: server.handleClick,
		actionUndo:  server.handleUndo,
		actionRedo:  server.handleRedo,
		actionReset: server.handleReset,
	}

	return server
}

// Mount registers the /ws endpoint on r.
func (that *Server) Mount(r chi.Router) {
	r.Get("/ws", that.ServeHTTP)
}

// ServeHTTP upgrades the connection and serves it until the client goes away.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)
	that.register(c)

	log.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	go that.writePump(c)

	that.reply(c, actionState, Payload{Game: that.session.State()})
	that.readPump(r.Context(), c)
}

// Publish broadcasts event to every connected client. Clients that cannot keep up are dropped.
func (that *Server) Publish(_ context.Context, event *entity.Event) error {
	msg, err := encode(actionUpdate, Payload{Event: event.Action, Game: event.Game})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	var slow []*client

	that.clientsMutex.RLock()
	for c := range that.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	that.clientsMutex.RUnlock()

	for _, c := range slow {
		that.logger.Warn("dropping slow client", "remote", c.conn.RemoteAddr().String())
		that.unregister(c)
	}

	return nil
}

// Close disconnects every client.
func (that *Server) Close() {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	for c := range that.clients {
		delete(that.clients, c)
		close(c.send)
	}
}

func (that *Server) readPump(ctx context.Context, c *client) {
	log := that.logger.With("method", "readPump")

	defer func() {
		that.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		that.handleMessage(ctx, c, &msg)
	}
}

func (that *Server) writePump(c *client) {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Error("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug("failed to ping client", "error", err)
				return
			}
		}
	}
}

func (that *Server) register(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	that.clients[c] = struct{}{}
}

func (that *Server) unregister(c *client) {
	that.clientsMutex.Lock()
	defer that.clientsMutex.Unlock()

	if _, ok := that.clients[c]; !ok {
		return
	}

	delete(that.clients, c)
	close(c.send)
}

// reply sends msg to one client if it is still connected.
func (that *Server) reply(c *client, action string, payload Payload) {
	msg, err := encode(action, payload)
	if err != nil {
		that.logger.Error("failed to encode reply", "action", action, "error", err)
		return
	}

	that.clientsMutex.RLock()
	defer that.clientsMutex.RUnlock()

	if _, ok := that.clients[c]; !ok {
		return
	}

	select {
	case c.send <- msg:
	default:
		that.logger.Warn("reply dropped, client buffer full", "action", action)
	}
}

func checkOrigin(r *http.Request, hosts []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	for _, host := range hosts {
		if strings.EqualFold(u.Host, host) {
			return true
		}
	}

	return false
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}
