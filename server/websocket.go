package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kiwi-automation/kiwi/commands"
	"github.com/kiwi-automation/kiwi/events"
	"github.com/kiwi-automation/kiwi/utils"
)

// MethodEvent is the notification carrying an events.Event to websocket
// clients.
const MethodEvent = "event"

const (
	wsWriteTimeout = 10 * time.Second
	// events queued for a slow client before new ones are dropped
	wsEventBuffer = 64
)

type wsConnection struct {
	id      string
	conn    *websocket.Conn
	writeMu sync.Mutex

	events chan events.Event
	done   chan struct{}
}

func newUpgrader(enableCORS bool) *websocket.Upgrader {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	if enableCORS {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	} else {
		upgrader.CheckOrigin = isSameOrigin
	}

	return &upgrader
}

// NewWebSocketHandler serves JSON-RPC over a websocket with the default
// method registry. server.shutdown is not available on it.
func NewWebSocketHandler(enableCORS bool) http.Handler {
	s := &Server{enableCORS: enableCORS, methods: GetMethodRegistry()}
	return s.websocketHandler()
}

func (s *Server) websocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleWebSocket(w, r)
	})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := newUpgrader(s.enableCORS).Upgrade(w, r, nil)
	if err != nil {
		utils.Warn("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	wsConn := &wsConnection{
		id:     uuid.NewString(),
		conn:   conn,
		events: make(chan events.Event, wsEventBuffer),
		done:   make(chan struct{}),
	}
	defer close(wsConn.done)
	utils.Verbose("WebSocket connection %s opened from %s", wsConn.id, r.RemoteAddr)

	if env, err := commands.GetEnv(); err == nil {
		unsubscribe := env.Events.Subscribe(wsConn.enqueue)
		defer unsubscribe()
		go wsConn.pushEvents()
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			// connection closed or error
			utils.Verbose("WebSocket connection %s closed: %v", wsConn.id, err)
			break
		}

		if messageType != websocket.TextMessage {
			wsConn.sendError(nil, rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, "only text messages accepted for requests"})
			continue
		}

		s.handleWSMessage(ctx, wsConn, message)
	}
}

func isSameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return originURL.Host == r.Host
}

func (s *Server) handleWSMessage(ctx context.Context, wsConn *wsConnection, message []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(message, &req); err != nil {
		wsConn.sendError(nil, rpcError{ErrCodeParseError, errTitleParseError, errMsgExpectingJSONRPC})
		return
	}

	if rpcErr := validateRequest(req); rpcErr != nil {
		wsConn.sendError(req.ID, *rpcErr)
		return
	}

	utils.Verbose("WebSocket %s Request ID: %v, Method: %s, Params: %s", wsConn.id, req.ID, req.Method, string(req.Params))

	if req.Method == MethodShutdown && s.httpServer != nil {
		wsConn.sendResponse(req.ID, okResponse)
		s.requestShutdown()
		return
	}

	result, rpcErr := s.call(ctx, req)
	if rpcErr != nil {
		wsConn.sendError(req.ID, *rpcErr)
		return
	}

	wsConn.sendResponse(req.ID, result)
}

// enqueue is called by the event log and must not block it.
func (wsc *wsConnection) enqueue(ev events.Event) {
	select {
	case <-wsc.done:
	case wsc.events <- ev:
	default:
		utils.Verbose("WebSocket %s is slow, dropping %s event %s", wsc.id, ev.Kind, ev.Name)
	}
}

func (wsc *wsConnection) pushEvents() {
	for {
		select {
		case <-wsc.done:
			return
		case ev := <-wsc.events:
			err := wsc.sendJSON(JSONRPCNotification{
				JSONRPC: "2.0",
				Method:  MethodEvent,
				Params:  ev,
			})
			if err != nil {
				utils.Verbose("WebSocket %s event push failed: %v", wsc.id, err)
				return
			}
		}
	}
}

func (wsc *wsConnection) sendResponse(id interface{}, result interface{}) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendError(id interface{}, rpcErr rpcError) error {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   rpcErr.toMap(),
		ID:      id,
	}
	return wsc.sendJSON(response)
}

func (wsc *wsConnection) sendJSON(v interface{}) error {
	wsc.writeMu.Lock()
	defer wsc.writeMu.Unlock()
	_ = wsc.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return wsc.conn.WriteJSON(v)
}
