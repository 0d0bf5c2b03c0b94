package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      int64           `json:"id"`
}

// fakeBackend answers each request through handle. A nil reply means no
// response is sent.
type fakeBackend struct {
	t      *testing.T
	handle func(conn *websocket.Conn, req request) interface{}
	mu     sync.Mutex
	conns  []*websocket.Conn
}

func newFakeBackend(t *testing.T, handle func(conn *websocket.Conn, req request) interface{}) (*fakeBackend, *httptest.Server) {
	fb := &fakeBackend{t: t, handle: handle}
	upgrader := websocket.Upgrader{}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/rpc", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		fb.mu.Lock()
		fb.conns = append(fb.conns, conn)
		fb.mu.Unlock()

		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			if reply := fb.handle(conn, req); reply != nil {
				fb.mu.Lock()
				_ = conn.WriteJSON(reply)
				fb.mu.Unlock()
			}
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fb, srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/rpc"
}

func result(id int64, v interface{}) map[string]interface{} {
	return map[string]interface{}{"jsonrpc": "2.0", "id": id, "result": v}
}

func TestNewClient_Scheme(t *testing.T) {
	_, err := NewClient("http://localhost:1/rpc")
	assert.Error(t, err)

	c, err := NewClient("wss://example.com/rpc")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", c.httpURL)
}

func TestClient_Invoke(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "get_monitor_size", req.Method)
		return result(req.ID, map[string]int{"width": 1920, "height": 1080})
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var size struct {
		Width  int `json:"width"`
		Height int `json:"height"`
	}
	require.NoError(t, c.Invoke(context.Background(), "get_monitor_size", nil, &size))
	assert.Equal(t, 1920, size.Width)
	assert.Equal(t, 1080, size.Height)
}

func TestClient_InvokeSendsParams(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		var params map[string]string
		_ = json.Unmarshal(req.Params, &params)
		return result(req.ID, params["path"] == "/tmp")
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var exists bool
	require.NoError(t, c.Invoke(context.Background(), "path_exists", map[string]string{"path": "/tmp"}, &exists))
	assert.True(t, exists)
}

func TestClient_InvokeError(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]interface{}{"code": -32000, "message": "project not found"},
		}
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	err = c.Invoke(context.Background(), "open_project", nil, nil)
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Equal(t, "project not found", err.Error())
}

func TestClient_InvokeTimeout(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return nil
	})

	c, err := NewClient(wsURL(srv), WithTimeout(100*time.Millisecond))
	require.NoError(t, err)
	defer c.Close()

	err = c.Invoke(context.Background(), "stop_all", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")

	c.mu.Lock()
	assert.Empty(t, c.pending)
	c.mu.Unlock()
}

func TestClient_InvokeContextCancel(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return nil
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = c.Invoke(ctx, "stop_all", nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_ConcurrentInvoke(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return result(req.ID, req.ID)
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var id int64
			assert.NoError(t, c.Invoke(context.Background(), "echo", nil, &id))
			assert.NotZero(t, id)
		}()
	}
	wg.Wait()
}

func TestClient_Notifications(t *testing.T) {
	_, srv := newFakeBackend(t, func(conn *websocket.Conn, req request) interface{} {
		_ = conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "emit",
			"params":  map[string]interface{}{"event": "run", "payload": map[string]interface{}{"data": "hi", "time": 1}},
		})
		return result(req.ID, true)
	})

	got := make(chan string, 1)
	c, err := NewClient(wsURL(srv), WithNotificationHandler(func(method string, params json.RawMessage) {
		got <- method
	}))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Invoke(context.Background(), "run_project", nil, nil))

	select {
	case method := <-got:
		assert.Equal(t, "emit", method)
	case <-time.After(2 * time.Second):
		t.Fatal("notification not delivered")
	}
}

func TestClient_ConnectionLost(t *testing.T) {
	fb, srv := newFakeBackend(t, func(conn *websocket.Conn, req request) interface{} {
		_ = conn.Close()
		return nil
	})
	_ = fb

	c, err := NewClient(wsURL(srv), WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer c.Close()

	err = c.Invoke(context.Background(), "stop_all", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection closed")
}

func TestClient_ReconnectAfterClose(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return result(req.ID, true)
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()

	var ok bool
	require.NoError(t, c.Invoke(context.Background(), "path_exists", nil, &ok))
	c.Close()
	require.NoError(t, c.Invoke(context.Background(), "path_exists", nil, &ok))
	assert.True(t, ok)
}

func TestClient_StaleReadLoopLeavesCurrentConnection(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} {
		return result(req.ID, true)
	})

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)
	defer c.Close()
	require.NoError(t, c.Invoke(context.Background(), "path_exists", nil, nil))

	stale, _, err := websocket.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	require.NoError(t, stale.Close())

	inFlight := make(chan jsonRPCMessage, 1)
	c.mu.Lock()
	current := c.conn
	c.pending[-1] = inFlight
	c.mu.Unlock()

	// returns at once, its connection is closed
	c.readLoop(stale)

	c.mu.Lock()
	assert.Same(t, current, c.conn)
	assert.Contains(t, c.pending, int64(-1))
	assert.NoError(t, c.closeErr)
	delete(c.pending, -1)
	c.mu.Unlock()

	select {
	case _, open := <-inFlight:
		assert.True(t, open, "in-flight call was failed by a stale connection")
	default:
	}

	require.NoError(t, c.Invoke(context.Background(), "path_exists", nil, nil))
}

func TestClient_ConnectFailure(t *testing.T) {
	c, err := NewClient("ws://127.0.0.1:1/rpc")
	require.NoError(t, err)

	err = c.Invoke(context.Background(), "stop_all", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect")
}

func TestClient_HealthCheck(t *testing.T) {
	_, srv := newFakeBackend(t, func(_ *websocket.Conn, req request) interface{} { return nil })

	c, err := NewClient(wsURL(srv))
	require.NoError(t, err)

	assert.NoError(t, c.HealthCheck(context.Background()))
	assert.NoError(t, c.WaitForReady(context.Background(), 2*time.Second))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	a, err := NewClient("ws://localhost:1/rpc")
	require.NoError(t, err)
	r.Register(a)

	got, ok := r.Get("ws://localhost:1/rpc")
	require.True(t, ok)
	assert.Same(t, a, got)

	r.CloseAll()
	_, ok = r.Get("ws://localhost:1/rpc")
	assert.False(t, ok)
}
