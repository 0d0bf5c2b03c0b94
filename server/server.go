package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kiwi-automation/kiwi/utils"
)

const (
	// Parse error: Invalid JSON was received by the server
	ErrCodeParseError = -32700

	// Invalid Request: The JSON sent is not a valid Request object
	ErrCodeInvalidRequest = -32600

	// Method not found: The method does not exist / is not available
	ErrCodeMethodNotFound = -32601

	// Server error: Internal JSON-RPC error
	ErrCodeServerError = -32000

	// Invalid params: Invalid method parameters
	ErrCodeInvalidParams = -32602

	// Internal error: Internal JSON-RPC error
	ErrCodeInternalError = -32603
)

const (
	errTitleParseError     = "Parse error"
	errTitleInvalidReq     = "Invalid Request"
	errTitleMethodNotFound = "Method not found"
	errTitleInvalidParams  = "Invalid params"
	errTitleServerError    = "Server error"

	errMsgExpectingJSONRPC = "expecting jsonrpc payload"
	errMsgInvalidJSONRPC   = "'jsonrpc' must be '2.0'"
	errMsgIDRequired       = "'id' field is required"
	errMsgMethodRequired   = "'method' is required"
)

// Server timeouts
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 10 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 5 * time.Second
)

var okResponse = map[string]interface{}{"status": "ok"}

type JSONRPCRequest struct {
	// these fields are all omitempty, so we can report back to client if they are missing
	JSONRPC string          `json:"jsonrpc,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC response
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// JSONRPCNotification is pushed to websocket clients without an id.
type JSONRPCNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcError is the error member of a failed response.
type rpcError struct {
	code    int
	message string
	data    string
}

func (e rpcError) toMap() map[string]interface{} {
	return map[string]interface{}{
		"code":    e.code,
		"message": e.message,
		"data":    e.data,
	}
}

// Server bridges the commands to HTTP and websocket clients.
type Server struct {
	addr       string
	enableCORS bool
	methods    map[string]HandlerFunc
	httpServer *http.Server

	shutdownOnce sync.Once
	shutdownErr  chan error
}

// normalizeAddr turns a bare port into ":port".
func normalizeAddr(addr string) (string, error) {
	if strings.Contains(addr, ":") {
		return addr, nil
	}
	port, err := strconv.Atoi(addr)
	if err != nil {
		return "", fmt.Errorf("invalid port: %v", err)
	}
	return fmt.Sprintf(":%d", port), nil
}

// New creates a server listening on addr. addr may be a bare port, in which
// case every interface is used.
func New(addr string, enableCORS bool) (*Server, error) {
	addr, err := normalizeAddr(addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		addr:        addr,
		enableCORS:  enableCORS,
		methods:     GetMethodRegistry(),
		shutdownErr: make(chan error, 1),
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}
	return s, nil
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", sendBanner)
	mux.HandleFunc("/rpc", s.handleJSONRPC)
	mux.Handle("/ws", s.websocketHandler())

	if s.enableCORS {
		return corsMiddleware(mux)
	}
	return mux
}

// corsMiddleware handles CORS preflight requests and adds CORS headers to responses.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ListenAndServe blocks until the server stops. After Shutdown it waits
// for in-flight requests and returns the result of the shutdown.
func (s *Server) ListenAndServe() error {
	utils.Info("Starting server on http://%s...", s.addr)
	err := s.httpServer.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-s.shutdownErr
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		utils.Info("Shutting down server")
		err = s.httpServer.Shutdown(ctx)
		s.shutdownErr <- err
	})
	return err
}

// requestShutdown stops the server after the current response is written.
func (s *Server) requestShutdown() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(ctx); err != nil {
			utils.Warn("Server shutdown failed: %v", err)
		}
	}()
}

// StartServer runs a server on addr until it is shut down.
func StartServer(addr string, enableCORS bool) error {
	s, err := New(addr, enableCORS)
	if err != nil {
		return err
	}
	return s.ListenAndServe()
}

// validateRequest checks the envelope shared by /rpc and /ws.
func validateRequest(req JSONRPCRequest) *rpcError {
	if req.JSONRPC != "2.0" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgInvalidJSONRPC}
	}
	if req.ID == nil {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgIDRequired}
	}
	if req.Method == "" {
		return &rpcError{ErrCodeInvalidRequest, errTitleInvalidReq, errMsgMethodRequired}
	}
	return nil
}

// call runs a registered method and maps its failure to a JSON-RPC error.
func (s *Server) call(ctx context.Context, req JSONRPCRequest) (interface{}, *rpcError) {
	handler, exists := s.methods[req.Method]
	if !exists {
		return nil, &rpcError{ErrCodeMethodNotFound, errTitleMethodNotFound, fmt.Sprintf("Method '%s' not found", req.Method)}
	}

	result, err := handler(ctx, req.Params)
	if err != nil {
		utils.Verbose("Error executing method %s: %v", req.Method, err)
		var paramsErr *InvalidParamsError
		if errors.As(err, &paramsErr) {
			return nil, &rpcError{ErrCodeInvalidParams, errTitleInvalidParams, err.Error()}
		}
		return nil, &rpcError{ErrCodeServerError, errTitleServerError, err.Error()}
	}
	return result, nil
}

func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONRPCError(w, nil, rpcError{ErrCodeParseError, errTitleParseError, errMsgExpectingJSONRPC})
		return
	}

	if rpcErr := validateRequest(req); rpcErr != nil {
		sendJSONRPCError(w, req.ID, *rpcErr)
		return
	}

	utils.Info("Request ID: %v, Method: %s, Params: %s", req.ID, req.Method, string(req.Params))

	if req.Method == MethodShutdown {
		sendJSONRPCResponse(w, req.ID, okResponse)
		s.requestShutdown()
		return
	}

	result, rpcErr := s.call(r.Context(), req)
	if rpcErr != nil {
		sendJSONRPCError(w, req.ID, *rpcErr)
		return
	}

	sendJSONRPCResponse(w, req.ID, result)
}

func sendJSONRPCResponse(w http.ResponseWriter, id interface{}, result interface{}) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Result:  result,
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendJSONRPCError(w http.ResponseWriter, id interface{}, rpcErr rpcError) {
	response := JSONRPCResponse{
		JSONRPC: "2.0",
		Error:   rpcErr.toMap(),
		ID:      id,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

func sendBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(okResponse)
}
