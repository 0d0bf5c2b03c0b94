package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
	ID      int64       `json:"id"`
}

// jsonRPCMessage is anything the backend sends: a response carries an ID,
// a notification carries a Method and no ID.
type jsonRPCMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      *int64          `json:"id,omitempty"`
}

// RPCError is an error payload returned by the backend. Message is already
// written for the user.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// Invoke calls method with args and decodes the result into result, which
// may be nil when the procedure returns nothing. The call is bounded by both
// ctx and the client timeout.
func (c *Client) Invoke(ctx context.Context, method string, args interface{}, result interface{}) error {
	raw, err := c.call(ctx, method, args, c.timeout)
	if err != nil {
		return err
	}

	if result == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("invalid response from %s: %w", method, err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}, timeout time.Duration) (json.RawMessage, error) {
	if err := c.connect(ctx); err != nil {
		return nil, err
	}

	id := c.requestID.Add(1)

	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      id,
	}

	ch := make(chan jsonRPCMessage, 1)

	c.mu.Lock()
	if c.conn == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("backend connection closed")
	}
	c.pending[id] = ch
	err := c.conn.WriteJSON(req)
	c.mu.Unlock()

	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("failed to send request to %s: %w", method, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-ch:
		if !ok {
			return nil, fmt.Errorf("backend connection closed while waiting for %s", method)
		}
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil

	case <-ctx.Done():
		c.forget(id)
		return nil, fmt.Errorf("%s: %w", method, ctx.Err())

	case <-timer.C:
		c.forget(id)
		return nil, fmt.Errorf("timeout waiting for response to %s", method)
	}
}

func (c *Client) forget(id int64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
