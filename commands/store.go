package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kiwi-automation/kiwi/store"
)

type StoreRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value,omitempty"`
}

type StoreResponse struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func StoreGetCommand(req StoreRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	v, err := e.Local.Get(req.Key)
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(StoreResponse{Key: req.Key, Value: v})
}

// StoreSetCommand stores req.Value, which must be JSON.
func StoreSetCommand(req StoreRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}

	var v interface{}
	if err := json.Unmarshal(req.Value, &v); err != nil {
		return NewErrorResponse(fmt.Errorf("value must be JSON: %w", err))
	}
	if err := e.Local.Set(req.Key, v); err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(StoreResponse{Key: req.Key, Value: v})
}

func StoreClearCommand() *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	return respond(done(e.Local.Clear()))
}

func StoreKeysCommand() *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(e.Local.Keys())
}

type ZoomRequest struct {
	Action string  `json:"action"`
	Factor float64 `json:"factor,omitempty"`
}

// ZoomCommand reads or changes the UI zoom. Action is one of get, in, out
// or set.
func ZoomCommand(req ZoomRequest) *CommandResponse {
	state, err := stateStore()
	if err != nil {
		return NewErrorResponse(err)
	}

	var z store.Zoom
	switch strings.ToLower(req.Action) {
	case "", "get":
		z, err = state.Zoom()
	case "in":
		z, err = state.ZoomIn()
	case "out":
		z, err = state.ZoomOut()
	case "set":
		z, err = state.SetZoomFactor(req.Factor)
	default:
		return NewErrorResponse(fmt.Errorf("invalid zoom action '%s'. Supported actions are 'get', 'in', 'out' and 'set'", req.Action))
	}
	return respond(z, err)
}

func AppStateCommand() *CommandResponse {
	state, err := stateStore()
	if err != nil {
		return NewErrorResponse(err)
	}
	return respond(state.App())
}
