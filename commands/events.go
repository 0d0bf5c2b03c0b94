package commands

import "github.com/kiwi-automation/kiwi/types"

// RunEvent is the event name scripts emit their output under.
const RunEvent = "run"

type EventRequest struct {
	Name string `json:"name"`
}

type EventResponse struct {
	Name     string           `json:"name"`
	Lines    []types.EmitData `json:"lines"`
	Progress *types.Progress  `json:"progress,omitempty"`
}

func EventsListCommand() *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	return NewSuccessResponse(e.Events.Names())
}

// EventsRecentCommand returns the retained output and last progress of an
// event, defaulting to the script output.
func EventsRecentCommand(req EventRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	if req.Name == "" {
		req.Name = RunEvent
	}

	resp := EventResponse{Name: req.Name, Lines: e.Events.Recent(req.Name)}
	if p, ok := e.Events.Progress(req.Name); ok {
		resp.Progress = &p
	}
	return NewSuccessResponse(resp)
}

func EventsClearCommand(req EventRequest) *CommandResponse {
	e, err := GetEnv()
	if err != nil {
		return NewErrorResponse(err)
	}
	if req.Name == "" {
		req.Name = RunEvent
	}
	e.Events.Clear(req.Name)
	return NewSuccessResponse(okData)
}
