package types

// Progress is a long-running task update emitted by the backend.
type Progress struct {
	Percentage U32    `json:"percentage"`
	Message    string `json:"message"`
}

func ProgressStart() Progress {
	return Progress{Percentage: 0, Message: "start"}
}

func ProgressUpdate(percentage U32) Progress {
	return Progress{Percentage: percentage, Message: "running"}
}

func ProgressFinished() Progress {
	return Progress{Percentage: 100, Message: "finished"}
}

// Done reports whether p marks the end of its task.
func (p Progress) Done() bool {
	return p.Percentage >= 100
}

// EmitData is one line of output emitted by a running script. Time is in
// seconds since the Unix epoch.
type EmitData struct {
	Data string  `json:"data"`
	Time float64 `json:"time"`
}
