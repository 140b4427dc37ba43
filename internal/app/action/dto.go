package action

type StartRequest struct {
	ActionID string
}

type StopRequest struct{}

type Response struct {
	CurrentAction  string  `json:"current_action"`
	PreviousAction string  `json:"previous_action,omitempty"`
	Progress       float64 `json:"progress"`
	Stopped        bool    `json:"stopped,omitempty"`
	StoppedAction  string  `json:"stopped_action,omitempty"`
}
