package domain

const MailTypeRunFinished = "run_finished"

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type RunFinishedMailData struct {
	RunID        int64   `json:"runID"`
	RunKey       string  `json:"runKey"`
	Operator     string  `json:"operator"`
	NumTasks     int32   `json:"numTasks"`
	NumResources int32   `json:"numResources"`
	BestTime     float64 `json:"bestTime"`
	Makespan     float64 `json:"makespan"`
	Seed         uint64  `json:"seed"`
}
