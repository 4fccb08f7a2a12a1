package count

// RunOutput is the result of one aggregator run.
type RunOutput struct {
	Mode      string `json:"mode" yaml:"mode"`
	Counts    uint64 `json:"counts" yaml:"counts"`
	ElapsedUS int64  `json:"elapsed_us" yaml:"elapsed_us"`
}

// FinalOutput is the structured output for the entire count command.
type FinalOutput struct {
	Status     string      `json:"status" yaml:"status"`
	Chars      string      `json:"chars" yaml:"chars"`
	Workers    int         `json:"workers" yaml:"workers"`
	Files      int         `json:"files" yaml:"files"`
	TotalBytes int64       `json:"total_bytes" yaml:"total_bytes"`
	Runs       []RunOutput `json:"runs" yaml:"runs"`
}
