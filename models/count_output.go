package models

import "time"

// CountOutput is the result of one counting operation.
// Two values are equal when both fields match; Elapsed varies run to run.
type CountOutput struct {
	Counts  uint64 `json:"counts" yaml:"counts"`
	Elapsed int64  `json:"elapsed_us" yaml:"elapsed_us"` // microseconds
}

// NewCountOutput records counts together with the time elapsed since start.
func NewCountOutput(counts uint64, start time.Time) CountOutput {
	return CountOutput{
		Counts:  counts,
		Elapsed: time.Since(start).Microseconds(),
	}
}

// Duration returns Elapsed as a time.Duration.
func (o CountOutput) Duration() time.Duration {
	return time.Duration(o.Elapsed) * time.Microsecond
}
