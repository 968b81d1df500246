// Package smoke verifies a running awaken API by issuing concurrent index
// requests and checking every response against the shared greeting.
package smoke

import "time"

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of GET / requests to issue
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // Per-request timeout
	Expected string        // Body every response must carry
}

// Report summarizes a smoke run.
type Report struct {
	Requests   int64         `json:"requests"`
	Succeeded  int64         `json:"succeeded"`
	Mismatched int64         `json:"mismatched"`
	Failed     int64         `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// OK reports whether every request returned the expected greeting.
func (r Report) OK() bool {
	return r.Requests > 0 && r.Succeeded == r.Requests
}
