package api

import (
	"github.com/ssargent/pwaudit/pkg/audit"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CheckResponse is the payload of a successful check request
type CheckResponse struct {
	Summary *audit.Summary `json:"summary"`
	Results []audit.Result `json:"results"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port         int
	Bind         string
	APIKey       string // empty disables authentication
	Policy       string // used when a request does not name one
	MaxBodyBytes int64
}

// RunRecorder persists summaries of runs made through the API
type RunRecorder interface {
	Save(summary *audit.Summary) error
}
