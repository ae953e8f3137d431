package models

// Link health states.
const (
	LinkActive  = "active"
	LinkOffline = "offline"
	LinkError   = "error"
)

// LinkHealth is the outcome of a single link probe.
type LinkHealth struct {
	Status       string `json:"status"`
	StatusCode   int    `json:"statusCode"`
	ResponseTime int64  `json:"responseTime"` // milliseconds
	Error        string `json:"error,omitempty"`
}
