package api

// LookupResponse is returned by every lookup endpoint.
type LookupResponse struct {
	Id        string `json:"id"`
	Found     bool   `json:"found"`
	Strategy  string `json:"strategy"`
	ElapsedUs int64  `json:"elapsedUs"`
	Error     string `json:"error,omitempty"`
}

// StrategyInfo describes one strategy exposed under /v1/strategies.
type StrategyInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// HealthResponse reports the state of the lookup facade.
type HealthResponse struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	Entries int    `json:"entries"`
	Stale   bool   `json:"stale"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
