package api

// StatusResponse is returned by /auth/establish-session.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// HealthResponse is returned by GET /health. ActiveSessions is approximate:
// it may include expired sessions that have not been swept yet.
type HealthResponse struct {
	Status               string `json:"status"`
	ActiveSessions       int    `json:"activeSessions"`
	SessionDurationHours int    `json:"sessionDurationHours"`
	InstanceID           string `json:"instanceId"`
}

// ErrorResponse is returned for unexpected error cases.
type ErrorResponse struct {
	Error string `json:"error"`
}
