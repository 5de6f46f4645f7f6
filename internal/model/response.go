package model

// ErrorResponse is the standard envelope for error responses.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the structured error information returned by the API.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// SessionResponse is the payload returned by the login and restore endpoints:
// the active session snapshot plus the dashboard the caller should navigate to.
type SessionResponse struct {
	Destination Destination `json:"destination"`
	Session     Session     `json:"session"`
}
