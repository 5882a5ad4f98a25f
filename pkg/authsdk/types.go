package authsdk

import "github.com/aussiebroadwan/cookieauth/pkg/httpx"

// ============================================================================
// Error Types
// ============================================================================

// ErrorResponse is the body of every non-2xx response.
// Client code should use the APIError type from errors.go instead.
type ErrorResponse = httpx.ErrorBody

// ErrorDetail is one entry of ErrorResponse.Details, e.g. "email is invalid".
type ErrorDetail = httpx.Detail

// ============================================================================
// Request Types
// ============================================================================

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	// Username must be 3 to 32 characters after trimming.
	Username string `json:"username" example:"alice"`

	// Email must be a valid address. It is the login identifier.
	Email string `json:"email" example:"alice@example.com"`

	// Password must be 8 to 72 characters.
	Password string `json:"password" example:"correct-horse-battery"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct-horse-battery"`
}

// ============================================================================
// Response Types
// ============================================================================

// MessageResponse is returned by endpoints whose result lives in cookies.
type MessageResponse struct {
	Message string `json:"message" example:"Logged in"`
}

// IdentityResponse is returned by GET /auth.
type IdentityResponse struct {
	ID    string `json:"id" example:"01HZX3J8W9R6Q2T4V5B7N8M9K0"`
	Email string `json:"email" example:"alice@example.com"`
}

// UserResponse is one element of GET /users.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks is only present on /readyz.
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks is the status of each dependency checked by /readyz.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`
}
