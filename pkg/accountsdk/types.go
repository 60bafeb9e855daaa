package accountsdk

import (
	"time"

	"github.com/stackfort/accountd/pkg/jwtx"
)

// ============================================================================
// Internal Response Types (used for JSON unmarshaling)
// ============================================================================

// ErrorResponse represents the standard error body returned by the service.
// This is used internally for parsing HTTP error responses. Client code
// should use the APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_request")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// ============================================================================
// Token Types
// ============================================================================

// TokenResponse is returned by the login and refresh endpoints. Both tokens
// are JWTs; the refresh token carries a longer expiry and a distinct type
// claim so it cannot be used to authenticate API requests directly.
type TokenResponse struct {
	// AccessToken is the JWT access token used to authenticate API requests
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT refresh token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token
	ExpiresIn int `json:"expires_in"`
}

// ============================================================================
// User Types
// ============================================================================

// User is the public representation of an account. The password hash is
// never exposed through the API.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FullName    string    `json:"full_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RegisterRequest contains the fields required to create a new account
// through the public registration endpoint.
type RegisterRequest struct {
	// Email must be a valid email address, unique across all accounts
	Email string `json:"email"`

	// Username is 3-50 characters, unique across all accounts
	Username string `json:"username"`

	// Password is 8-100 characters
	Password string `json:"password"`

	// FullName is an optional display name (max 100 chars)
	FullName string `json:"full_name,omitempty"`
}

// UpdateProfileRequest carries a partial update to the caller's own
// account. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	FullName *string `json:"full_name,omitempty"`
}

// ============================================================================
// Admin Types
// ============================================================================

// AdminCreateUserRequest creates an account through the admin API.
// Unlike public registration, it can set the active and superuser flags.
type AdminCreateUserRequest struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"full_name,omitempty"`
	IsActive    *bool  `json:"is_active,omitempty"`
	IsSuperuser *bool  `json:"is_superuser,omitempty"`
}

// AdminUpdateUserRequest carries a partial update to any account. Nil
// fields are left unchanged.
type AdminUpdateUserRequest struct {
	Email       *string `json:"email,omitempty"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	FullName    *string `json:"full_name,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	IsSuperuser *bool   `json:"is_superuser,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by the liveness and readiness endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// JWKS Types
// ============================================================================

// JWKSResponse holds the service's public signing keys in JWK format.
type JWKSResponse jwtx.JWKS
