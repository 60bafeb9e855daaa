package domain

import "time"

// TokenPair represents what the login and refresh endpoints return: the
// short-lived access token and the longer-lived refresh token, both JWTs
// bound to the same user.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type,omitempty"` // always "bearer"
	ExpiresIn    time.Duration `json:"expires_in"`           // seconds until access token expiry
}
