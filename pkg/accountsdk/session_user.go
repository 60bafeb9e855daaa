package accountsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Me returns the account of the authenticated caller.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/auth/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateMe applies a partial update to the caller's own account. Only
// non-nil fields of the request are changed.
func (s *Session) UpdateMe(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := s.doAuthRequest(ctx, http.MethodPatch, "/auth/me",
		bytes.NewReader(body),
		map[string]string{"Content-Type": "application/json"},
	)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteMe permanently deletes the caller's own account. Existing tokens
// become useless once the account is gone.
func (s *Session) DeleteMe(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, "/auth/me", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
