package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/models"
	"utms/dashboard/internal/rbac"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService adapts the backend auth provider: credential exchange, OAuth
// entry, current-user lookup, logout.
type AuthService struct {
	gw  *gateway.Client
	log zerolog.Logger
}

func NewAuthService(gw *gateway.Client, log zerolog.Logger) *AuthService {
	return &AuthService{gw: gw, log: log}
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// LoginWithPassword exchanges email/password for a bearer token.
func (s *AuthService) LoginWithPassword(ctx context.Context, email string, password string) (string, error) {
	raw, err := s.gw.Do(ctx, "", http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		var he *gateway.HTTPError
		if errors.As(err, &he) && (he.Status == http.StatusUnauthorized || he.Status == http.StatusForbidden) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: %w", err)
	}
	if raw == nil {
		return "", fmt.Errorf("login: empty response")
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("login response missing accessToken")
	}
	return resp.AccessToken, nil
}

// OAuthRedirectURL is the backend-hosted OAuth entry point for a provider.
// The requested role rides along as a query parameter; the backend redirects
// back to the dashboard with a token appended to the entry URL.
func (s *AuthService) OAuthRedirectURL(provider string, role rbac.Role) string {
	entry := s.gw.BaseURL() + "/auth/" + url.PathEscape(provider)
	if role == "" {
		return entry
	}
	return entry + "?role=" + url.QueryEscape(string(role))
}

// CurrentUser resolves the bearer token to a backend user. Any failure maps
// to "absent" so callers can distinguish "not logged in" from a hard error.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.BackendUser, bool) {
	raw, err := s.gw.Do(ctx, token, http.MethodGet, "/auth/me", nil)
	if err != nil || raw == nil {
		if err != nil {
			s.log.Debug().Err(err).Msg("current user lookup failed")
		}
		return models.BackendUser{}, false
	}

	var bu models.BackendUser
	if err := json.Unmarshal(raw, &bu); err != nil {
		s.log.Debug().Err(err).Msg("malformed current user response")
		return models.BackendUser{}, false
	}
	if bu.ID == "" && bu.MongoID == "" {
		return models.BackendUser{}, false
	}
	return bu, true
}

// Logout invalidates the token server-side. Best effort: the caller clears
// local state regardless of the outcome.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if _, err := s.gw.Do(ctx, token, http.MethodPost, "/auth/logout", nil); err != nil {
		return fmt.Errorf("backend logout: %w", err)
	}
	return nil
}
