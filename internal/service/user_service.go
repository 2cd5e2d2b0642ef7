package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/models"
)

// UserService proxies user administration to the backend.
type UserService struct {
	gw *gateway.Client
}

func NewUserService(gw *gateway.Client) *UserService {
	return &UserService{gw: gw}
}

func (s *UserService) List(ctx context.Context, token string) ([]models.User, error) {
	raw, err := s.gw.Do(ctx, token, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	records, err := decodeItems[models.BackendUser](raw)
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]models.User, 0, len(records))
	for _, rec := range records {
		users = append(users, models.MapBackendUser(rec))
	}
	return users, nil
}

// UpdateRoles replaces a user's backend role list.
func (s *UserService) UpdateRoles(ctx context.Context, token string, id string, roles []string) (string, error) {
	raw, err := s.gw.Do(ctx, token, http.MethodPatch, "/users/"+url.PathEscape(id), map[string]any{
		"roles": roles,
	})
	if err != nil {
		return "", fmt.Errorf("update user roles: %w", err)
	}
	return decodeID(raw)
}
