package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/models"
)

// TicketService proxies ticket CRUD to the backend.
type TicketService struct {
	gw *gateway.Client
}

func NewTicketService(gw *gateway.Client) *TicketService {
	return &TicketService{gw: gw}
}

// List fetches tickets, optionally scoped to an owner. The backend may
// answer with either {items: [...]} or a bare array; both normalize.
func (s *TicketService) List(ctx context.Context, token string, ownerID string) ([]models.Ticket, error) {
	path := "/tickets"
	if ownerID != "" {
		path += "?ownerId=" + url.QueryEscape(ownerID)
	}

	raw, err := s.gw.Do(ctx, token, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	records, err := decodeItems[models.BackendTicket](raw)
	if err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(records))
	for _, rec := range records {
		tickets = append(tickets, models.MapBackendTicket(rec))
	}
	return tickets, nil
}

type CreateTicketInput struct {
	Title       string
	Description string
	OwnerID     string
	AssignedTo  string
	Status      models.TicketStatus
	Priority    models.TicketPriority
}

func (s *TicketService) Create(ctx context.Context, token string, input CreateTicketInput) (string, error) {
	body := map[string]any{
		"title":       input.Title,
		"description": input.Description,
		"ownerId":     input.OwnerID,
	}
	if input.AssignedTo != "" {
		body["assignedTo"] = input.AssignedTo
	}
	if input.Status != "" {
		body["status"] = input.Status
	}
	if input.Priority != "" {
		body["priority"] = input.Priority
	}

	raw, err := s.gw.Do(ctx, token, http.MethodPost, "/tickets", body)
	if err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	return decodeID(raw)
}

// Update patches the given fields only.
func (s *TicketService) Update(ctx context.Context, token string, id string, patch map[string]any) (string, error) {
	raw, err := s.gw.Do(ctx, token, http.MethodPatch, "/tickets/"+url.PathEscape(id), patch)
	if err != nil {
		return "", fmt.Errorf("update ticket: %w", err)
	}
	return decodeID(raw)
}

func (s *TicketService) Delete(ctx context.Context, token string, id string) (string, error) {
	raw, err := s.gw.Do(ctx, token, http.MethodDelete, "/tickets/"+url.PathEscape(id), nil)
	if err != nil {
		return "", fmt.Errorf("delete ticket: %w", err)
	}
	return decodeID(raw)
}

// decodeItems accepts both list shapes the backend is known to produce.
func decodeItems[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Items []T `json:"items"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Items, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode id response: %w", err)
	}
	return resp.ID, nil
}
