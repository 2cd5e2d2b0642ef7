package models

import "time"

type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusDone       TicketStatus = "DONE"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "LOW"
	TicketPriorityMedium TicketPriority = "MEDIUM"
	TicketPriorityHigh   TicketPriority = "HIGH"
)

// Ticket is the dashboard projection of a backend ticket.
type Ticket struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      TicketStatus   `json:"status"`
	Priority    TicketPriority `json:"priority"`
	AssignedTo  string         `json:"assignedTo"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   string         `json:"createdAt"`
}

// BackendTicket is the raw ticket record as the backend returns it.
type BackendTicket struct {
	MongoID     string  `json:"_id"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	OwnerID     string  `json:"ownerId"`
	AssignedTo  *string `json:"assignedTo"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	CreatedAt   string  `json:"createdAt"`
}

// MapBackendTicket normalizes a backend ticket. Unknown or missing status
// and priority values fall back to OPEN and MEDIUM.
func MapBackendTicket(bt BackendTicket) Ticket {
	id := bt.MongoID
	if id == "" {
		id = bt.ID
	}

	status := TicketStatus(bt.Status)
	switch status {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusDone:
	default:
		status = TicketStatusOpen
	}

	priority := TicketPriority(bt.Priority)
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh:
	default:
		priority = TicketPriorityMedium
	}

	assignedTo := ""
	if bt.AssignedTo != nil {
		assignedTo = *bt.AssignedTo
	}

	createdAt := bt.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	return Ticket{
		ID:          id,
		Title:       bt.Title,
		Description: bt.Description,
		Status:      status,
		Priority:    priority,
		AssignedTo:  assignedTo,
		CreatedBy:   bt.OwnerID,
		CreatedAt:   createdAt,
	}
}
