package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/middleware"
	"utms/dashboard/internal/models"
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/service"
)

// ListTickets proxies the ticket list. filter accepts all, mine, or a
// status value.
func (h HandlerSet) ListTickets(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	tickets, err := h.tickets.List(c.Request.Context(), h.bearer(c), "")
	if err != nil {
		h.proxyError(c, err)
		return
	}

	filter := c.DefaultQuery("filter", "all")
	filtered := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		switch filter {
		case "all":
			filtered = append(filtered, t)
		case "mine":
			if sess.User != nil && t.AssignedTo == sess.User.ID {
				filtered = append(filtered, t)
			}
		default:
			if string(t.Status) == filter {
				filtered = append(filtered, t)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": filtered})
}

type createTicketRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	AssignedTo  string `json:"assignedTo"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
}

func (h HandlerSet) CreateTicket(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AssignedTo != "" && !sess.HasPermission(rbac.CanAssignTickets) {
		c.JSON(http.StatusForbidden, gin.H{"error": "assigning tickets requires CAN_ASSIGN_TICKETS"})
		return
	}

	id, err := h.tickets.Create(c.Request.Context(), h.bearer(c), service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     sess.User.ID,
		AssignedTo:  req.AssignedTo,
		Status:      models.TicketStatus(req.Status),
		Priority:    models.TicketPriority(req.Priority),
	})
	if err != nil {
		h.proxyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type updateTicketRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assignedTo"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

func (h HandlerSet) UpdateTicket(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	id := c.Param("id")

	var req updateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.AssignedTo != nil && *req.AssignedTo != "" && !sess.HasPermission(rbac.CanAssignTickets) {
		c.JSON(http.StatusForbidden, gin.H{"error": "assigning tickets requires CAN_ASSIGN_TICKETS"})
		return
	}

	if !h.mayMutateTicket(c, sess.User.ID, id, sess.HasPermission(rbac.CanManageAllTickets)) {
		return
	}

	patch := map[string]any{}
	if req.Title != nil {
		patch["title"] = *req.Title
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.AssignedTo != nil && *req.AssignedTo != "" {
		patch["assignedTo"] = *req.AssignedTo
	}
	if req.Status != nil && *req.Status != "" {
		patch["status"] = *req.Status
	}
	if req.Priority != nil && *req.Priority != "" {
		patch["priority"] = *req.Priority
	}

	updated, err := h.tickets.Update(c.Request.Context(), h.bearer(c), id, patch)
	if err != nil {
		h.proxyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": updated})
}

func (h HandlerSet) DeleteTicket(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)
	id := c.Param("id")

	if !h.mayMutateTicket(c, sess.User.ID, id, sess.HasPermission(rbac.CanManageAllTickets)) {
		return
	}

	deleted, err := h.tickets.Delete(c.Request.Context(), h.bearer(c), id)
	if err != nil {
		h.proxyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": deleted})
}

// mayMutateTicket enforces CAN_MANAGE_ALL_TICKETS for tickets created by
// someone else. The backend has no single-ticket read, so the check scans
// the list; an unknown ticket passes through for the backend to reject.
// Writes the error response itself when denying.
func (h HandlerSet) mayMutateTicket(c *gin.Context, userID string, ticketID string, manageAll bool) bool {
	if manageAll {
		return true
	}

	tickets, err := h.tickets.List(c.Request.Context(), h.bearer(c), "")
	if err != nil {
		h.proxyError(c, err)
		return false
	}

	for _, t := range tickets {
		if t.ID == ticketID && t.CreatedBy != userID {
			c.JSON(http.StatusForbidden, gin.H{"error": "mutating another owner's ticket requires CAN_MANAGE_ALL_TICKETS"})
			return false
		}
	}
	return true
}
