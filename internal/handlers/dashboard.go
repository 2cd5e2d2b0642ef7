package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/middleware"
	"utms/dashboard/internal/models"
)

type ticketStats struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

// Dashboard summarizes the user's tickets: counts by status over everything
// created by or assigned to them, plus the five most recent.
func (h HandlerSet) Dashboard(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	tickets, err := h.tickets.List(c.Request.Context(), h.bearer(c), "")
	if err != nil {
		h.proxyError(c, err)
		return
	}

	mine := make([]models.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.AssignedTo == sess.User.ID || t.CreatedBy == sess.User.ID {
			mine = append(mine, t)
		}
	}

	stats := ticketStats{Total: len(mine)}
	for _, t := range mine {
		switch t.Status {
		case models.TicketStatusOpen:
			stats.Open++
		case models.TicketStatusInProgress:
			stats.InProgress++
		case models.TicketStatusDone:
			stats.Done++
		}
	}

	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt > mine[j].CreatedAt })
	recent := mine
	if len(recent) > 5 {
		recent = recent[:5]
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          sess.User,
		"stats":         stats,
		"recentTickets": recent,
	})
}

// Profile renders the session identity and its permission set.
func (h HandlerSet) Profile(c *gin.Context) {
	sess, _ := middleware.CurrentSession(c)

	c.JSON(http.StatusOK, gin.H{
		"user":        sess.User,
		"permissions": sess.Permissions.List(),
	})
}
