package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/rbac"
)

func (h HandlerSet) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), h.bearer(c))
	if err != nil {
		h.proxyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": users})
}

type updateUserRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUser changes a user's role. The dashboard role maps back to the
// backend's role list: ADMIN becomes ["admin"], USER becomes ["user"].
func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var roles []string
	switch rbac.Role(req.Role) {
	case rbac.RoleAdmin:
		roles = []string{"admin"}
	case rbac.RoleUser:
		roles = []string{"user"}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_role"})
		return
	}

	id, err := h.users.UpdateRoles(c.Request.Context(), h.bearer(c), c.Param("id"), roles)
	if err != nil {
		h.proxyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
