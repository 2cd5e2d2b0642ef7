package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status       string `json:"status"`
	SessionStore string `json:"sessionStore"`
	Environment  string `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "error"
		h.log.Error().Err(err).Msg("session store ping failed")
	}

	c.JSON(http.StatusOK, healthResponse{
		Status:       "ok",
		SessionStore: storeStatus,
		Environment:  h.cfg.Environment,
	})
}
