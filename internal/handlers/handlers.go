package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"utms/dashboard/internal/config"
	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/middleware"
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/repository"
	"utms/dashboard/internal/service"
	"utms/dashboard/internal/session"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	sessions *session.Manager
	auth     *service.AuthService
	tickets  *service.TicketService
	users    *service.UserService
	store    repository.SessionStore
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, store repository.SessionStore, gw *gateway.Client) HandlerSet {
	auth := service.NewAuthService(gw, log)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		sessions: session.NewManager(store, auth, log),
		auth:     auth,
		tickets:  service.NewTicketService(gw),
		users:    service.NewUserService(gw),
		store:    store,
	}
}

// SessionManager exposes the manager for the bootstrap middleware.
func (h HandlerSet) SessionManager() *session.Manager {
	return h.sessions
}

// Register wires the dashboard route table. Permission requirements mirror
// the navigation menu: tickets need CAN_CREATE_TICKETS, user administration
// CAN_MANAGE_USERS, everything else an authenticated session.
func (h HandlerSet) Register(router *gin.Engine) {
	router.GET("/healthz", h.Health)

	router.GET("/login", h.LoginView)
	router.POST("/login", h.Login)
	router.GET("/auth/:provider/start", h.OAuthStart)
	router.POST("/logout", h.Logout)
	router.GET("/session", h.Session)

	router.GET("/", middleware.Guard(""), h.Dashboard)
	router.GET("/profile", middleware.Guard(""), h.Profile)

	tickets := router.Group("/tickets", middleware.Guard(rbac.CanCreateTickets))
	{
		tickets.GET("", h.ListTickets)
		tickets.POST("", h.CreateTicket)
		tickets.PATCH("/:id", h.UpdateTicket)
		tickets.DELETE("/:id", h.DeleteTicket)
	}

	users := router.Group("/users", middleware.Guard(rbac.CanManageUsers))
	{
		users.GET("", h.ListUsers)
		users.PATCH("/:id", h.UpdateUser)
	}
}

// bearer is the stored credential for this request's session, fetched
// through the token store contract; handlers never hold it beyond one call.
func (h HandlerSet) bearer(c *gin.Context) string {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		return ""
	}
	return h.sessions.Credential(c.Request.Context(), sess.ID)
}

// proxyError relays a backend failure: HTTP errors keep their status and
// body text, anything else maps to a bad gateway.
func (h HandlerSet) proxyError(c *gin.Context, err error) {
	var he *gateway.HTTPError
	if errors.As(err, &he) {
		c.JSON(he.Status, gin.H{"error": he.Message})
		return
	}
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("backend call failed")
	c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
}
