package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"utms/dashboard/internal/middleware"
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/session"
)

type loginRequest struct {
	Provider string `json:"provider"`
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	User          any               `json:"user"`
	Permissions   []rbac.Permission `json:"permissions"`
	Error         string            `json:"error,omitempty"`
}

func makeSessionResponse(sess session.Session) sessionResponse {
	resp := sessionResponse{
		Authenticated: sess.Authenticated(),
		Permissions:   sess.Permissions.List(),
		Error:         sess.Err,
	}
	if sess.User != nil {
		resp.User = sess.User
	}
	return resp
}

// LoginView describes the sign-in options. An already authenticated session
// goes straight home.
func (h HandlerSet) LoginView(c *gin.Context) {
	if sess, ok := middleware.CurrentSession(c); ok && sess.Authenticated() {
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers":     []string{"google"},
		"roles":         []rbac.Role{rbac.RoleUser, rbac.RoleAdmin},
		"passwordLogin": true,
	})
}

// Login handles both flows. OAuth answers with a redirect to the backend
// entry point; the session transition completes when the browser returns
// with a token on the entry URL. Password login resolves synchronously.
func (h HandlerSet) Login(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session unresolved"})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := rbac.Role(req.Role)
	switch role {
	case rbac.RoleAdmin, rbac.RoleUser, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_role"})
		return
	}

	result, redirect, err := h.sessions.Login(c.Request.Context(), sess.ID, session.LoginInput{
		Provider: req.Provider,
		Role:     role,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, session.ErrValidation) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if redirect != "" {
		c.Redirect(http.StatusFound, redirect)
		return
	}

	c.JSON(http.StatusOK, makeSessionResponse(result))
}

// OAuthStart redirects the browser to the backend-hosted OAuth entry point,
// passing the requested role along.
func (h HandlerSet) OAuthStart(c *gin.Context) {
	provider := c.Param("provider")
	if provider != "google" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_provider"})
		return
	}

	role := rbac.Role(c.Query("role"))
	switch role {
	case rbac.RoleAdmin, rbac.RoleUser, "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_role"})
		return
	}

	c.Redirect(http.StatusFound, h.auth.OAuthRedirectURL(provider, role))
}

// Logout clears the session unconditionally and drops the cookie. A backend
// logout failure never blocks the local reset.
func (h HandlerSet) Logout(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if ok {
		h.sessions.Logout(c.Request.Context(), sess.ID)
	}

	secure := h.cfg.Environment == "production"
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", secure, true)
	c.Redirect(http.StatusFound, "/login")
}

// Session reports the current session snapshot regardless of state, so the
// UI can render conditionally on it.
func (h HandlerSet) Session(c *gin.Context) {
	sess, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusOK, sessionResponse{Permissions: []rbac.Permission{}})
		return
	}
	c.JSON(http.StatusOK, makeSessionResponse(sess))
}
