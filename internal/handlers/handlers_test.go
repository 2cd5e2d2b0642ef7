package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"utms/dashboard/internal/config"
	"utms/dashboard/internal/gateway"
	"utms/dashboard/internal/middleware"
	"utms/dashboard/internal/repository"
)

// newBackend fakes the remote UTMS API: two known accounts, a ticket list,
// and a user list.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	userFor := func(token string) (map[string]any, bool) {
		switch token {
		case "admin-token", "abc123":
			return map[string]any{"id": "1", "email": "admin@b.com", "roles": []string{"admin"}}, true
		case "user-token":
			return map[string]any{"id": "2", "email": "user@b.com", "roles": []string{"user"}}, true
		}
		return nil, false
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		token := ""
		switch req.Email {
		case "admin@b.com":
			token = "admin-token"
		case "user@b.com":
			token = "user-token"
		}
		if token == "" || req.Password != "hunter2" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"accessToken": token})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		user, ok := userFor(token)
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /tickets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id":"t1","title":"red build","ownerId":"2","status":"OPEN","createdAt":"2026-08-01T00:00:00Z"},
			{"_id":"t2","title":"flaky test","ownerId":"1","assignedTo":"2","status":"DONE","createdAt":"2026-08-02T00:00:00Z"}
		]`))
	})
	mux.HandleFunc("POST /tickets", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "t9"})
	})
	mux.HandleFunc("PATCH /tickets/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": r.PathValue("id")})
	})
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"_id":"1","email":"admin@b.com","roles":["admin"]},{"_id":"2","email":"user@b.com","roles":["user"]}]}`))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// newApp assembles the dashboard the way the server package does, on a
// memory session store, and returns a cookie-carrying client that does not
// follow redirects.
func newApp(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	backend := newBackend(t)
	cfg := &config.AppConfig{
		Environment: "development",
		Backend:     config.BackendConfig{BaseURL: backend.URL},
		Session: config.SessionConfig{
			Store:      "memory",
			CookieName: "utms_session",
			Secret:     "test-secret",
			TTL:        time.Hour,
		},
	}

	gin.SetMode(gin.TestMode)
	engine := gin.New()

	store := repository.NewMemoryStore(cfg.Session.TTL)
	gw := gateway.NewClient(cfg.Backend.BaseURL, zerolog.Nop())
	hs := NewHandlerSet(zerolog.Nop(), cfg, store, gw)

	engine.Use(middleware.Session(cfg, hs.SessionManager()))
	hs.Register(engine)

	app := httptest.NewServer(engine)
	t.Cleanup(app.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return app, client
}

func doJSON(t *testing.T, client *http.Client, method, url, body string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func loginAs(t *testing.T, client *http.Client, appURL, email string) {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, appURL+"/login",
		`{"email":"`+email+`","password":"hunter2"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

type sessionBody struct {
	Authenticated bool     `json:"authenticated"`
	Permissions   []string `json:"permissions"`
	Error         string   `json:"error"`
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	app, client := newApp(t)

	for _, path := range []string{"/", "/profile", "/tickets", "/users"} {
		resp := doJSON(t, client, http.MethodGet, app.URL+path, "")
		resp.Body.Close()
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestPasswordLoginGrantsUserAccess(t *testing.T) {
	app, client := newApp(t)

	resp := doJSON(t, client, http.MethodPost, app.URL+"/login",
		`{"email":"user@b.com","password":"hunter2"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sess sessionBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	assert.True(t, sess.Authenticated)
	assert.Equal(t, []string{"CAN_CREATE_TICKETS"}, sess.Permissions)

	home := doJSON(t, client, http.MethodGet, app.URL+"/", "")
	home.Body.Close()
	assert.Equal(t, http.StatusOK, home.StatusCode)

	tickets := doJSON(t, client, http.MethodGet, app.URL+"/tickets", "")
	tickets.Body.Close()
	assert.Equal(t, http.StatusOK, tickets.StatusCode)

	// missing CAN_MANAGE_USERS sends the user home, not to login
	users := doJSON(t, client, http.MethodGet, app.URL+"/users", "")
	users.Body.Close()
	assert.Equal(t, http.StatusFound, users.StatusCode)
	assert.Equal(t, "/", users.Header.Get("Location"))
}

func TestAdminManagesUsers(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "admin@b.com")

	resp := doJSON(t, client, http.MethodGet, app.URL+"/users", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 2)
	assert.Equal(t, "ADMIN", body.Items[0].Role)
	assert.Equal(t, "USER", body.Items[1].Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app, client := newApp(t)

	resp := doJSON(t, client, http.MethodPost, app.URL+"/login",
		`{"email":"user@b.com","password":"wrong"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	missing := doJSON(t, client, http.MethodPost, app.URL+"/login",
		`{"email":"user@b.com","password":""}`)
	missing.Body.Close()
	assert.Equal(t, http.StatusBadRequest, missing.StatusCode)

	// same role check as the OAuth start route
	badRole := doJSON(t, client, http.MethodPost, app.URL+"/login",
		`{"provider":"google","role":"SUPERADMIN"}`)
	badRole.Body.Close()
	assert.Equal(t, http.StatusBadRequest, badRole.StatusCode)
}

func TestEntryTokenCapture(t *testing.T) {
	app, client := newApp(t)

	resp := doJSON(t, client, http.MethodGet, app.URL+"/?token=abc123", "")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	home := doJSON(t, client, http.MethodGet, app.URL+"/", "")
	home.Body.Close()
	assert.Equal(t, http.StatusOK, home.StatusCode)

	state := doJSON(t, client, http.MethodGet, app.URL+"/session", "")
	defer state.Body.Close()
	var sess sessionBody
	require.NoError(t, json.NewDecoder(state.Body).Decode(&sess))
	assert.True(t, sess.Authenticated)
	assert.Len(t, sess.Permissions, 4)
}

func TestLogoutClearsSession(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "admin@b.com")

	resp := doJSON(t, client, http.MethodPost, app.URL+"/logout", "")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	home := doJSON(t, client, http.MethodGet, app.URL+"/", "")
	home.Body.Close()
	assert.Equal(t, http.StatusFound, home.StatusCode)
	assert.Equal(t, "/login", home.Header.Get("Location"))
}

func TestAssigningTicketsRequiresPermission(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "user@b.com")

	resp := doJSON(t, client, http.MethodPost, app.URL+"/tickets",
		`{"title":"vpn down","assignedTo":"1"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// patching in an assignee is gated the same way
	patch := doJSON(t, client, http.MethodPatch, app.URL+"/tickets/t1",
		`{"assignedTo":"1"}`)
	patch.Body.Close()
	assert.Equal(t, http.StatusForbidden, patch.StatusCode)

	// without an assignee the create goes through
	ok := doJSON(t, client, http.MethodPost, app.URL+"/tickets", `{"title":"vpn down"}`)
	ok.Body.Close()
	assert.Equal(t, http.StatusCreated, ok.StatusCode)
}

func TestMutatingForeignTicketRequiresManageAll(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "user@b.com")

	// t2 was created by the admin
	resp := doJSON(t, client, http.MethodPatch, app.URL+"/tickets/t2", `{"status":"DONE"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// t1 is the user's own
	own := doJSON(t, client, http.MethodPatch, app.URL+"/tickets/t1", `{"status":"DONE"}`)
	own.Body.Close()
	assert.Equal(t, http.StatusOK, own.StatusCode)
}

func TestAdminMutatesAnyTicket(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "admin@b.com")

	resp := doJSON(t, client, http.MethodPatch, app.URL+"/tickets/t1", `{"priority":"HIGH"}`)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTicketFilters(t *testing.T) {
	app, client := newApp(t)
	loginAs(t, client, app.URL, "user@b.com")

	list := func(query string) []struct {
		ID string `json:"id"`
	} {
		t.Helper()
		resp := doJSON(t, client, http.MethodGet, app.URL+"/tickets"+query, "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Items []struct {
				ID string `json:"id"`
			} `json:"items"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Items
	}

	all := list("")
	require.Len(t, all, 2)

	// mine means assigned to the session user
	mine := list("?filter=mine")
	require.Len(t, mine, 1)
	assert.Equal(t, "t2", mine[0].ID)

	open := list("?filter=OPEN")
	require.Len(t, open, 1)
	assert.Equal(t, "t1", open[0].ID)
}

func TestOAuthLoginRedirectsToProvider(t *testing.T) {
	app, client := newApp(t)

	resp := doJSON(t, client, http.MethodGet, app.URL+"/auth/google/start?role=ADMIN", "")
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.True(t, strings.HasSuffix(resp.Header.Get("Location"), "/auth/google?role=ADMIN"))

	bad := doJSON(t, client, http.MethodGet, app.URL+"/auth/github/start", "")
	bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}
