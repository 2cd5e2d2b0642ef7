package session

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"utms/dashboard/internal/models"
	"utms/dashboard/internal/rbac"
	"utms/dashboard/internal/repository"
	"utms/dashboard/internal/service"
)

var (
	// ErrValidation is raised before any network call when login input is
	// malformed.
	ErrValidation = errors.New("invalid login credentials")

	// ErrUserFetch is raised when a fresh credential does not resolve to a
	// user profile.
	ErrUserFetch = errors.New("failed to fetch user profile")
)

const oauthProviderGoogle = "google"

// Manager drives session state transitions: bootstrap, login, logout. It is
// an explicit instance owned by the application root; consumers receive it
// by injection, never through a global.
type Manager struct {
	store repository.SessionStore
	auth  *service.AuthService
	log   zerolog.Logger
	locks transitionLocks
}

func NewManager(store repository.SessionStore, auth *service.AuthService, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		auth:  auth,
		log:   log,
	}
}

// LoginInput carries either an OAuth provider plus requested role, or an
// email/password pair.
type LoginInput struct {
	Provider string
	Role     rbac.Role
	Email    string
	Password string
}

// Bootstrap reconciles the entry URL and the stored credential into a live
// session. When the entry URL carries a token it is captured and a clean
// URL is returned for a single redirect. A credential that does not resolve
// to a user is treated as invalid and cleared, never retried; the session
// fails closed to unauthenticated, never to an indeterminate state.
func (m *Manager) Bootstrap(ctx context.Context, sid string, entry *url.URL) (Session, string) {
	defer m.locks.lock(sid)()

	sess := New(sid)

	rec, ok, err := m.store.Get(ctx, sid)
	if err != nil {
		m.log.Warn().Err(err).Str("sid", sid).Msg("session store read failed")
		ok = false
	}
	if !ok {
		rec = repository.Record{SID: sid, CreatedAt: time.Now()}
	}

	var clean string
	if token, stripped := CaptureEntryToken(entry); token != "" {
		rec.Credential = token
		rec.User = nil
		clean = stripped
		m.put(ctx, rec)
	}

	if rec.User != nil {
		// mapped user cached by an earlier bootstrap
		m.authenticate(&sess, rec.User)
		return sess, clean
	}

	if rec.Credential == "" {
		sess.State = StateUnauthenticated
		return sess, clean
	}

	bu, found := m.auth.CurrentUser(ctx, rec.Credential)
	if !found {
		rec.Credential = ""
		rec.User = nil
		m.put(ctx, rec)
		sess.State = StateUnauthenticated
		return sess, clean
	}

	user := models.MapBackendUser(bu)
	rec.User = &user
	m.put(ctx, rec)
	m.authenticate(&sess, &user)
	return sess, clean
}

// Login performs either flow. OAuth returns a redirect URL and suspends the
// transition: the real state change happens when the browser re-enters
// Bootstrap with a token on the entry URL. Password login exchanges the
// credentials, stores the token, and resolves the user. Failures surface as
// an error overlay on the returned session and are re-raised to the caller.
func (m *Manager) Login(ctx context.Context, sid string, input LoginInput) (Session, string, error) {
	defer m.locks.lock(sid)()

	sess := New(sid)
	sess.State = StateUnauthenticated

	if input.Provider != oauthProviderGoogle && (input.Email == "" || input.Password == "") {
		sess.Err = ErrValidation.Error()
		return sess, "", ErrValidation
	}

	if input.Provider == oauthProviderGoogle {
		return sess, m.auth.OAuthRedirectURL(input.Provider, input.Role), nil
	}

	token, err := m.auth.LoginWithPassword(ctx, input.Email, input.Password)
	if err != nil {
		sess.Err = err.Error()
		return sess, "", err
	}

	rec := repository.Record{
		SID:        sid,
		Credential: token,
		CreatedAt:  time.Now(),
	}
	m.put(ctx, rec)

	bu, found := m.auth.CurrentUser(ctx, token)
	if !found {
		// the credential stays stored; the next bootstrap retries the
		// lookup and clears it if it still fails
		sess.Err = ErrUserFetch.Error()
		return sess, "", ErrUserFetch
	}

	user := models.MapBackendUser(bu)
	rec.User = &user
	m.put(ctx, rec)
	m.authenticate(&sess, &user)
	return sess, "", nil
}

// Logout clears the credential and resets the session unconditionally. A
// backend logout failure is recorded as a non-fatal overlay; from the user's
// perspective logout always succeeds.
func (m *Manager) Logout(ctx context.Context, sid string) Session {
	defer m.locks.lock(sid)()

	sess := New(sid)
	sess.State = StateUnauthenticated

	rec, ok, err := m.store.Get(ctx, sid)
	if err != nil {
		m.log.Warn().Err(err).Str("sid", sid).Msg("session store read failed")
	}
	if ok && rec.Credential != "" {
		if err := m.auth.Logout(ctx, rec.Credential); err != nil {
			m.log.Warn().Err(err).Str("sid", sid).Msg("backend logout failed")
			sess.Err = err.Error()
		}
	}

	if err := m.store.Delete(ctx, sid); err != nil {
		m.log.Warn().Err(err).Str("sid", sid).Msg("session store delete failed")
	}
	return sess
}

// Credential exposes the stored bearer token for backend proxy calls. Absent
// on any storage failure.
func (m *Manager) Credential(ctx context.Context, sid string) string {
	rec, ok, err := m.store.Get(ctx, sid)
	if err != nil || !ok {
		return ""
	}
	return rec.Credential
}

func (m *Manager) authenticate(sess *Session, user *models.User) {
	sess.State = StateAuthenticated
	sess.User = user
	sess.Permissions = rbac.Resolve(user.Role)
}

// put persists best-effort: a dead store degrades to "always require login"
// rather than failing the transition.
func (m *Manager) put(ctx context.Context, rec repository.Record) {
	if err := m.store.Put(ctx, rec); err != nil {
		m.log.Warn().Err(err).Str("sid", rec.SID).Msg("session store write failed")
	}
}
