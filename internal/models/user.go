package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"utms/dashboard/internal/rbac"
)

// User is the dashboard projection of a backend user record. It is always
// derived from a backend response, never constructed independently.
type User struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Avatar string    `json:"avatar"`
	Role   rbac.Role `json:"role"`
}

// BackendUser is the raw user record as the backend returns it. Some backend
// services expose a mongo-style "_id" alongside "id".
type BackendUser struct {
	MongoID string   `json:"_id"`
	ID      string   `json:"id"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
}

// MapBackendUser derives the dashboard user from a backend record. The name
// is the local part of the email and the avatar a deterministic gravatar
// identicon. The mapping is total: any well-formed record maps.
func MapBackendUser(bu BackendUser) User {
	id := bu.MongoID
	if id == "" {
		id = bu.ID
	}

	name := bu.Email
	if at := strings.IndexByte(bu.Email, '@'); at >= 0 {
		name = bu.Email[:at]
	}

	return User{
		ID:     id,
		Name:   name,
		Email:  bu.Email,
		Avatar: GravatarURL(bu.Email),
		Role:   rbac.RoleFromBackend(bu.Roles),
	}
}

// GravatarURL builds the identicon URL for an email address, hashed per the
// gravatar scheme (SHA-256 of the trimmed, lowercased address).
func GravatarURL(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?d=identicon"
}
