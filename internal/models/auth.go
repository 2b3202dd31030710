package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for a username or matricula.
type LoginRequest struct {
	Key      string `json:"usuario" form:"usuario" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Landing views a session is routed to after login.
const (
	LandingOrientation = "orientation"
	LandingStudent     = "student"
	LandingPrefect     = "prefect"
)

// SessionInfo describes the authenticated identity.
type SessionInfo struct {
	ID        int64        `json:"id"`
	Name      string       `json:"nombre"`
	Role      UserRole     `json:"rol"`
	Kind      IdentityKind `json:"tipo"`
	Matricula string       `json:"matricula,omitempty"`
}

// LoginResponse returns the session token and where the client should land.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expires_in"`
	User      SessionInfo `json:"user"`
	Landing   string      `json:"landing"`
	Redirect  string      `json:"redirect"`
}

// SessionClaims is the JWT payload.
type SessionClaims struct {
	UserID    int64        `json:"uid"`
	Name      string       `json:"name"`
	Role      UserRole     `json:"role"`
	Kind      IdentityKind `json:"kind"`
	Matricula string       `json:"matricula,omitempty"`
	jwt.RegisteredClaims
}

// Actor returns the mutation actor for staff sessions.
func (c *SessionClaims) Actor() *Actor {
	if c == nil || c.Kind != IdentityStaff {
		return nil
	}
	return &Actor{ID: c.UserID, Name: c.Name}
}
