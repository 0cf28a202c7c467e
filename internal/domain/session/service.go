package session

import (
	"context"
)

// SessionService issues and revokes student sessions. The session replaces
// the ambient logged-in-student state of earlier designs: it is created at
// login, carried explicitly on every scan and portal call, and cleared at
// logout.
type SessionService interface {
	// Login validates the student ID against the roster (the student must be
	// approved) and issues a session token.
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)

	// Logout revokes the session carried in ctx.
	Logout(ctx context.Context) error
}
