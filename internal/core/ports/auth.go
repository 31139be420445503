package ports

import (
	"context"
	"time"
)

// AuthEventType enumerates the auth-state change notifications the gateway
// emits on its event stream.
type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "SIGNED_IN"
	AuthSignedOut      AuthEventType = "SIGNED_OUT"
	AuthInitialSession AuthEventType = "INITIAL_SESSION"
)

// AuthSession is the raw authentication credential: proof of identity, not
// yet an application user. The session reconciler resolves it against the
// profiles table before anyone is treated as signed in.
type AuthSession struct {
	UserID    string
	Email     string
	Token     string
	ExpiresAt time.Time
}

// AuthEvent is one auth-state change. Session is nil for SIGNED_OUT and for
// an initial session with no credential (guest).
type AuthEvent struct {
	Type    AuthEventType
	Session *AuthSession
}

// AuthGateway is the backend's auth subsystem: sign-up/sign-in/sign-out,
// session retrieval, and a long-lived auth-state event stream.
type AuthGateway interface {
	// SignUp registers a credential and returns the new user id.
	SignUp(ctx context.Context, email, password string) (string, error)
	// SignIn verifies the credential, mints a session, and emits SIGNED_IN.
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)
	// SignOut invalidates the session and emits SIGNED_OUT.
	SignOut(ctx context.Context, token string) error
	// CurrentSession resolves a token back into its session, or an error
	// when the token is invalid or expired (the strict identity check).
	CurrentSession(ctx context.Context, token string) (*AuthSession, error)
	// EmitInitialSession pushes the INITIAL_SESSION event observed at app
	// start. session is nil for a guest load.
	EmitInitialSession(session *AuthSession)
	// Events returns the auth-state change stream.
	Events() <-chan AuthEvent
}
