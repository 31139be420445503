package ports

import (
	"context"
	"time"

	"github.com/blueprintmfg/settings-portal/internal/core/domain"
)

// SessionCache is the local two-tier key/value storage: a session-scoped
// tier holding the resolved identity snapshot, and a longer-lived tier
// holding the optional session-expiry epoch plus any backend-session
// artifacts. PurgeAll is the aggressive-cleanup path used on logout and
// after a failed strict session check.
type SessionCache interface {
	SaveIdentity(ctx context.Context, user domain.User, token string) error
	LoadIdentity(ctx context.Context) (*domain.User, string, error)
	SaveSessionExpiry(ctx context.Context, at time.Time) error
	SessionExpiry(ctx context.Context) (time.Time, bool, error)
	ClearSessionExpiry(ctx context.Context) error
	PurgeAll(ctx context.Context) error
}
