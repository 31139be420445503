// Package session reconciles raw backend auth state with the application's
// identity model: it listens to auth-state change events, resolves
// credentials into profiles, enforces the pending-account block, and
// mirrors the resolved identity into the local session cache.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blueprintmfg/settings-portal/internal/api/metrics"
	"github.com/blueprintmfg/settings-portal/internal/core/domain"
	"github.com/blueprintmfg/settings-portal/internal/core/ports"
)

// State is the reconciler's position in the auth lifecycle.
type State string

const (
	StateUnauthenticated   State = "unauthenticated"
	StateResolvingProfile  State = "resolving_profile"
	StateApproved          State = "authenticated_approved"
	StatePending           State = "authenticated_pending"
	StateRejectedOrMissing State = "authenticated_rejected_or_missing"
)

// Options tunes the reconciler's timers.
type Options struct {
	// SignOutTimeout bounds the remote sign-out call; on expiry the call
	// is abandoned and local state is cleared anyway.
	SignOutTimeout time.Duration
	// ExpirySweepInterval is how often the local session-expiry epoch is
	// checked.
	ExpirySweepInterval time.Duration
	// ShortSessionTTL is the client-side session lifetime applied when the
	// user declines "remember me".
	ShortSessionTTL time.Duration
}

func (o Options) withDefaults() Options {
	if o.SignOutTimeout <= 0 {
		o.SignOutTimeout = 2 * time.Second
	}
	if o.ExpirySweepInterval <= 0 {
		o.ExpirySweepInterval = time.Minute
	}
	if o.ShortSessionTTL <= 0 {
		o.ShortSessionTTL = 15 * time.Minute
	}
	return o
}

// Reconciler owns the session state machine. All transitions funnel through
// resolveSession and forceSignOut so that cache, store snapshot, and state
// can never disagree for long.
type Reconciler struct {
	auth     ports.AuthGateway
	profiles ports.ProfilesTable
	cache    ports.SessionCache
	store    ports.StateStore
	log      zerolog.Logger
	opts     Options

	mu    sync.Mutex
	state State
	token string
}

func New(auth ports.AuthGateway, profiles ports.ProfilesTable, cache ports.SessionCache, st ports.StateStore, log zerolog.Logger, opts Options) *Reconciler {
	return &Reconciler{
		auth:     auth,
		profiles: profiles,
		cache:    cache,
		store:    st,
		log:      log,
		opts:     opts.withDefaults(),
		state:    StateUnauthenticated,
	}
}

// State returns the current lifecycle state.
func (r *Reconciler) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Reconciler) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Reconciler) setToken(t string) {
	r.mu.Lock()
	r.token = t
	r.mu.Unlock()
}

func (r *Reconciler) currentToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token
}

// Start restores any cached identity, performs the strict server-side
// session check, announces the initial session, and launches the event
// consumer plus the expiry sweep. It returns once the goroutines are
// running; they stop when ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	r.restore(ctx)

	go r.run(ctx)
	go r.sweepExpiry(ctx)
}

// restore optimistically repopulates the user snapshot from the session
// cache (avoids an unauthenticated flash), then verifies the cached token
// against the backend. A failed strict check clears every trace of local
// identity.
func (r *Reconciler) restore(ctx context.Context) {
	cached, token, err := r.cache.LoadIdentity(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to read cached identity")
	}
	if cached == nil || token == "" {
		r.auth.EmitInitialSession(nil)
		return
	}

	// Optimistic snapshot while the strict check runs.
	r.store.SetUser(cached)
	r.setToken(token)

	sess, err := r.auth.CurrentSession(ctx, token)
	if err != nil {
		r.log.Info().Err(err).Msg("cached session failed strict check, clearing identity")
		metrics.ForcedLogoutsTotal.WithLabelValues("invalid_session").Inc()
		r.clearLocalIdentity(ctx)
		r.auth.EmitInitialSession(nil)
		return
	}

	r.auth.EmitInitialSession(sess)
}

// run consumes the auth-state change stream until ctx is cancelled.
func (r *Reconciler) run(ctx context.Context) {
	events := r.auth.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			r.handleEvent(ctx, ev)
		}
	}
}

func (r *Reconciler) handleEvent(ctx context.Context, ev ports.AuthEvent) {
	switch ev.Type {
	case ports.AuthSignedIn:
		if ev.Session == nil {
			return
		}
		if _, err := r.resolveSession(ctx, ev.Session); err != nil {
			// Deliberate fail-safe bias: any resolution trouble means the
			// visitor browses as a guest, never as a half-resolved user.
			r.log.Warn().Err(err).Str("user_id", ev.Session.UserID).Msg("session resolution failed")
		}
	case ports.AuthInitialSession:
		if ev.Session == nil {
			// Guest load: data is still fetched for public browsing.
			r.setState(StateUnauthenticated)
			r.fetchData(ctx)
			return
		}
		if _, err := r.resolveSession(ctx, ev.Session); err != nil {
			r.log.Warn().Err(err).Msg("initial session resolution failed")
			r.fetchData(ctx)
		}
	case ports.AuthSignedOut:
		r.clearLocalIdentity(ctx)
		r.setState(StateUnauthenticated)
	}
}

// resolveSession joins a raw credential against the profiles table and
// applies the approval gate. Only an approved profile yields a populated
// user snapshot.
func (r *Reconciler) resolveSession(ctx context.Context, sess *ports.AuthSession) (*domain.User, error) {
	r.setState(StateResolvingProfile)
	r.setToken(sess.Token)

	row, err := r.profiles.Find(ctx, sess.UserID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		r.setState(StateUnauthenticated)
		return nil, fmt.Errorf("resolve profile: %w", err)
	}

	if row == nil {
		// Credential without a profile: create a default pending one so an
		// admin can approve it later.
		newRow := ports.ProfileRow{
			ID:        sess.UserID,
			Email:     sess.Email,
			Role:      domain.RoleModerator,
			Status:    string(domain.ProfilePending),
			CreatedAt: time.Now().UTC(),
		}
		if insErr := r.profiles.Insert(ctx, newRow); insErr != nil {
			r.log.Error().Err(insErr).Str("user_id", sess.UserID).Msg("failed to create default profile")
		}
		r.setState(StateRejectedOrMissing)
		return nil, domain.ErrAccountPending
	}

	switch domain.ProfileStatus(row.Status) {
	case domain.ProfilePending:
		// Sign-in succeeded at the backend but the account is not approved:
		// force a clean sign-out rather than a partial state.
		metrics.ForcedLogoutsTotal.WithLabelValues("pending_profile").Inc()
		r.forceSignOut(ctx)
		r.setState(StateUnauthenticated)
		return nil, domain.ErrAccountPending
	case domain.ProfileApproved:
		user := &domain.User{
			ID:        row.ID,
			Email:     row.Email,
			Role:      row.Role,
			Status:    domain.ProfileApproved,
			FirstName: row.FirstName,
			LastName:  row.LastName,
		}
		r.store.SetUser(user)
		if err := r.cache.SaveIdentity(ctx, *user, sess.Token); err != nil {
			r.log.Warn().Err(err).Msg("failed to persist identity snapshot")
		}
		r.setState(StateApproved)
		r.fetchData(ctx)
		return user, nil
	default:
		r.setState(StateRejectedOrMissing)
		return nil, domain.ErrForbidden
	}
}

// Login signs in against the backend and synchronously resolves the
// profile, so callers get the pending/approved outcome in one round trip.
// The SIGNED_IN event still flows through the stream; handling it again is
// idempotent. With rememberMe false, a client-side expiry epoch is stored
// and the expiry sweep enforces it.
func (r *Reconciler) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, string, error) {
	sess, err := r.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	user, err := r.resolveSession(ctx, sess)
	if err != nil {
		return nil, "", err
	}

	if rememberMe {
		// A stale epoch from an earlier short-session login must not cut
		// this session off.
		if err := r.cache.ClearSessionExpiry(ctx); err != nil {
			r.log.Warn().Err(err).Msg("failed to clear session expiry")
		}
	} else {
		if err := r.cache.SaveSessionExpiry(ctx, time.Now().Add(r.opts.ShortSessionTTL)); err != nil {
			r.log.Warn().Err(err).Msg("failed to persist session expiry")
		}
	}

	r.log.Info().Str("email", user.Email).Str("role", user.Role).Msg("user logged in")
	return user, sess.Token, nil
}

// Logout races the remote sign-out against a short timeout so a hung
// network call can never block it, then unconditionally clears all local
// identity state. A remote session abandoned this way is defended against
// by the strict check and cache purge on next start.
func (r *Reconciler) Logout(ctx context.Context) {
	token := r.currentToken()
	if token != "" {
		done := make(chan struct{})
		go func() {
			signOutCtx, cancel := context.WithTimeout(context.Background(), r.opts.SignOutTimeout)
			defer cancel()
			if err := r.auth.SignOut(signOutCtx, token); err != nil {
				r.log.Warn().Err(err).Msg("remote sign-out failed")
			}
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(r.opts.SignOutTimeout):
			r.log.Warn().Msg("remote sign-out timed out, clearing local session anyway")
		}
	}

	r.clearLocalIdentity(ctx)
	r.setState(StateUnauthenticated)
	r.log.Info().Msg("user logged out")
}

// forceSignOut is the internal logout used by the approval gate and the
// expiry sweep; same clearing discipline as Logout.
func (r *Reconciler) forceSignOut(ctx context.Context) {
	r.Logout(ctx)
}

// clearLocalIdentity purges both cache tiers (including any backend-session
// artifacts) and nulls the user snapshot.
func (r *Reconciler) clearLocalIdentity(ctx context.Context) {
	if err := r.cache.PurgeAll(ctx); err != nil {
		r.log.Warn().Err(err).Msg("failed to purge session cache")
	}
	r.store.ClearUser()
	r.setToken("")
}

// sweepExpiry periodically enforces the client-side session expiry written
// for "remember me = off" logins.
func (r *Reconciler) sweepExpiry(ctx context.Context) {
	ticker := time.NewTicker(r.opts.ExpirySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.checkExpiry(ctx)
		}
	}
}

func (r *Reconciler) checkExpiry(ctx context.Context) {
	at, ok, err := r.cache.SessionExpiry(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to read session expiry")
		return
	}
	if !ok || time.Now().Before(at) {
		return
	}
	r.log.Info().Time("expired_at", at).Msg("local session expired, logging out")
	metrics.ForcedLogoutsTotal.WithLabelValues("expired").Inc()
	r.forceSignOut(ctx)
}

// fetchData kicks the bulk loader; the store's in-flight guard deduplicates
// overlapping triggers.
func (r *Reconciler) fetchData(ctx context.Context) {
	if err := r.store.FetchData(ctx); err != nil {
		r.log.Error().Err(err).Msg("data load failed")
	}
}
