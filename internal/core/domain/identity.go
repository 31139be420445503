package domain

import "context"

// Identity is the acting caller of a single request, carried on the
// context by the HTTP auth middleware. Mutations attribute votes and
// audit entries to it; the store's user snapshot is only a fallback for
// flows that run outside a request, like the session reconciler.
type Identity struct {
	ID    string
	Email string
}

type identityKey struct{}

// WithIdentity returns a context carrying the acting identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom extracts the acting identity, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
