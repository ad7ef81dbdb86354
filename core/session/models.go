package session

import (
	"context"
	"time"

	"github.com/shulehub/shule/core/profile"
)

// Identity is the ephemeral authenticated identity owned by the identity
// provider. It lives exactly as long as the provider's own session does;
// nothing here persists it.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	Token       string // bearer credential for provider-scoped calls
	ExpiresAt   time.Time
}

// Provider is the narrow surface the resolver needs from the identity
// provider: sign-in/sign-out transitions. A nil Identity means signed out.
type Provider interface {
	// OnStateChange registers fn and returns a function that unregisters it.
	// fn fires once with the current state upon registration, then on every
	// transition.
	OnStateChange(fn func(*Identity)) (unsubscribe func())
}

// ProfileProber resolves an identity id to its profile document.
type ProfileProber interface {
	Probe(ctx context.Context, uid string) (*profile.Profile, error)
}

// State is the single source of truth consumed by role-specific pages.
// Loading is true from construction until the first probe completes, and
// again while a fresh notification is being resolved.
type State struct {
	Profile *profile.Profile
	Loading bool
}

// Authenticated reports whether a profile was resolved. A role-less session
// (signed in, but no profile document) counts as unauthenticated.
func (s State) Authenticated() bool { return s.Profile != nil }
