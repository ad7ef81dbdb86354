package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/profile"
)

// Resolver listens for identity-provider state changes and resolves the
// authenticated profile by probing the role collections in their fixed
// order. It is the one source of "who is signed in" for every consumer;
// pages read Current or subscribe with OnChange instead of holding ambient
// globals.
//
// Only the newest notification's outcome may become the state: each
// notification bumps a generation counter and a probe result carrying a
// stale generation is discarded.
type Resolver struct {
	prober  ProfileProber
	logger  core.Logger
	timeout time.Duration

	mu        sync.Mutex
	gen       uint64
	state     State
	listeners map[int]func(State)
	nextID    int
	unsub     func()
}

func NewResolver(provider Provider, prober ProfileProber, logger core.Logger) *Resolver {
	r := &Resolver{
		prober:    prober,
		logger:    logger,
		timeout:   core.Conf.HTTPTimeout,
		state:     State{Loading: true},
		listeners: make(map[int]func(State)),
	}
	r.unsub = provider.OnStateChange(r.handle)
	return r
}

// Current returns the last resolved state.
func (r *Resolver) Current() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// OnChange registers fn to run after every completed resolution. The
// returned function unregisters it; late results never reach an
// unregistered listener.
func (r *Resolver) OnChange(fn func(State)) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		delete(r.listeners, id)
	}
}

// Close detaches the resolver from the identity provider. In-flight probes
// are discarded on completion.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.gen++ // invalidate in-flight probes
	r.mu.Unlock()
	r.unsub()
}

func (r *Resolver) handle(ident *Identity) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.state.Loading = true
	r.mu.Unlock()

	if ident == nil {
		r.setState(gen, State{})
		return
	}
	id := *ident
	go r.resolve(gen, &id)
}

func (r *Resolver) resolve(gen uint64, ident *Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	p, err := r.prober.Probe(ctx, ident.UID)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			r.logger.Warn(fmt.Sprintf("no profile document found for %s in any role collection", ident.UID))
		} else {
			// read failures must not crash the consuming page tree
			r.logger.Error(fmt.Sprintf("resolving profile for %s", ident.UID), err)
		}
		r.setState(gen, State{})
		return
	}
	r.setState(gen, State{Profile: p})
}

func (r *Resolver) setState(gen uint64, st State) {
	r.mu.Lock()
	if gen != r.gen {
		// a newer notification superseded this probe
		r.mu.Unlock()
		return
	}
	r.state = st
	fns := make([]func(State), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
