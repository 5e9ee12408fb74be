package nshare

import (
	"context"
)

type startupKey struct{}

// WithStartup makes s reachable with Startup from everything that is
// called with the returned context.  Use it for code that runs during
// startup before the owner of the state exists.
func WithStartup(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, startupKey{}, s)
}

// Startup returns the state carried by ctx.  It fails with
// ErrNoStartupInstance when ctx does not carry one and with
// ErrStartupComplete when the state was already released with
// ForgetStartup.
func Startup(ctx context.Context) (*State, error) {
	s, ok := ctx.Value(startupKey{}).(*State)
	if !ok || s == nil {
		return nil, ErrNoStartupInstance
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.startup {
		return nil, ErrStartupComplete
	}
	return s, nil
}

// ForgetStartup ends startup access.  After this the state can only be
// found through its Registry.
func (s *State) ForgetStartup() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.startup = false
}
