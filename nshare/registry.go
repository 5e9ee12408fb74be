package nshare

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// Registry maps owners (the application object) to their State.  Other
// handles, like an environment, can be attached to an owner so that
// the state can be found through them.  Owners and handles must be
// comparable, pointers are typical.
//
// Several owners can be live at the same time, parallel tests for
// example.  Registry is safe for concurrent use.
type Registry struct {
	lock     sync.RWMutex
	states   map[any]*State
	attached map[any]any
}

// Default is the process-wide registry
var Default = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{
		states:   make(map[any]*State),
		attached: make(map[any]any),
	}
}

// Init creates a new State and assigns it to owner
func (r *Registry) Init(owner any) (*State, error) {
	s := New()
	if err := r.Assign(owner, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Assign associates s with owner.  An owner can have only one state.
func (r *Registry) Assign(owner any, s *State) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.states[owner]; ok {
		return errors.Wrapf(ErrAlreadyAssigned, "owner %T", owner)
	}
	r.states[owner] = s
	s.lock.Lock()
	s.registry = r
	s.owner = owner
	s.lock.Unlock()
	return nil
}

// Attach makes the state of owner reachable through handle
func (r *Registry) Attach(handle any, owner any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.attached[handle] = owner
}

// Lookup finds the state for an owner or for a handle attached to one
func (r *Registry) Lookup(handle any) (*State, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if s, ok := r.states[handle]; ok {
		return s, true
	}
	if owner, ok := r.attached[handle]; ok {
		s, ok := r.states[owner]
		return s, ok
	}
	return nil, false
}

// GetOrFail is Lookup that returns an error with the given message
func (r *Registry) GetOrFail(handle any, format string, args ...any) (*State, error) {
	s, ok := r.Lookup(handle)
	if !ok {
		return nil, errors.Wrap(ErrNoState, fmt.Sprintf(format, args...))
	}
	return s, nil
}

// Destroy forgets the state of owner and all handles attached to it
func (r *Registry) Destroy(owner any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.states, owner)
	for h, o := range r.attached {
		if o == owner {
			delete(r.attached, h)
		}
	}
}

// Count is the number of live states
func (r *Registry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.states)
}

// Clear forgets everything
func (r *Registry) Clear() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.states = make(map[any]*State)
	r.attached = make(map[any]any)
}

// LookupValue finds the value for type V in the state of handle
func LookupValue[V any](r *Registry, handle any) (V, bool) {
	s, ok := r.Lookup(handle)
	if !ok {
		var zero V
		return zero, false
	}
	return Get[V](s)
}

// LookupOrFail is LookupValue that returns an error with the message
func LookupOrFail[V any](r *Registry, handle any, format string, args ...any) (V, error) {
	v, ok := LookupValue[V](r, handle)
	if !ok {
		return v, errors.Wrap(ErrNotSet, fmt.Sprintf(format, args...))
	}
	return v, nil
}
