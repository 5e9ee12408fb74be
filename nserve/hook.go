package nserve

import (
	"sync"
	"sync/atomic"
)

var hookCounter int32

type hookOrder string

const (
	ForwardOrder hookOrder = "forward"
	ReverseOrder hookOrder = "reverse"
)

type hookID int32

// Hook is the handle/name for a list of listeners to invoke.
type Hook struct {
	ID            hookID
	lock          sync.Mutex
	Name          string
	Order         hookOrder
	InvokeOnError []*Hook
	ContinuePast  bool
	ErrorCombiner func(first, second error) error
}

// Copy makes a deep copy of a hook and the new hook gets a new ID.
// Copy is thread-safe.
func (h *Hook) Copy() *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	oe := make([]*Hook, len(h.InvokeOnError))
	copy(oe, h.InvokeOnError)
	return &Hook{
		ID:            hookID(atomic.AddInt32(&hookCounter, 1)),
		Name:          h.Name,
		Order:         h.Order,
		InvokeOnError: oe,
		ContinuePast:  h.ContinuePast,
		ErrorCombiner: h.ErrorCombiner,
	}
}

// NewHook creates a new category of listeners.
func NewHook(name string, order hookOrder) *Hook {
	return &Hook{
		ID:    hookID(atomic.AddInt32(&hookCounter, 1)),
		Name:  name,
		Order: order,
	}
}

// OnError adds to the set of hooks to invoke when a listener of this
// hook returns an error.  Call with nil to clear the set.
// OnError is thread-safe.
func (h *Hook) OnError(e *Hook) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	if e == nil {
		h.InvokeOnError = nil
	} else {
		h.InvokeOnError = append(h.InvokeOnError, e)
	}
	return h
}

// SetErrorCombiner sets a function to combine two errors into one when
// more than one listener fails.
// SetErrorCombiner is thread-safe.
func (h *Hook) SetErrorCombiner(f func(first, second error) error) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.ErrorCombiner = f
	return h
}

// ContinuePastError sets if listeners should continue to be invoked
// if there has already been an error.
// ContinuePastError is thread-safe.
func (h *Hook) ContinuePastError(b bool) *Hook {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.ContinuePast = b
	return h
}

func (h *Hook) settings() (hookOrder, bool, func(first, second error) error, []*Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()
	oe := make([]*Hook, len(h.InvokeOnError))
	copy(oe, h.InvokeOnError)
	return h.Order, h.ContinuePast, h.ErrorCombiner, oe
}

// String is not thread-safe with respect to reaching into a hook and
// changing its Name.  Don't do that.
func (h *Hook) String() string {
	return "hook " + h.Name
}

var (
	Shutdown = NewHook("shutdown", ReverseOrder).ContinuePastError(true)
	Stop     = NewHook("stop", ReverseOrder).OnError(Shutdown).ContinuePastError(true)
	Start    = NewHook("start", ForwardOrder).OnError(Stop)
)
