package nserve

import (
	"sync"

	"github.com/pkg/errors"
)

// Event is what a listener receives
type Event struct {
	Hook    *Hook
	Payload any
}

// Listener is invoked synchronously for each event of the hooks it is
// registered on.
type Listener func(Event) error

// Managed is something that must be stopped on Shutdown
type Managed interface {
	Stop() error
}

// App broadcasts lifecycle events to listeners.  Listeners of a hook
// are invoked in registration order (reverse order for ReverseOrder
// hooks).  Unless the hook continues past errors, the first failure
// stops delivery and is returned.
type App struct {
	lock  sync.Mutex // held when adding listeners
	Hooks map[hookID][]Listener
}

func NewApp() *App {
	return &App{
		Hooks: make(map[hookID][]Listener),
	}
}

// On registers listeners to be invoked on hook invocation.  This can be
// used during listeners: a start listener can register a stop listener.
func (app *App) On(h *Hook, listeners ...Listener) {
	app.lock.Lock()
	defer app.lock.Unlock()
	app.Hooks[h.ID] = append(app.Hooks[h.ID], listeners...)
}

// Listen registers a listener that only wants the payload.  Events with
// payloads of other types are skipped.
func Listen[P any](app *App, h *Hook, f func(P) error) {
	app.On(h, func(e Event) error {
		p, ok := e.Payload.(P)
		if !ok {
			return nil
		}
		return f(p)
	})
}

// Manage arranges for m to be stopped on Shutdown
func (app *App) Manage(m Managed) {
	app.On(Shutdown, func(Event) error {
		return m.Stop()
	})
}

// Count is the number of listeners registered for h
func (app *App) Count(h *Hook) int {
	app.lock.Lock()
	defer app.lock.Unlock()
	return len(app.Hooks[h.ID])
}

// Do invokes the listeners for a hook.  It returns only the first error
// reported unless the hook provides an error combiner.  Listeners that
// are added while a hook runs are not invoked by that run.  Listeners
// may call Do.
func (app *App) Do(h *Hook, payload any) error {
	order, continuePast, ec, onError := h.settings()
	if ec == nil {
		ec = func(err, _ error) error { return err }
	}
	ecw := func(e1, e2 error) error {
		if e1 == nil {
			return e2
		}
		if e2 == nil {
			return e1
		}
		return ec(e1, e2)
	}
	app.lock.Lock()
	listeners := make([]Listener, len(app.Hooks[h.ID]))
	copy(listeners, app.Hooks[h.ID])
	app.lock.Unlock()
	var err error
	call := func(l Listener) {
		e := l(Event{Hook: h, Payload: payload})
		if e != nil {
			e = errors.Wrapf(e, "%s", h)
		}
		err = ecw(err, e)
	}
	if order == ForwardOrder {
		for _, l := range listeners {
			call(l)
			if err != nil && !continuePast {
				break
			}
		}
	} else {
		for i := len(listeners) - 1; i >= 0; i-- {
			call(listeners[i])
			if err != nil && !continuePast {
				break
			}
		}
	}
	if err != nil {
		for _, oe := range onError {
			err = ecw(err, app.Do(oe, payload))
		}
	}
	return err
}
