package nshare

import (
	"fmt"
	"reflect"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrAlreadySet        = errors.New("nshare: value already defined")
	ErrNilValue          = errors.New("nshare: nil values are not accepted")
	ErrNotSet            = errors.New("nshare: value not available")
	ErrAlreadyAssigned   = errors.New("nshare: state already associated with owner")
	ErrNoState           = errors.New("nshare: no state for handle")
	ErrNoStartupInstance = errors.New("nshare: startup state is not available in this call chain")
	ErrStartupComplete   = errors.New("nshare: startup is complete, look up the state by its owner instead")
)

type listener struct {
	f      func(any)
	source string
}

// State is a write-once key/value store shared by everything that
// configures one application.  Every read is recorded, hit or miss,
// together with the code location that made it.  AccessReport
// renders the history.
//
// Writes are expected during startup.  Reads are safe from any
// goroutine.
type State struct {
	lock      sync.Mutex
	id        uuid.UUID
	values    map[string]any
	setOrder  []string
	setBy     map[string]string
	access    map[string][]string
	accessed  []string
	listeners map[string][]listener
	waiting   []string
	startup   bool
	registry  *Registry
	owner     any
}

// New creates an empty State that is not yet assigned to an owner
func New() *State {
	return &State{
		id:        uuid.New(),
		values:    make(map[string]any),
		setBy:     make(map[string]string),
		access:    make(map[string][]string),
		listeners: make(map[string][]listener),
		startup:   true,
	}
}

// ID is unique for each State
func (s *State) ID() uuid.UUID { return s.id }

// Put stores a value.  Each key can be written once.  Listeners
// waiting for the key are invoked, outside of the state lock, before
// Put returns.
func (s *State) Put(key string, value any) error {
	if value == nil {
		return errors.Wrapf(ErrNilValue, "key %s", key)
	}
	source := callerSource()
	s.lock.Lock()
	if _, ok := s.values[key]; ok {
		s.lock.Unlock()
		return errors.Wrapf(ErrAlreadySet, "shared state for key %s", key)
	}
	s.values[key] = value
	s.setOrder = append(s.setOrder, key)
	s.setBy[key] = source
	waiting := s.listeners[key]
	delete(s.listeners, key)
	for _, l := range waiting {
		s.recordLocked(key, "GET  "+l.source)
	}
	s.lock.Unlock()
	for _, l := range waiting {
		l.f(value)
	}
	return nil
}

// Get returns the value for key.  A miss is not an error.
func (s *State) Get(key string) (any, bool) {
	source := callerSource()
	s.lock.Lock()
	defer s.lock.Unlock()
	v, ok := s.values[key]
	if ok {
		s.recordLocked(key, "GET  "+source)
	} else {
		s.recordLocked(key, "MISS "+source)
	}
	return v, ok
}

// GetOrPut returns the value for key, storing the result of init
// first if the key is not set.
func (s *State) GetOrPut(key string, init func() any) (any, error) {
	s.lock.Lock()
	_, ok := s.values[key]
	s.lock.Unlock()
	if !ok {
		if err := s.Put(key, init()); err != nil && !errors.Is(err, ErrAlreadySet) {
			return nil, err
		}
	}
	v, _ := s.Get(key)
	return v, nil
}

// GetOrFail returns the value for key or an error with the given message
func (s *State) GetOrFail(key string, format string, args ...any) (any, error) {
	v, ok := s.Get(key)
	if !ok {
		return nil, errors.Wrap(ErrNotSet, fmt.Sprintf(format, args...))
	}
	return v, nil
}

// WhenReady invokes f with the value of key: immediately if the value
// is set, otherwise once, when it is set.  A listener for a key that is
// never set is never invoked and shows in the access report.
func (s *State) WhenReady(key string, f func(any)) {
	source := callerSource()
	s.lock.Lock()
	v, ok := s.values[key]
	if ok {
		s.recordLocked(key, "GET  "+source)
		s.lock.Unlock()
		f(v)
		return
	}
	if _, queued := s.listeners[key]; !queued {
		s.waiting = append(s.waiting, key)
	}
	s.listeners[key] = append(s.listeners[key], listener{f: f, source: source})
	s.lock.Unlock()
}

func (s *State) recordLocked(key string, entry string) {
	if _, ok := s.access[key]; !ok {
		s.accessed = append(s.accessed, key)
	}
	s.access[key] = append(s.access[key], entry)
}

// Keys returns the keys that are set, sorted
func (s *State) Keys() []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Access returns the recorded reads of key
func (s *State) Access(key string) []string {
	s.lock.Lock()
	defer s.lock.Unlock()
	a := make([]string, len(s.access[key]))
	copy(a, s.access[key])
	return a
}

// AccessReport lists every key that was set, where it was set from and
// all the reads of it.  Keys that were read or waited for but never set
// are listed as NEVER SET.
func (s *State) AccessReport() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	var b strings.Builder
	blankLineAdded := false
	for _, k := range s.setOrder {
		gets := s.access[k]
		if !blankLineAdded && (b.Len() == 0 || len(gets) > 0) {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\tSET %-80s\t %s\n", renderKey(k), s.setBy[k])
		blankLineAdded = false
		for _, g := range gets {
			b.WriteString("\t\t" + g + "\n")
		}
		if len(gets) > 0 {
			b.WriteString("\n")
			blankLineAdded = true
		}
	}
	reported := make(map[string]struct{})
	for _, k := range s.accessed {
		if _, ok := s.values[k]; ok {
			continue
		}
		reported[k] = struct{}{}
		b.WriteString("\n\tNEVER SET " + renderKey(k) + "\n")
		for _, g := range s.access[k] {
			b.WriteString("\t\t" + g + "\n")
		}
		for _, l := range s.listeners[k] {
			b.WriteString("\t\tMISS " + l.source + "\n")
		}
	}
	for _, k := range s.waiting {
		if _, ok := reported[k]; ok {
			continue
		}
		if _, ok := s.listeners[k]; !ok {
			continue
		}
		b.WriteString("\n\tNEVER SET " + renderKey(k) + "\n")
		for _, l := range s.listeners[k] {
			b.WriteString("\t\tMISS " + l.source + "\n")
		}
	}
	return b.String()
}

// Shutdown removes the state from the registry it was assigned to
func (s *State) Shutdown() {
	s.lock.Lock()
	r, owner := s.registry, s.owner
	s.lock.Unlock()
	if r != nil {
		r.Destroy(owner)
	}
}

// Stop is Shutdown with a signature that fits lifecycle managers
func (s *State) Stop() error {
	s.Shutdown()
	return nil
}

func (s *State) String() string {
	keys := s.Keys()
	return fmt.Sprintf("Shared state with %d objects: %s", len(keys), strings.Join(keys, ", "))
}

func renderKey(key string) string {
	i := strings.LastIndex(key, ".")
	if i == -1 {
		return key
	}
	return key[i+1:] + " (" + key[:i] + ")"
}

// KeyOf returns the key used for values of type V by the typed helpers
func KeyOf[V any]() string {
	return TypeKey(reflect.TypeOf((*V)(nil)).Elem())
}

// TypeKey is the fully qualified name of t
func TypeKey(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + TypeKey(t.Elem())
	case reflect.Slice:
		return "[]" + TypeKey(t.Elem())
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

// Put stores value under the key for type V
func Put[V any](s *State, value V) error {
	return s.Put(KeyOf[V](), value)
}

// Get returns the value stored under the key for type V
func Get[V any](s *State) (V, bool) {
	v, ok := s.Get(KeyOf[V]())
	if !ok {
		var zero V
		return zero, false
	}
	return v.(V), true
}

// GetOrDefault returns the value for type V, storing init() first if
// it is not set.
func GetOrDefault[V any](s *State, init func() V) (V, error) {
	v, err := s.GetOrPut(KeyOf[V](), func() any { return init() })
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// GetOrFail returns the value for type V or an error with the message
func GetOrFail[V any](s *State, format string, args ...any) (V, error) {
	v, err := s.GetOrFail(KeyOf[V](), format, args...)
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}

// WhenReady invokes f with the value for type V once it is available
func WhenReady[V any](s *State, f func(V)) {
	s.WhenReady(KeyOf[V](), func(v any) { f(v.(V)) })
}

const pkgPrefix = "github.com/muir/ntrack/nshare."

// callerSource describes the first caller outside of this package
func callerSource() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, pkgPrefix) || strings.HasSuffix(f.File, "_test.go") {
			return fmt.Sprintf("at %s(%s:%d)", shortFunc(f.Function), shortFile(f.File), f.Line)
		}
		if !more {
			return "at unknown"
		}
	}
}

func shortFunc(fn string) string {
	if i := strings.LastIndex(fn, "/"); i != -1 {
		return fn[i+1:]
	}
	return fn
}

func shortFile(file string) string {
	if i := strings.LastIndex(file, "/"); i != -1 {
		return file[i+1:]
	}
	return file
}
