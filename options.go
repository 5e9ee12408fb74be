package ntrack

import (
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// OptionDef describes an option without its value type.  Option[T]
// implements it.
type OptionDef interface {
	Name() string
	Default() any
}

// Option is a typed, named configuration switch with a default.
type Option[T any] struct {
	name string
	def  T
}

// NewOption defines an option.  Define options once, as package
// variables, and register them with RegisterOptions so that they can
// be set by name.
func NewOption[T any](name string, def T) Option[T] {
	return Option[T]{name: name, def: def}
}

func (o Option[T]) Name() string { return o.name }
func (o Option[T]) Default() any { return o.def }

// Core options
var (
	// ScanPackages lists packages for the classpath scan
	ScanPackages = NewOption[[]string]("scan-packages", nil)
	// SearchCommands enables command registration from the scan
	SearchCommands = NewOption("search-commands", false)
	// UseBundleLookup enables RegisterLookupBundles
	UseBundleLookup = NewOption("use-bundle-lookup", true)
	// TrackExternalBundles records external bundles registered by other
	// external bundles
	TrackExternalBundles = NewOption("track-external-bundles", true)
	// DuplicatePolicy selects the duplicate detector when none is set
	// explicitly: "equals" or "legacy"
	DuplicatePolicy = NewOption("duplicate-policy", "equals")
)

var (
	optionsLock sync.Mutex
	knownOpts   = make(map[string]OptionDef)
)

// RegisterOptions makes options settable by name with Options.Set
func RegisterOptions(opts ...OptionDef) {
	optionsLock.Lock()
	defer optionsLock.Unlock()
	for _, o := range opts {
		knownOpts[o.Name()] = o
	}
}

func init() {
	RegisterOptions(ScanPackages, SearchCommands, UseBundleLookup, TrackExternalBundles, DuplicatePolicy)
}

// KnownOptions returns all registered options sorted by name
func KnownOptions() []OptionDef {
	optionsLock.Lock()
	defer optionsLock.Unlock()
	defs := make([]OptionDef, 0, len(knownOpts))
	for _, o := range knownOpts {
		defs = append(defs, o)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name() < defs[j].Name() })
	return defs
}

// Options holds option values.  It remembers which options were
// explicitly set and which were read.
type Options struct {
	lock   sync.Mutex
	values map[string]any
	used   map[string]struct{}
}

func newOptions() *Options {
	return &Options{
		values: make(map[string]any),
		used:   make(map[string]struct{}),
	}
}

// SetOption sets the value of opt
func SetOption[T any](o *Options, opt Option[T], value T) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.values[opt.name] = value
}

// GetOption returns the value of opt or its default and marks the
// option as used.
func GetOption[T any](o *Options, opt Option[T]) T {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.used[opt.name] = struct{}{}
	if v, ok := o.values[opt.name]; ok {
		return v.(T)
	}
	return opt.def
}

// Set assigns a value to a registered option by name.  The value must
// be assignable to the type of the option's default.
func (o *Options) Set(name string, value any) error {
	optionsLock.Lock()
	def, ok := knownOpts[name]
	optionsLock.Unlock()
	if !ok {
		return errors.Wrapf(ErrInvalidOption, "unknown option %s", name)
	}
	want := reflect.TypeOf(def.Default())
	if want == nil {
		want = reflect.TypeOf(value)
	}
	if value == nil || !reflect.TypeOf(value).AssignableTo(want) {
		return errors.Wrapf(ErrInvalidOption, "option %s wants %s, got %T", name, want, value)
	}
	o.lock.Lock()
	defer o.lock.Unlock()
	o.values[name] = value
	return nil
}

// Value returns the current value of a registered option without
// marking it used.
func (o *Options) Value(name string) (any, bool) {
	o.lock.Lock()
	v, ok := o.values[name]
	o.lock.Unlock()
	if ok {
		return v, true
	}
	optionsLock.Lock()
	defer optionsLock.Unlock()
	if def, ok := knownOpts[name]; ok {
		return def.Default(), true
	}
	return nil, false
}

// IsSet is true for options given a value
func (o *Options) IsSet(name string) bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	_, ok := o.values[name]
	return ok
}

// IsUsed is true for options that were read with GetOption
func (o *Options) IsUsed(name string) bool {
	o.lock.Lock()
	defer o.lock.Unlock()
	_, ok := o.used[name]
	return ok
}
