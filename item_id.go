package ntrack

import (
	"fmt"
	"hash/fnv"
	"reflect"

	"github.com/muir/reflectutils"
)

// ItemID identifies a configuration item.  Class items (and class level
// disables) have an empty Identity.  Instance items carry an identity
// that tells apart several instances of the same type.
//
// ItemID is comparable: == is exact equality and ItemID can be used as
// a map key.  Use Matches for the looser rule where a class id stands
// for all instances of its type.
type ItemID struct {
	Type     reflect.Type
	Identity string
}

// Identified can be implemented by instance items that want to supply
// their own identity.  Use it when two distinct values must be
// recognized as the same item, for example copies of a value that
// were made by different loaders.
type Identified interface {
	ItemIdentity() string
}

// TypeID returns the class id for a type
func TypeID(t reflect.Type) ItemID {
	return ItemID{Type: t}
}

// TypeOf returns the class id for T
func TypeOf[T any]() ItemID {
	return TypeID(reflect.TypeOf((*T)(nil)).Elem())
}

// ItemIDOf returns the instance id of a value.  A reflect.Type
// produces a class id and an ItemID is returned unchanged.
func ItemIDOf(v any) ItemID {
	switch x := v.(type) {
	case nil:
		return ItemID{}
	case ItemID:
		return x
	case reflect.Type:
		return TypeID(x)
	}
	return ItemID{
		Type:     reflect.TypeOf(v),
		Identity: identityOf(v),
	}
}

func identityOf(v any) string {
	if ided, ok := v.(Identified); ok {
		return ided.ItemIdentity()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Slice:
		return fmt.Sprintf("%x", rv.Pointer())
	}
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%#v", v)
	return fmt.Sprintf("%x", h.Sum64())
}

// IsZero is true for the empty ItemID
func (id ItemID) IsZero() bool {
	return id.Type == nil
}

// IsClass is true when the id has no instance identity
func (id ItemID) IsClass() bool {
	return id.Identity == ""
}

// Class returns the class id for the type of id
func (id ItemID) Class() ItemID {
	return ItemID{Type: id.Type}
}

// Matches implements loose equality: the types must be identical and
// either both identities match or one of them is a class id.
func (id ItemID) Matches(other ItemID) bool {
	if id.Type != other.Type {
		return false
	}
	return id.Identity == other.Identity || id.Identity == "" || other.Identity == ""
}

func (id ItemID) String() string {
	if id.Type == nil {
		return "<none>"
	}
	n := reflectutils.TypeName(id.Type)
	if id.Identity == "" {
		return n
	}
	return n + "@" + id.Identity
}

func containsMatch(ids []ItemID, id ItemID) bool {
	for _, x := range ids {
		if x.Matches(id) {
			return true
		}
	}
	return false
}

func typesOf(ids []ItemID) []reflect.Type {
	t := make([]reflect.Type, len(ids))
	for i, id := range ids {
		t[i] = id.Type
	}
	return t
}
