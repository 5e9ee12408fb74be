package ntrack

import (
	"reflect"

	"github.com/pkg/errors"
)

// ConfigurationInfo is a read-only view of a finished Context for
// diagnostics and reports.  Items are listed in registration order.
//
// Instance kinds can have several records for one type.  Info with a
// class id only works for types that have no registered instances; use
// Infos to get all the records of a type.
type ConfigurationInfo struct {
	order     []ItemID
	byKind    map[ItemKind][]ItemID
	infos     map[ItemID]*ItemInfo
	instances map[reflect.Type][]ItemID
	hooks     []reflect.Type
}

// NewConfigurationInfo captures the current state of c.  It is meant to
// be called after FinalizeConfiguration.
func NewConfigurationInfo(c *Context) *ConfigurationInfo {
	ci := &ConfigurationInfo{
		order:     copyIDs(c.order),
		byKind:    make(map[ItemKind][]ItemID),
		infos:     make(map[ItemID]*ItemInfo, len(c.infos)),
		instances: make(map[reflect.Type][]ItemID),
		hooks:     c.ExecutedHookTypes(),
	}
	for _, id := range c.order {
		info := c.infos[id]
		ci.infos[id] = info
		ci.byKind[info.kind] = append(ci.byKind[info.kind], id)
		if info.kind.InstanceConfig() && !id.IsClass() {
			ci.instances[id.Type] = append(ci.instances[id.Type], id)
		}
	}
	return ci
}

// Items lists the ids of all items of kind
func (ci *ConfigurationInfo) Items(kind ItemKind) []ItemID {
	return copyIDs(ci.byKind[kind])
}

// ItemsWhere lists the ids of the items of kind that match m
func (ci *ConfigurationInfo) ItemsWhere(kind ItemKind, m Matcher) []ItemID {
	return ci.filter(ci.byKind[kind], m)
}

// AllItemsWhere lists the ids of items of any kind that match m
func (ci *ConfigurationInfo) AllItemsWhere(m Matcher) []ItemID {
	return ci.filter(ci.order, m)
}

func (ci *ConfigurationInfo) filter(ids []ItemID, m Matcher) []ItemID {
	var r []ItemID
	for _, id := range ids {
		if m.Matches(ci.infos[id]) {
			r = append(r, id)
		}
	}
	return r
}

// ItemsOfType lists the ids of the registered instances of t
func (ci *ConfigurationInfo) ItemsOfType(t reflect.Type) []ItemID {
	return copyIDs(ci.instances[t])
}

// Info returns the record for id or nil if there is none.  A class id
// for a type that has registered instances is an error.
func (ci *ConfigurationInfo) Info(id ItemID) (*ItemInfo, error) {
	if id.IsClass() && len(ci.instances[id.Type]) > 0 {
		return nil, errors.Wrapf(ErrAmbiguousInfo, "%d instances of %s", len(ci.instances[id.Type]), id)
	}
	return ci.infos[id], nil
}

// Infos returns the records of all instances of t or, for class kinds,
// the single record of t.
func (ci *ConfigurationInfo) Infos(t reflect.Type) []*ItemInfo {
	ids := ci.instances[t]
	if len(ids) == 0 {
		if info, ok := ci.infos[TypeID(t)]; ok {
			return []*ItemInfo{info}
		}
		return nil
	}
	r := make([]*ItemInfo, len(ids))
	for i, id := range ids {
		r[i] = ci.infos[id]
	}
	return r
}

// InfosWhere returns the records of items of kind that match m
func (ci *ConfigurationInfo) InfosWhere(kind ItemKind, m Matcher) []*ItemInfo {
	ids := ci.ItemsWhere(kind, m)
	r := make([]*ItemInfo, len(ids))
	for i, id := range ids {
		r[i] = ci.infos[id]
	}
	return r
}

// Hooks lists the types of the configuration hooks that ran
func (ci *ConfigurationInfo) Hooks() []reflect.Type {
	t := make([]reflect.Type, len(ci.hooks))
	copy(t, ci.hooks)
	return t
}
