package nreport

import (
	"github.com/muir/ntrack"
	"gopkg.in/yaml.v3"
)

// Snapshot is a serializable copy of a ConfigurationInfo
type Snapshot struct {
	Items []ItemSnapshot `yaml:"items"`
	Hooks []string       `yaml:"hooks,omitempty"`
}

type ItemSnapshot struct {
	ID           string   `yaml:"id"`
	Kind         string   `yaml:"kind"`
	Scope        string   `yaml:"scope,omitempty"`
	RegisteredBy []string `yaml:"registeredBy,omitempty"`
	Attempts     int      `yaml:"attempts"`
	DisabledBy   []string `yaml:"disabledBy,omitempty"`
	Duplicates   []string `yaml:"duplicates,omitempty"`
	InstalledBy  string   `yaml:"installedBy,omitempty"`
	Optional     bool     `yaml:"optional,omitempty"`
	Overriding   bool     `yaml:"overriding,omitempty"`
	InitOrder    int      `yaml:"initOrder,omitempty"`
}

// TakeSnapshot copies every item record of ci, in registration order
func TakeSnapshot(ci *ntrack.ConfigurationInfo) Snapshot {
	var s Snapshot
	for _, info := range ci.InfosWhere(ntrack.KindInstaller, all) {
		s.Items = append(s.Items, snapshotOf(info))
	}
	for _, kind := range ntrack.AllKinds() {
		if kind == ntrack.KindInstaller {
			continue
		}
		for _, info := range ci.InfosWhere(kind, all) {
			s.Items = append(s.Items, snapshotOf(info))
		}
	}
	for _, h := range ci.Hooks() {
		s.Hooks = append(s.Hooks, ntrack.TypeID(h).String())
	}
	return s
}

// YAML renders TakeSnapshot(ci)
func YAML(ci *ntrack.ConfigurationInfo) ([]byte, error) {
	return yaml.Marshal(TakeSnapshot(ci))
}

var all = ntrack.MatcherFunc("all", func(*ntrack.ItemInfo) bool { return true })

func snapshotOf(info *ntrack.ItemInfo) ItemSnapshot {
	is := ItemSnapshot{
		ID:           info.ID().String(),
		Kind:         info.Kind().String(),
		RegisteredBy: strs(info.RegisteredBy()),
		Attempts:     info.RegistrationAttempts(),
		DisabledBy:   strs(info.DisabledBy()),
		Duplicates:   strs(info.Duplicates()),
		Optional:     info.IsOptional(),
		Overriding:   info.IsOverriding(),
		InitOrder:    info.InitOrder(),
	}
	if !info.RegistrationScope().IsZero() {
		is.Scope = info.RegistrationScope().String()
	}
	if info.InstalledBy() != nil {
		is.InstalledBy = ntrack.TypeID(info.InstalledBy()).String()
	}
	return is
}

func strs(ids []ntrack.ItemID) []string {
	if len(ids) == 0 {
		return nil
	}
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = id.String()
	}
	return s
}
