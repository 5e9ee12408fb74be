package nreport

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/muir/ntrack"
)

// TreeConfig hides parts of the configuration tree
type TreeConfig struct {
	HideDisabled    bool
	HideDuplicates  bool
	HideDisables    bool
	HideEmptyScopes bool
}

var (
	scopeStyle    = lipgloss.NewStyle().Bold(true)
	disabledStyle = lipgloss.NewStyle().Faint(true)
)

// Tree renders the configuration as a tree of scopes.  Each scope lists
// the items it registered, the registrations of it that were ignored
// and the items it disabled.  Bundles are scopes and nest.
func Tree(ci *ntrack.ConfigurationInfo, cfg TreeConfig) string {
	root := scopeNode(ci, cfg, ntrack.ApplicationScope, "APPLICATION", map[ntrack.ItemID]bool{})
	for _, special := range []struct {
		id    ntrack.ItemID
		title string
	}{
		{ntrack.BundleLookupScope, "BUNDLES LOOKUP"},
		{ntrack.ClasspathScanScope, "CLASSPATH SCAN"},
		{ntrack.HookScope, "HOOKS"},
	} {
		n := scopeNode(ci, cfg, special.id, special.title, map[ntrack.ItemID]bool{})
		if cfg.HideEmptyScopes && n.Children().Length() == 0 {
			continue
		}
		root.Child(n)
	}
	return root.String()
}

func scopeNode(ci *ntrack.ConfigurationInfo, cfg TreeConfig, scope ntrack.ItemID, title string, seen map[ntrack.ItemID]bool) *tree.Tree {
	t := tree.Root(scopeStyle.Render(title)).Enumerator(tree.RoundedEnumerator)
	seen[scope] = true
	all := ci.AllItemsWhere(ntrack.RegisteredByScope(scope))
	for _, id := range all {
		info, _ := ci.Info(id)
		if info == nil {
			continue
		}
		if info.RegistrationScope() == scope {
			if !info.IsEnabled() && cfg.HideDisabled {
				continue
			}
			line := itemLine(info)
			if isScope(info) && !seen[id] {
				child := scopeNode(ci, cfg, id, line, seen)
				if cfg.HideEmptyScopes && child.Children().Length() == 0 {
					t.Child(line)
				} else {
					t.Child(child)
				}
				continue
			}
			t.Child(line)
			continue
		}
		if !cfg.HideDuplicates && info.IgnoresByScope(scope) > 0 {
			t.Child(disabledStyle.Render(fmt.Sprintf("%-16s %s IGNORED", info.Kind(), info.ID())))
		}
	}
	if !cfg.HideDisables {
		for _, id := range ci.AllItemsWhere(ntrack.DisabledByScope(scope)) {
			t.Child(disabledStyle.Render("-disable " + id.String()))
		}
	}
	if !cfg.HideDuplicates {
		for _, id := range all {
			info, _ := ci.Info(id)
			if info == nil {
				continue
			}
			for _, dup := range info.Duplicates() {
				if info.RegistrationScope() == scope {
					t.Child(disabledStyle.Render(fmt.Sprintf("%-16s %s DUPLICATE of %s", info.Kind(), dup, id)))
				}
			}
		}
	}
	return t
}

func isScope(info *ntrack.ItemInfo) bool {
	switch info.Kind() {
	case ntrack.KindBundle, ntrack.KindExternalBundle:
		return true
	}
	return false
}

func itemLine(info *ntrack.ItemInfo) string {
	var markers []string
	if !info.IsEnabled() {
		markers = append(markers, "DISABLED")
	}
	if info.IsOptional() {
		markers = append(markers, "OPTIONAL")
	}
	if info.IsBinding() {
		markers = append(markers, "EXT")
	}
	if info.IsOverriding() {
		markers = append(markers, "OVERRIDE")
	}
	if info.IsLazy() {
		markers = append(markers, "LAZY")
	}
	line := fmt.Sprintf("%-16s %s", info.Kind(), info.ID())
	if installer := info.InstalledBy(); installer != nil {
		line += " (" + ntrack.TypeID(installer).String() + ")"
	}
	if len(markers) > 0 {
		line += " " + strings.Join(markers, " ")
	}
	if !info.IsEnabled() {
		return disabledStyle.Render(line)
	}
	return line
}
