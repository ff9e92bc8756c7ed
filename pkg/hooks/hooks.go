// Package hooks holds the fixed set of tree post-processors a deployment can
// enable by name. Handlers are compiled in; configuration only selects them.
package hooks

import (
	"fmt"
	"sort"
	"strings"

	"shop-admin/pkg/model"
)

// Hook rewrites a freshly built navigation tree and returns the new roots.
type Hook func(roots []*model.NavigationNode) []*model.NavigationNode

var registry = map[string]Hook{
	"strip-badges":      StripBadges,
	"drop-empty-groups": DropEmptyGroups,
}

// Lookup returns the hook registered under name.
func Lookup(name string) (Hook, bool) {
	h, ok := registry[name]
	return h, ok
}

// Names lists the registered hook names in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Chain applies hooks in order.
type Chain []Hook

// Resolve builds a chain from names, failing on the first unknown one.
func Resolve(names []string) (Chain, error) {
	chain := make(Chain, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		h, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown navigation hook %q (known: %s)", name, strings.Join(Names(), ", "))
		}
		chain = append(chain, h)
	}
	return chain, nil
}

func (c Chain) Apply(roots []*model.NavigationNode) []*model.NavigationNode {
	for _, h := range c {
		roots = h(roots)
	}
	return roots
}

// StripBadges removes every badge from the tree.
func StripBadges(roots []*model.NavigationNode) []*model.NavigationNode {
	for _, r := range roots {
		r.Walk(func(n *model.NavigationNode) { n.Badge = nil })
	}
	return roots
}

// DropEmptyGroups removes nodes that have no route and, after pruning, no
// children. Such nodes would render as headers with nothing under them.
func DropEmptyGroups(roots []*model.NavigationNode) []*model.NavigationNode {
	kept := make([]*model.NavigationNode, 0, len(roots))
	for _, n := range roots {
		n.Children = DropEmptyGroups(n.Children)
		if n.Route == "" && len(n.Children) == 0 {
			continue
		}
		kept = append(kept, n)
	}
	return kept
}
