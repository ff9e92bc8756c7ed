package navigation

import (
	"sort"

	"shop-admin/pkg/model"
)

// entry is a candidate after normalization and override application.
type entry struct {
	key       string
	label     string
	icon      string
	route     string
	parentKey string
	order     float64
	isEnabled bool
	badge     *model.Badge
}

// BuildTree merges candidate items with tenant overrides and returns the root
// nodes. Candidates are expected in concatenation order (registry, then each
// manifest source). Invisible candidates are dropped. On a key collision the
// later candidate's fields win while the node keeps the first position.
//
// Children are sorted by order (stable); the root sequence keeps input order.
func BuildTree(candidates []model.NavigationItem, overrides []model.NavigationOverride) []*model.NavigationNode {
	entries := normalize(candidates)
	entries = applyOverrides(entries, overrides)
	roots := link(entries)
	for _, r := range roots {
		sortChildren(r)
	}
	return roots
}

func normalize(candidates []model.NavigationItem) []entry {
	out := make([]entry, 0, len(candidates))
	index := make(map[string]int, len(candidates))
	for _, it := range candidates {
		if !it.IsVisible || it.Key == "" {
			continue
		}
		e := entry{
			key:       it.Key,
			label:     it.Label,
			icon:      it.Icon,
			route:     it.Route,
			parentKey: it.ParentKey,
			order:     it.OrderPosition,
			isEnabled: true,
		}
		if i, ok := index[it.Key]; ok {
			out[i] = e
			continue
		}
		index[it.Key] = len(out)
		out = append(out, e)
	}
	return out
}

func applyOverrides(entries []entry, overrides []model.NavigationOverride) []entry {
	byKey := make(map[string]model.NavigationOverride, len(overrides))
	for _, o := range overrides {
		byKey[o.NavItemKey] = o
	}
	kept := entries[:0]
	for _, e := range entries {
		if o, ok := byKey[e.key]; ok {
			if o.CustomLabel != nil {
				e.label = *o.CustomLabel
			}
			if o.CustomOrder != nil {
				e.order = *o.CustomOrder
			}
			if o.CustomIcon != nil {
				e.icon = *o.CustomIcon
			}
			if o.ParentKey != nil {
				e.parentKey = *o.ParentKey
			}
			e.isEnabled = o.Enabled()
			if o.BadgeText != nil {
				b := &model.Badge{Text: *o.BadgeText}
				if o.BadgeColor != nil {
					b.Color = *o.BadgeColor
				}
				e.badge = b
			}
		}
		if !e.isEnabled {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// link attaches every entry to its parent when the parent survived, else to
// the root sequence. An edge that would close a cycle is not added; that
// entry becomes a root instead.
func link(entries []entry) []*model.NavigationNode {
	nodes := make(map[string]*model.NavigationNode, len(entries))
	for _, e := range entries {
		nodes[e.key] = &model.NavigationNode{
			Key:       e.key,
			Label:     e.label,
			Icon:      e.icon,
			Route:     e.route,
			ParentKey: e.parentKey,
			Order:     e.order,
			Badge:     e.badge,
			Children:  []*model.NavigationNode{},
		}
	}
	attached := make(map[string]string, len(entries))
	roots := make([]*model.NavigationNode, 0, len(entries))
	for _, e := range entries {
		node := nodes[e.key]
		parent, ok := nodes[e.parentKey]
		if e.parentKey == "" || !ok || createsCycle(attached, e.key, e.parentKey) {
			roots = append(roots, node)
			continue
		}
		attached[e.key] = e.parentKey
		parent.Children = append(parent.Children, node)
	}
	return roots
}

func createsCycle(attached map[string]string, key, parentKey string) bool {
	for cur := parentKey; cur != ""; cur = attached[cur] {
		if cur == key {
			return true
		}
	}
	return false
}

func sortChildren(n *model.NavigationNode) {
	if len(n.Children) == 0 {
		return
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		return n.Children[i].Order < n.Children[j].Order
	})
	for _, c := range n.Children {
		sortChildren(c)
	}
}
