package model

// Badge is a decorative annotation rendered next to a navigation label.
type Badge struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// NavigationNode is one element of the tree returned to the admin UI.
type NavigationNode struct {
	Key       string            `json:"key"`
	Label     string            `json:"label"`
	Icon      string            `json:"icon,omitempty"`
	Route     string            `json:"route,omitempty"`
	ParentKey string            `json:"parentKey,omitempty"`
	Order     float64           `json:"order"`
	Badge     *Badge            `json:"badge"`
	Children  []*NavigationNode `json:"children"`
}

// Walk visits n and its descendants depth-first.
func (n *NavigationNode) Walk(fn func(*NavigationNode)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
