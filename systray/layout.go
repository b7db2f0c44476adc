package systray

import (
	"slices"

	"github.com/godbus/dbus/v5"
)

// LayoutNode is a node of the com.canonical.dbusmenu layout tree.
type LayoutNode struct {
	ID         int32
	Properties map[string]any
	Children   []*LayoutNode
}

// layout is the wire representation of [LayoutNode], (ia{sv}av).
type layout struct {
	ID         int32
	Properties map[string]dbus.Variant
	Children   []dbus.Variant
}

// NewLayout returns layout tree for menu items. The root node has ID 0,
// items are numbered from 1 in order.
func NewLayout(items []*MenuItem) *LayoutNode {
	root := &LayoutNode{
		ID: 0,
		Properties: map[string]any{
			"children-display": "submenu",
		},
		Children: make([]*LayoutNode, 0, len(items)),
	}

	for idx, item := range items {
		root.Children = append(root.Children, &LayoutNode{
			ID:         int32(idx + 1),
			Properties: item.properties(),
		})
	}

	return root
}

// Find returns node with the given ID, or nil if there is no such node.
func (n *LayoutNode) Find(id int32) *LayoutNode {
	if n.ID == id {
		return n
	}

	for _, child := range n.Children {
		if node := child.Find(id); node != nil {
			return node
		}
	}

	return nil
}

// filterProperties returns properties listed in names. Empty names selects
// all properties.
func (n *LayoutNode) filterProperties(names []string) map[string]dbus.Variant {
	props := make(map[string]dbus.Variant, len(n.Properties))

	for key, value := range n.Properties {
		if len(names) > 0 && !slices.Contains(names, key) {
			continue
		}

		props[key] = dbus.MakeVariant(value)
	}

	return props
}

// toDBus converts node to its wire representation.
//
// depth is the number of recursion levels: -1 delivers all nodes, 0 delivers
// the node without children.
func (n *LayoutNode) toDBus(depth int32, propertyNames []string) layout {
	l := layout{
		ID:         n.ID,
		Properties: n.filterProperties(propertyNames),
		Children:   []dbus.Variant{},
	}

	if depth == 0 {
		return l
	}

	for _, child := range n.Children {
		l.Children = append(l.Children, dbus.MakeVariant(child.toDBus(depth-1, propertyNames)))
	}

	return l
}
