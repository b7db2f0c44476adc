package systray

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	MenuInterface = "com.canonical.dbusmenu"
	MenuPath      = "/MenuBar"
)

// Version of the com.canonical.dbusmenu interface implemented by [Menu].
const menuVersion uint32 = 3

// MenuItem is an entry of the item menu.
type MenuItem struct {
	// Text of the entry.
	Label string

	// Whether the entry can be activated. Disabled entries are shown as
	// read-only text.
	Disabled bool

	// Whether the entry is hidden from the menu.
	Hidden bool

	// Whether the entry is a separator. Label is ignored for separators.
	Separator bool

	// Callback that runs when the entry is clicked.
	OnClick func()
}

func (mi *MenuItem) properties() map[string]any {
	if mi.Separator {
		return map[string]any{
			"type":    "separator",
			"visible": !mi.Hidden,
		}
	}

	return map[string]any{
		"label":   mi.Label,
		"enabled": !mi.Disabled,
		"visible": !mi.Hidden,
	}
}

// menuEvent is a single event of com.canonical.dbusmenu.EventGroup, (isvu).
type menuEvent struct {
	ID        int32
	EventID   string
	Data      dbus.Variant
	Timestamp uint32
}

// nodeProperties is an element of the GetGroupProperties reply, (ia{sv}).
type nodeProperties struct {
	ID         int32
	Properties map[string]dbus.Variant
}

// Menu implements com.canonical.dbusmenu for [Item]. Entries are requested
// from the callback on every layout request, so the menu always reflects the
// current state of the application.
//
// Exported methods of Menu are D-Bus methods.
type Menu struct {
	conn     *dbus.Conn
	items    func() []*MenuItem
	mu       sync.Mutex
	revision uint32
}

// NewMenu returns a new [Menu] whose entries are provided by items.
func NewMenu(conn *dbus.Conn, items func() []*MenuItem) *Menu {
	return &Menu{
		conn:     conn,
		items:    items,
		revision: 1,
	}
}

// GetLayout provides the layout and properties that are attached to the
// entries that are in the layout.
//
// parentID is the ID of the parent node for the returned layout.
// recursionDepth is the number of recursion levels, -1 delivers all items.
// propertyNames filters properties of nodes, empty slice selects all.
func (m *Menu) GetLayout(parentID int32, recursionDepth int32, propertyNames []string) (uint32, layout, *dbus.Error) {
	m.mu.Lock()
	revision := m.revision
	m.mu.Unlock()

	root := NewLayout(m.items())

	node := root.Find(parentID)
	if node == nil {
		return revision, layout{}, dbus.MakeFailedError(fmt.Errorf("layout: unknown node %d", parentID))
	}

	return revision, node.toDBus(recursionDepth, propertyNames), nil
}

// GetGroupProperties returns properties of multiple nodes. Empty ids selects
// all nodes.
func (m *Menu) GetGroupProperties(ids []int32, propertyNames []string) ([]nodeProperties, *dbus.Error) {
	root := NewLayout(m.items())

	if len(ids) == 0 {
		for _, child := range root.Children {
			ids = append(ids, child.ID)
		}
	}

	result := make([]nodeProperties, 0, len(ids))

	for _, id := range ids {
		node := root.Find(id)
		if node == nil {
			continue
		}

		result = append(result, nodeProperties{
			ID:         id,
			Properties: node.filterProperties(propertyNames),
		})
	}

	return result, nil
}

// GetProperty returns a single property of the node.
func (m *Menu) GetProperty(id int32, name string) (dbus.Variant, *dbus.Error) {
	node := NewLayout(m.items()).Find(id)
	if node == nil {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("property: unknown node %d", id))
	}

	value, ok := node.Properties[name]
	if !ok {
		return dbus.Variant{}, dbus.MakeFailedError(fmt.Errorf("property: node %d has no property %s", id, name))
	}

	return dbus.MakeVariant(value), nil
}

// Event is called by the host when something happens to the node, e.g. it
// was clicked.
func (m *Menu) Event(id int32, eventID string, data dbus.Variant, timestamp uint32) *dbus.Error {
	if eventID != "clicked" {
		return nil
	}

	items := m.items()

	if id < 1 || int(id) > len(items) {
		return dbus.MakeFailedError(fmt.Errorf("event: unknown node %d", id))
	}

	item := items[id-1]
	if item.Disabled || item.OnClick == nil {
		return nil
	}

	item.OnClick()

	return nil
}

// EventGroup delivers multiple events. It returns IDs of nodes that were not
// found.
func (m *Menu) EventGroup(events []menuEvent) ([]int32, *dbus.Error) {
	idErrors := []int32{}

	for _, e := range events {
		if err := m.Event(e.ID, e.EventID, e.Data, e.Timestamp); err != nil {
			idErrors = append(idErrors, e.ID)
		}
	}

	if len(events) > 0 && len(idErrors) == len(events) {
		return idErrors, dbus.MakeFailedError(fmt.Errorf("event group: no events delivered"))
	}

	return idErrors, nil
}

// AboutToShow is called by the host before the node is shown. Menu layout
// is computed on request, so it never needs an update.
func (m *Menu) AboutToShow(id int32) (bool, *dbus.Error) {
	return false, nil
}

// AboutToShowGroup is the batched variant of [Menu.AboutToShow].
func (m *Menu) AboutToShowGroup(ids []int32) ([]int32, []int32, *dbus.Error) {
	return []int32{}, []int32{}, nil
}

// refresh increments layout revision and notifies hosts that the layout
// changed.
func (m *Menu) refresh() error {
	m.mu.Lock()
	m.revision++
	revision := m.revision
	m.mu.Unlock()

	return m.conn.Emit(MenuPath, MenuInterface+".LayoutUpdated", revision, int32(0))
}

func (m *Menu) properties() properties {
	return properties{
		MenuInterface: {
			"Version":       func() any { return menuVersion },
			"TextDirection": func() any { return "ltr" },
			"Status":        func() any { return "normal" },
			"IconThemePath": func() any { return []string{} },
		},
	}
}

// export exports menu object, its properties, and introspection data on the
// session bus.
func (m *Menu) export() error {
	if err := m.conn.Export(m, MenuPath, MenuInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", MenuInterface, err)
	}

	if err := m.conn.Export(m.properties(), MenuPath, propertiesInterface); err != nil {
		return fmt.Errorf("failed to export menu properties: %w", err)
	}

	node := &introspect.Node{
		Name: MenuPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:    MenuInterface,
				Methods: introspect.Methods(m),
				Properties: []introspect.Property{
					{Name: "Version", Type: "u", Access: "read"},
					{Name: "TextDirection", Type: "s", Access: "read"},
					{Name: "Status", Type: "s", Access: "read"},
					{Name: "IconThemePath", Type: "as", Access: "read"},
				},
				Signals: []introspect.Signal{
					{
						Name: "LayoutUpdated",
						Args: []introspect.Arg{
							{Name: "revision", Type: "u"},
							{Name: "parent", Type: "i"},
						},
					},
				},
			},
		},
	}

	if err := m.conn.Export(introspect.NewIntrospectable(node), MenuPath, introspect.IntrospectData.Name); err != nil {
		return fmt.Errorf("failed to export menu introspection: %w", err)
	}

	return nil
}

// unexport removes menu objects from the session bus.
func (m *Menu) unexport() {
	m.conn.Export(nil, MenuPath, MenuInterface)
	m.conn.Export(nil, MenuPath, propertiesInterface)
	m.conn.Export(nil, MenuPath, introspect.IntrospectData.Name)
}
