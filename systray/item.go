package systray

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

const (
	StatusNotifierItemInterface = "org.kde.StatusNotifierItem"
	StatusNotifierItemPath      = "/StatusNotifierItem"
)

type ItemCategory string

// StatusNotifierItem categories.
const (
	// The item describes the status of a generic application, for instance the
	// current state of a media player.
	ItemCategoryApplicationStatus ItemCategory = "ApplicationStatus"

	// The item describes the status of communication oriented applications, like
	// an instant messenger or an email client.
	ItemCategoryCommunications ItemCategory = "Communications"

	// The item describes services of the system not seen as a stand alone
	// application by the user, such as an indicator for the activity of a disk
	// indexing service.
	ItemCategorySystemServices ItemCategory = "SystemServices"

	// The item describes the state and control of a particular hardware, such as
	// an indicator of the battery charge or sound card volume control.
	ItemCategoryHardware ItemCategory = "Hardware"
)

type ItemStatus string

// StatusNotifierItem statuses.
const (
	// The item doesn't convey important information to the user, it can be
	// considered an "idle" status and is likely that visualizations will choose
	// to hide it.
	ItemStatusPassive ItemStatus = "Passive"

	// The item is active, is more important that the item will be shown in some
	// way to the user.
	ItemStatusActive ItemStatus = "Active"

	// The item carries really important information for the user, such as battery
	// charge running out and is wants to incentive the direct user intervention.
	// Visualizations should emphasize in some way the items with NeedsAttention
	// status.
	ItemStatusNeedsAttention ItemStatus = "NeedsAttention"
)

// ErrNoWatcher is returned by [Item.Listen] when no StatusNotifierWatcher is
// present on the session bus. The item stays exported and registers itself
// as soon as a watcher appears.
var ErrNoWatcher = errors.New("no status notifier watcher")

// Provider supplies properties of [Item]. Methods are called from D-Bus
// goroutines whenever a tray host asks for the item state, so they must be
// safe for concurrent use.
type Provider interface {
	// Unique identifier for the application, such as the application name.
	ID() string

	// Name that describes the application, can be more descriptive than ID.
	Title() string

	// Category of the item.
	Category() ItemCategory

	// Status of the item or of the associated application.
	Status() ItemStatus

	// Icon that is used to visualize the item.
	Icon() *Icon

	// Extra information that can be visualized by a tooltip.
	Tooltip() string

	// Entries of the item menu.
	Menu() []*MenuItem
}

// Item implements [StatusNotifierItem] on the application side. It exports
// the item on the session bus, registers it in the StatusNotifierWatcher,
// and resolves every property through [Provider].
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/StatusNotifierItem/
type Item struct {
	name     string
	closed   bool
	conn     *dbus.Conn
	provider Provider
	menu     *Menu
	signals  chan *dbus.Signal
	mu       sync.Mutex
}

// NewItem returns a new [Item].
//
// Parameter id is used as a unique identifier for item name, together with
// PID of the process.
func NewItem(conn *dbus.Conn, id any, provider Provider) *Item {
	return &Item{
		name:     fmt.Sprintf("org.kde.StatusNotifierItem-%d-%v", os.Getpid(), id),
		closed:   false,
		conn:     conn,
		provider: provider,
		menu:     NewMenu(conn, provider.Menu),
		signals:  make(chan *dbus.Signal, 16),
	}
}

// Name returns name of the item service.
func (item *Item) Name() string {
	return item.name
}

// Menu returns menu of the item.
func (item *Item) Menu() *Menu {
	return item.menu
}

// Listen requests name of the item on D-Bus, exports the item and its menu,
// and registers the item in the StatusNotifierWatcher.
//
// If no watcher is running, an error wrapping [ErrNoWatcher] is returned,
// but the item remains exported and is registered once a watcher appears.
//
// If Listen is called after [Item.Close], an error is returned.
func (item *Item) Listen() error {
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.closed {
		return fmt.Errorf("listen: item is closed")
	}

	reply, err := item.conn.RequestName(item.name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("listen: failed to request name %s: %w", item.name, err)
	}

	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("listen: name %s already taken", item.name)
	}

	if err := item.export(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if err := item.menu.export(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if err := item.subscribe(); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	if err := item.register(); err != nil {
		return fmt.Errorf("listen: %w: %w", ErrNoWatcher, err)
	}

	return nil
}

// Refresh notifies tray hosts that the state of the item has changed. Hosts
// then request new property values from the item.
func (item *Item) Refresh() error {
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.closed {
		return fmt.Errorf("refresh: item is closed")
	}

	for _, member := range []string{"NewTitle", "NewIcon", "NewToolTip"} {
		if err := item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+"."+member); err != nil {
			return fmt.Errorf("refresh: failed to emit %s: %w", member, err)
		}
	}

	status := string(item.provider.Status())
	if err := item.conn.Emit(StatusNotifierItemPath, StatusNotifierItemInterface+".NewStatus", status); err != nil {
		return fmt.Errorf("refresh: failed to emit NewStatus: %w", err)
	}

	if err := item.menu.refresh(); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	return nil
}

// Close unexports the item, releases its name from D-Bus, and unsubscribes
// from signals.
//
// Item cannot be reused after Close was called.
func (item *Item) Close() error {
	item.mu.Lock()
	defer item.mu.Unlock()

	if item.closed {
		return nil
	}

	item.unsubscribe()
	item.menu.unexport()
	item.conn.Export(nil, StatusNotifierItemPath, StatusNotifierItemInterface)
	item.conn.Export(nil, StatusNotifierItemPath, propertiesInterface)
	item.conn.Export(nil, StatusNotifierItemPath, introspect.IntrospectData.Name)

	item.closed = true

	if _, err := item.conn.ReleaseName(item.name); err != nil {
		return err
	}

	return nil
}

// properties returns org.kde.StatusNotifierItem properties of the item.
func (item *Item) properties() properties {
	p := item.provider

	return properties{
		StatusNotifierItemInterface: {
			"Category":            func() any { return string(p.Category()) },
			"Id":                  func() any { return p.ID() },
			"Title":               func() any { return p.Title() },
			"Status":              func() any { return string(p.Status()) },
			"WindowId":            func() any { return int32(0) },
			"IconThemePath":       func() any { return "" },
			"IconName":            func() any { return "" },
			"IconPixmap":          func() any { return NewIconSet(p.Icon()) },
			"OverlayIconName":     func() any { return "" },
			"OverlayIconPixmap":   func() any { return IconSet{} },
			"AttentionIconName":   func() any { return "" },
			"AttentionIconPixmap": func() any { return IconSet{} },
			"AttentionMovieName":  func() any { return "" },
			"ItemIsMenu":          func() any { return true },
			"Menu":                func() any { return dbus.ObjectPath(MenuPath) },
			"ToolTip": func() any {
				return ToolTip{
					IconPixmap:  IconSet{},
					Title:       p.Title(),
					Description: p.Tooltip(),
				}
			},
		},
	}
}

// export exports item methods, properties, and introspection data on the
// session bus.
func (item *Item) export() error {
	obj := &itemObject{}

	if err := item.conn.Export(obj, StatusNotifierItemPath, StatusNotifierItemInterface); err != nil {
		return fmt.Errorf("failed to export %s: %w", StatusNotifierItemInterface, err)
	}

	if err := item.conn.Export(item.properties(), StatusNotifierItemPath, propertiesInterface); err != nil {
		return fmt.Errorf("failed to export item properties: %w", err)
	}

	node := &introspect.Node{
		Name: StatusNotifierItemPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       StatusNotifierItemInterface,
				Methods:    introspect.Methods(obj),
				Properties: itemIntrospectProperties,
				Signals: []introspect.Signal{
					{Name: "NewTitle"},
					{Name: "NewIcon"},
					{Name: "NewAttentionIcon"},
					{Name: "NewOverlayIcon"},
					{Name: "NewToolTip"},
					{Name: "NewStatus", Args: []introspect.Arg{{Name: "status", Type: "s"}}},
				},
			},
		},
	}

	if err := item.conn.Export(introspect.NewIntrospectable(node), StatusNotifierItemPath, introspect.IntrospectData.Name); err != nil {
		return fmt.Errorf("failed to export item introspection: %w", err)
	}

	return nil
}

var itemIntrospectProperties = []introspect.Property{
	{Name: "Category", Type: "s", Access: "read"},
	{Name: "Id", Type: "s", Access: "read"},
	{Name: "Title", Type: "s", Access: "read"},
	{Name: "Status", Type: "s", Access: "read"},
	{Name: "WindowId", Type: "i", Access: "read"},
	{Name: "IconThemePath", Type: "s", Access: "read"},
	{Name: "IconName", Type: "s", Access: "read"},
	{Name: "IconPixmap", Type: "a(iiay)", Access: "read"},
	{Name: "OverlayIconName", Type: "s", Access: "read"},
	{Name: "OverlayIconPixmap", Type: "a(iiay)", Access: "read"},
	{Name: "AttentionIconName", Type: "s", Access: "read"},
	{Name: "AttentionIconPixmap", Type: "a(iiay)", Access: "read"},
	{Name: "AttentionMovieName", Type: "s", Access: "read"},
	{Name: "ToolTip", Type: "(sa(iiay)ss)", Access: "read"},
	{Name: "ItemIsMenu", Type: "b", Access: "read"},
	{Name: "Menu", Type: "o", Access: "read"},
}

// itemObject holds D-Bus methods of org.kde.StatusNotifierItem.
//
// The item is a menu (ItemIsMenu is true), so hosts show the menu instead of
// activating the item and the methods do nothing.
type itemObject struct{}

// ContextMenu asks the item to show a context menu at x, y.
func (itemObject) ContextMenu(x, y int32) *dbus.Error { return nil }

// Activate asks the item for activation, e.g. on left click.
func (itemObject) Activate(x, y int32) *dbus.Error { return nil }

// SecondaryActivate asks the item for secondary activation, e.g. on middle
// click.
func (itemObject) SecondaryActivate(x, y int32) *dbus.Error { return nil }

// Scroll delivers a scroll event over the item.
func (itemObject) Scroll(delta int32, orientation string) *dbus.Error { return nil }
