package systray

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	StatusNotifierWatcherInterface = "org.kde.StatusNotifierWatcher"
	StatusNotifierWatcherPath      = "/StatusNotifierWatcher"
)

// register registers the item in the StatusNotifierWatcher.
func (item *Item) register() error {
	call := item.conn.Object(
		StatusNotifierWatcherInterface,
		StatusNotifierWatcherPath,
	).Call(StatusNotifierWatcherInterface+".RegisterStatusNotifierItem", 0, item.name)
	if call.Err != nil {
		return fmt.Errorf("failed to register item: %w", call.Err)
	}

	return nil
}

// subscribe watches for owner changes of the watcher name.
//
// Whenever the watcher is restarted (e.g. the panel of the desktop
// environment crashed), D-Bus sends NameOwnerChanged signal with non-empty
// NewOwner argument. In this case, item must register itself again.
func (item *Item) subscribe() error {
	if err := item.conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, StatusNotifierWatcherInterface),
	); err != nil {
		return fmt.Errorf("failed to subscribe to watcher changes: %w", err)
	}

	item.conn.Signal(item.signals)

	go func() {
		for signal := range item.signals {
			if signal.Name != "org.freedesktop.DBus.NameOwnerChanged" {
				continue
			}

			if watcherAppeared(signal) {
				item.mu.Lock()
				if !item.closed {
					item.register()
				}
				item.mu.Unlock()
			}
		}
	}()

	return nil
}

// unsubscribe removes signal handlers associated with the item.
func (item *Item) unsubscribe() {
	item.conn.RemoveMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, StatusNotifierWatcherInterface),
	)

	item.conn.RemoveSignal(item.signals)
	close(item.signals)
}

// watcherAppeared reports whether NameOwnerChanged signal announces a new
// owner of the watcher name.
//
// Format of the signal body is
//
//	[<name>, <oldOwner>, <newOwner>]
func watcherAppeared(signal *dbus.Signal) bool {
	if len(signal.Body) < 3 {
		return false
	}

	name, ok := signal.Body[0].(string)
	if !ok || name != StatusNotifierWatcherInterface {
		return false
	}

	newOwner, ok := signal.Body[2].(string)
	if !ok {
		return false
	}

	return newOwner != ""
}
