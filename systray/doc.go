// Package systray is a toolkit-agnostic implementation of the application
// side of the [StatusNotifierItem] specification. It exports a tray item on
// the D-Bus session bus, registers it in the StatusNotifierWatcher, and
// answers tray hosts on demand.
//
// # Usage
//
// Application state is provided by [Provider]. Properties are never cached
// by the package: every request of a tray host is resolved through the
// provider, and [Item.Refresh] notifies hosts that the state has changed.
//
//	item := systray.NewItem(conn, 1, provider)
//	if err := item.Listen(); err != nil && !errors.Is(err, systray.ErrNoWatcher) {
//		return err
//	}
//	defer item.Close()
//
// In addition to the base specification, package systray implements
// com.canonical.dbusmenu, providing support for tray item menus (see [Menu]).
//
// [StatusNotifierItem]: https://www.freedesktop.org/wiki/Specifications/StatusNotifierItem/
package systray
