package systray

import (
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

const propertiesInterface = "org.freedesktop.DBus.Properties"

// properties implements org.freedesktop.DBus.Properties for read-only
// properties whose values are resolved on every call.
//
// Unlike prop.Export, values are never stored: tray hosts always receive the
// current state of the item.
type properties map[string]map[string]func() any

// Get returns value of a single property.
func (p properties) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	props, ok := p[iface]
	if !ok {
		return dbus.Variant{}, prop.ErrIfaceNotFound
	}

	value, ok := props[name]
	if !ok {
		return dbus.Variant{}, prop.ErrPropNotFound
	}

	return dbus.MakeVariant(value()), nil
}

// GetAll returns values of all properties of the interface.
func (p properties) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	props, ok := p[iface]
	if !ok {
		return nil, prop.ErrIfaceNotFound
	}

	values := make(map[string]dbus.Variant, len(props))

	for name, value := range props {
		values[name] = dbus.MakeVariant(value())
	}

	return values, nil
}

// Set always fails, all properties are read-only.
func (p properties) Set(iface, name string, _ dbus.Variant) *dbus.Error {
	props, ok := p[iface]
	if !ok {
		return prop.ErrIfaceNotFound
	}

	if _, ok := props[name]; !ok {
		return prop.ErrPropNotFound
	}

	return prop.ErrReadOnly
}
