package daemon

import (
	"fmt"
	"strconv"

	"github.com/shelepuginivan/headset-tray/internal/battery"
	"github.com/shelepuginivan/headset-tray/internal/icon"
	"github.com/shelepuginivan/headset-tray/systray"
)

const (
	// TrayID is the identifier of the tray item.
	TrayID = "headset-tray"

	// TrayTitle is the title of the tray item.
	TrayTitle = "Battery Status of your headset"

	// QuitLabel is the label of the menu entry that stops the daemon.
	QuitLabel = "quit"
)

// ItemStatus returns the tray status of the reading.
func ItemStatus(r battery.Reading) systray.ItemStatus {
	switch {
	case r.Status == battery.Unavailable:
		return systray.ItemStatusPassive
	case r.Level <= icon.LowLevel:
		return systray.ItemStatusNeedsAttention
	default:
		return systray.ItemStatusActive
	}
}

// Tray exposes the snapshot of [Loop] as a tray item.
type Tray struct {
	loop *Loop
	quit func()
}

var _ systray.Provider = (*Tray)(nil)

// NewTray returns a new [Tray]. The quit function is called when the quit
// entry of the menu is clicked.
func NewTray(loop *Loop, quit func()) *Tray {
	return &Tray{loop: loop, quit: quit}
}

func (t *Tray) ID() string {
	return TrayID
}

func (t *Tray) Title() string {
	return TrayTitle
}

func (t *Tray) Category() systray.ItemCategory {
	return systray.ItemCategoryHardware
}

func (t *Tray) Status() systray.ItemStatus {
	snapshot := t.loop.Snapshot()
	if snapshot == nil {
		return systray.ItemStatusPassive
	}

	return ItemStatus(snapshot.Reading)
}

func (t *Tray) Icon() *systray.Icon {
	snapshot := t.loop.Snapshot()
	if snapshot == nil {
		return nil
	}

	return snapshot.Icon
}

func (t *Tray) Tooltip() string {
	snapshot := t.loop.Snapshot()
	if snapshot == nil {
		return "Headset unavailable"
	}

	r := snapshot.Reading

	switch r.Status {
	case battery.Unavailable:
		return "Headset unavailable"
	case battery.Charging:
		return fmt.Sprintf("%d%%, charging", r.Level)
	default:
		return fmt.Sprintf("%d%%", r.Level)
	}
}

// Menu returns the quit entry followed by a read-only entry with the
// battery level.
func (t *Tray) Menu() []*systray.MenuItem {
	level := 0
	if snapshot := t.loop.Snapshot(); snapshot != nil {
		level = snapshot.Reading.Level
	}

	return []*systray.MenuItem{
		{
			Label:   QuitLabel,
			OnClick: t.quit,
		},
		{
			Label:    strconv.Itoa(level),
			Disabled: true,
		},
	}
}
