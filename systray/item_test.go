package systray

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/prop"
)

type fakeProvider struct {
	status  ItemStatus
	icon    *Icon
	clicked int
}

func (p *fakeProvider) ID() string             { return "fake" }
func (p *fakeProvider) Title() string          { return "Fake item" }
func (p *fakeProvider) Category() ItemCategory { return ItemCategoryHardware }
func (p *fakeProvider) Status() ItemStatus     { return p.status }
func (p *fakeProvider) Icon() *Icon            { return p.icon }
func (p *fakeProvider) Tooltip() string        { return "42%" }

func (p *fakeProvider) Menu() []*MenuItem {
	return []*MenuItem{
		{Label: "quit", OnClick: func() { p.clicked++ }},
		{Label: "42", Disabled: true, OnClick: func() { p.clicked += 100 }},
	}
}

func TestItemProperties(t *testing.T) {
	provider := &fakeProvider{
		status: ItemStatusNeedsAttention,
		icon:   &Icon{Width: 1, Height: 1, Bytes: []byte{255, 1, 2, 3}},
	}
	props := NewItem(nil, 1, provider).properties()

	tests := []struct {
		name     string
		expected any
	}{
		{name: "Id", expected: "fake"},
		{name: "Title", expected: "Fake item"},
		{name: "Category", expected: "Hardware"},
		{name: "Status", expected: "NeedsAttention"},
		{name: "ItemIsMenu", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := props.Get(StatusNotifierItemInterface, tt.name)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.name, err)
			}
			if value.Value() != tt.expected {
				t.Errorf("Get(%q) = %v, want %v", tt.name, value.Value(), tt.expected)
			}
		})
	}
}

func TestItemPropertiesFollowProvider(t *testing.T) {
	provider := &fakeProvider{status: ItemStatusPassive}
	props := NewItem(nil, 1, provider).properties()

	provider.status = ItemStatusActive
	provider.icon = &Icon{Width: 1, Height: 1, Bytes: []byte{255, 0, 0, 0}}

	status, _ := props.Get(StatusNotifierItemInterface, "Status")
	if status.Value() != "Active" {
		t.Errorf("Status = %v, want Active", status.Value())
	}

	pixmap, _ := props.Get(StatusNotifierItemInterface, "IconPixmap")
	icons, ok := pixmap.Value().(IconSet)
	if !ok || len(icons) != 1 {
		t.Fatalf("IconPixmap = %#v, want a single icon", pixmap.Value())
	}
	if icons[0].Width != 1 || icons[0].Bytes[0] != 255 {
		t.Errorf("IconPixmap[0] = %+v, want provider icon", icons[0])
	}
}

func TestItemPropertiesErrors(t *testing.T) {
	props := NewItem(nil, 1, &fakeProvider{}).properties()

	if _, err := props.Get("org.example.Unknown", "Id"); err != prop.ErrIfaceNotFound {
		t.Errorf("Get() unknown interface error = %v, want %v", err, prop.ErrIfaceNotFound)
	}

	if _, err := props.Get(StatusNotifierItemInterface, "Unknown"); err != prop.ErrPropNotFound {
		t.Errorf("Get() unknown property error = %v, want %v", err, prop.ErrPropNotFound)
	}

	if err := props.Set(StatusNotifierItemInterface, "Title", dbus.MakeVariant("x")); err != prop.ErrReadOnly {
		t.Errorf("Set() error = %v, want %v", err, prop.ErrReadOnly)
	}

	all, err := props.GetAll(StatusNotifierItemInterface)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != len(itemIntrospectProperties) {
		t.Errorf("GetAll() returned %d properties, want %d", len(all), len(itemIntrospectProperties))
	}
}

func TestNewIcon(t *testing.T) {
	if _, err := NewIcon(2, 2, make([]byte, 16)); err != nil {
		t.Errorf("NewIcon() error = %v", err)
	}

	if _, err := NewIcon(2, 2, make([]byte, 15)); err == nil {
		t.Error("NewIcon() with short pixmap error = nil, want error")
	}

	if _, err := NewIcon(0, 2, nil); err == nil {
		t.Error("NewIcon() with zero width error = nil, want error")
	}
}

func TestNewIconSetSkipsNil(t *testing.T) {
	set := NewIconSet(nil, &Icon{Width: 1, Height: 1, Bytes: make([]byte, 4)}, nil)
	if len(set) != 1 {
		t.Errorf("len(NewIconSet()) = %d, want 1", len(set))
	}
}
