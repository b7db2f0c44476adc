package systray

import "fmt"

// Icon represents icon of the system tray item.
//
// Bytes holds Width*Height pixels in ARGB32 format, each channel a single
// byte in the order alpha, red, green, blue. This is the pixmap format
// required by the StatusNotifierItem specification.
type Icon struct {
	Width  int32
	Height int32
	Bytes  []byte
}

// NewIcon returns a new [Icon] from ARGB pixels.
//
// An error is returned if length of pixels does not match the dimensions.
func NewIcon(width, height int, argb []byte) (*Icon, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid icon size %dx%d", width, height)
	}

	if len(argb) != width*height*4 {
		return nil, fmt.Errorf("invalid pixmap length: expected %d bytes, got %d", width*height*4, len(argb))
	}

	return &Icon{
		Width:  int32(width),
		Height: int32(height),
		Bytes:  argb,
	}, nil
}

// IconSet is a set of icons of different sizes for the same image.
//
// It is sent over D-Bus as a(iiay).
type IconSet []Icon

// NewIconSet returns [IconSet] containing non-nil icons.
func NewIconSet(icons ...*Icon) IconSet {
	set := make(IconSet, 0, len(icons))

	for _, icon := range icons {
		if icon != nil {
			set = append(set, *icon)
		}
	}

	return set
}

// ToolTip is the tooltip of the item, sent over D-Bus as (sa(iiay)ss).
type ToolTip struct {
	IconName    string
	IconPixmap  IconSet
	Title       string
	Description string
}
