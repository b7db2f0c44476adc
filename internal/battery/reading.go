// Package battery decodes battery readings reported by headsetcontrol.
package battery

import "fmt"

type Status int

// Battery statuses reported by headsetcontrol.
const (
	// The headset is connected and runs on battery.
	Available Status = iota

	// The headset is disconnected or does not report its battery.
	Unavailable

	// The headset is connected and charging.
	Charging
)

var statusNames = map[string]Status{
	"BATTERY_AVAILABLE":   Available,
	"BATTERY_UNAVAILABLE": Unavailable,
	"BATTERY_CHARGING":    Charging,
}

// ParseStatus returns [Status] from its headsetcontrol name, e.g.
// "BATTERY_CHARGING".
func ParseStatus(name string) (Status, error) {
	status, ok := statusNames[name]
	if !ok {
		return Unavailable, fmt.Errorf("unknown battery status %q", name)
	}

	return status, nil
}

func (s Status) String() string {
	switch s {
	case Available:
		return "BATTERY_AVAILABLE"
	case Unavailable:
		return "BATTERY_UNAVAILABLE"
	case Charging:
		return "BATTERY_CHARGING"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reading is a battery state of the headset at some point in time.
//
// Reading is comparable and can be used as a map key. Level is a percentage
// as reported by the tool and is not validated.
type Reading struct {
	Status Status
	Level  int
}

func (r Reading) String() string {
	return fmt.Sprintf("%s %d%%", r.Status, r.Level)
}
