package hardware

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AC adapter states.
const (
	ACConnected    = "Connected (Charging)"
	ACDisconnected = "Disconnected (On battery)"
)

// batteryNames are the power_supply entries checked, in order.
var batteryNames = []string{"BAT0", "BAT1"}

// Battery is one battery's sysfs state.
type Battery struct {
	Index    int    `json:"index"`
	Status   string `json:"status"`
	Capacity string `json:"capacity"`
	Health   string `json:"health"`
}

// Power is the battery and AC adapter overview.
type Power struct {
	Batteries []Battery `json:"batteries"`
	// AC is empty when no adapter entry exists.
	AC string `json:"ac,omitempty"`
}

// ReadPower reads <sysfsRoot>/class/power_supply. Unreadable attributes
// are Unknown.
func ReadPower(sysfsRoot string) Power {
	base := filepath.Join(sysfsRoot, "class", "power_supply")

	var p Power
	for i, name := range batteryNames {
		dir := filepath.Join(base, name)
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		p.Batteries = append(p.Batteries, Battery{
			Index:    i,
			Status:   readAttr(dir, "status"),
			Capacity: readAttr(dir, "capacity"),
			Health:   readAttr(dir, "health"),
		})
	}

	ac := filepath.Join(base, "AC")
	if _, err := os.Stat(ac); err == nil {
		switch readAttr(ac, "online") {
		case "1":
			p.AC = ACConnected
		case "0":
			p.AC = ACDisconnected
		default:
			p.AC = Unknown
		}
	}
	return p
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return Unknown
	}
	return strings.TrimSpace(string(data))
}

// Summary is the short form used in the system report.
func (p Power) Summary() string {
	var parts []string
	if len(p.Batteries) == 0 {
		parts = append(parts, "Battery not detected")
	}
	for _, b := range p.Batteries {
		parts = append(parts, fmt.Sprintf("Battery %d: %s, %s%%", b.Index, b.Status, b.Capacity))
	}
	if p.AC != "" {
		parts = append(parts, "AC "+p.AC)
	}
	return "Power: " + strings.Join(parts, "; ")
}
