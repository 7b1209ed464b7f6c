package settings

import (
	"fmt"
	"strings"
)

// Modifier names a keyboard modifier that, held while clicking, triggers a
// translation.
type Modifier string

const (
	ModifierAuto  Modifier = "auto"
	ModifierCtrl  Modifier = "ctrl"
	ModifierAlt   Modifier = "alt"
	ModifierShift Modifier = "shift"
	ModifierMeta  Modifier = "meta"
)

// ModifierClick holds the modifier-click preferences.
type ModifierClick struct {
	Enabled            bool     `json:"enabled"`
	PreferredModifier  Modifier `json:"preferredModifier"`
	SmartCrossPlatform bool     `json:"smartCrossPlatform"`
}

func DefaultModifierClick() ModifierClick {
	return ModifierClick{
		Enabled:            true,
		PreferredModifier:  ModifierAuto,
		SmartCrossPlatform: true,
	}
}

// KeyState is the set of modifiers held during a click.
type KeyState struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

// Resolve returns the concrete modifier for the given GOOS-style platform
// name. "auto" maps to Command on macOS and Ctrl elsewhere unless
// cross-platform detection is off. An empty result means modifier-click is
// disabled or misconfigured.
func (m ModifierClick) Resolve(goos string) Modifier {
	if !m.Enabled {
		return ""
	}
	switch m.PreferredModifier {
	case ModifierCtrl, ModifierAlt, ModifierShift:
		return m.PreferredModifier
	case ModifierAuto, "":
		if m.SmartCrossPlatform && isMac(goos) {
			return ModifierMeta
		}
		return ModifierCtrl
	default:
		return ""
	}
}

// IsActive reports whether keys satisfy the resolved modifier.
func (m ModifierClick) IsActive(goos string, keys KeyState) bool {
	switch m.Resolve(goos) {
	case ModifierCtrl:
		return keys.Ctrl
	case ModifierAlt:
		return keys.Alt
	case ModifierShift:
		return keys.Shift
	case ModifierMeta:
		return keys.Meta
	default:
		return false
	}
}

// ParseModifierClick reads "off" or "<modifier>[,nosmart]", e.g. "auto",
// "alt" or "auto,nosmart".
func ParseModifierClick(s string) (ModifierClick, error) {
	mc := DefaultModifierClick()
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "off" || s == "false" {
		mc.Enabled = false
		return mc, nil
	}

	parts := strings.Split(s, ",")
	switch mod := Modifier(parts[0]); mod {
	case ModifierAuto, ModifierCtrl, ModifierAlt, ModifierShift:
		mc.PreferredModifier = mod
	default:
		return mc, fmt.Errorf("unknown modifier: %s", parts[0])
	}
	for _, opt := range parts[1:] {
		switch opt {
		case "nosmart":
			mc.SmartCrossPlatform = false
		case "smart":
			mc.SmartCrossPlatform = true
		default:
			return mc, fmt.Errorf("unknown modifier option: %s", opt)
		}
	}
	return mc, nil
}

func isMac(goos string) bool {
	goos = strings.ToLower(goos)
	return goos == "darwin" || strings.Contains(goos, "mac")
}
