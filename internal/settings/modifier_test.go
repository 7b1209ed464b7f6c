package settings

import "testing"

func TestModifierClick_IsActive(t *testing.T) {
	tests := []struct {
		name string
		mc   ModifierClick
		goos string
		keys KeyState
		want bool
	}{
		{"mac command in auto mode", DefaultModifierClick(), "darwin", KeyState{Meta: true}, true},
		{"mac ctrl in auto mode", DefaultModifierClick(), "darwin", KeyState{Ctrl: true}, false},
		{"windows ctrl in auto mode", DefaultModifierClick(), "windows", KeyState{Ctrl: true}, true},
		{"linux meta in auto mode", DefaultModifierClick(), "linux", KeyState{Meta: true}, false},
		{"mac ctrl without smart detection", ModifierClick{Enabled: true, PreferredModifier: ModifierAuto}, "MacIntel", KeyState{Ctrl: true}, true},
		{"explicit alt", ModifierClick{Enabled: true, PreferredModifier: ModifierAlt}, "linux", KeyState{Alt: true}, true},
		{"explicit shift wrong key", ModifierClick{Enabled: true, PreferredModifier: ModifierShift}, "linux", KeyState{Ctrl: true}, false},
		{"disabled", ModifierClick{PreferredModifier: ModifierCtrl}, "linux", KeyState{Ctrl: true}, false},
		{"unknown modifier", ModifierClick{Enabled: true, PreferredModifier: "hyper"}, "linux", KeyState{Ctrl: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mc.IsActive(tt.goos, tt.keys); got != tt.want {
				t.Errorf("IsActive() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseModifierClick(t *testing.T) {
	mc, err := ParseModifierClick("off")
	if err != nil || mc.Enabled {
		t.Errorf("expected disabled, got %+v (err %v)", mc, err)
	}

	mc, err = ParseModifierClick(" Shift ")
	if err != nil || mc.PreferredModifier != ModifierShift || !mc.SmartCrossPlatform {
		t.Errorf("unexpected result %+v (err %v)", mc, err)
	}

	if _, err := ParseModifierClick("auto,turbo"); err == nil {
		t.Error("expected error for unknown option")
	}

	// Command is only reachable through auto on macOS.
	if _, err := ParseModifierClick("meta"); err == nil {
		t.Error("expected error for meta")
	}
}
