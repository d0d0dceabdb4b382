package input

import "testing"

func TestKeyName(t *testing.T) {
	tests := map[string]string{
		"Left":     "left",
		"Page Up":  "pageup",
		"PageDown": "pagedown",
		"A":        "a",
		"Space":    "space",
		"Escape":   "escape",
		"Keypad 8": "keypad8",
		"":         "",
	}
	for in, want := range tests {
		if got := KeyName(in); got != want {
			t.Errorf("KeyName(%q) = %q, want %q", in, got, want)
		}
	}
}
