// File: pkg/difftext/modifier.go
package difftext

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownModifier is returned for a modifier name outside the fixed set.
var ErrUnknownModifier = errors.New("unknown modifier")

// Modifier is the key combination that turns a click into a group copy.
type Modifier int

const (
	ModCtrl Modifier = iota
	ModShift
	ModAlt
	ModCtrlShift
)

func (m Modifier) String() string {
	switch m {
	case ModCtrl:
		return "Ctrl"
	case ModShift:
		return "Shift"
	case ModAlt:
		return "Alt"
	case ModCtrlShift:
		return "Ctrl+Shift"
	}
	return fmt.Sprintf("Modifier(%d)", int(m))
}

// ParseModifier accepts Ctrl, Shift, Alt and Ctrl+Shift in any case and
// key order.
func ParseModifier(s string) (Modifier, error) {
	ctrl, shift, alt, err := ParseKeys(s)
	if err != nil {
		return 0, err
	}
	switch {
	case ctrl && shift && !alt:
		return ModCtrlShift, nil
	case ctrl && !shift && !alt:
		return ModCtrl, nil
	case shift && !ctrl && !alt:
		return ModShift, nil
	case alt && !ctrl && !shift:
		return ModAlt, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownModifier, s)
}

// ParseKeys reads a "+" or ","-separated list of held keys. An empty
// string means no keys.
func ParseKeys(s string) (ctrl, shift, alt bool, err error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' || r == ' ' })
	for _, f := range fields {
		switch strings.ToLower(f) {
		case "ctrl", "control":
			ctrl = true
		case "shift":
			shift = true
		case "alt", "option":
			alt = true
		default:
			return false, false, false, fmt.Errorf("%w: %q", ErrUnknownModifier, f)
		}
	}
	return ctrl, shift, alt, nil
}

// Satisfied reports whether exactly the keys of m are held.
func (m Modifier) Satisfied(ctrl, shift, alt bool) bool {
	switch m {
	case ModCtrl:
		return ctrl && !shift && !alt
	case ModShift:
		return shift && !ctrl && !alt
	case ModAlt:
		return alt && !ctrl && !shift
	case ModCtrlShift:
		return ctrl && shift && !alt
	}
	return false
}
