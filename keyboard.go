package arbor

import (
	"maps"
	"slices"
)

// Key codes for common keys. Letters and digits use their ASCII upper-case
// code points ('A' = 65, '0' = 48); hosts translate native keys to these.
const (
	KeyBackspace = 8
	KeyTab       = 9
	KeyEnter     = 13
	KeyShift     = 16
	KeyControl   = 17
	KeyAlt       = 18
	KeyEscape    = 27
	KeySpace     = 32
	KeyLeft      = 37
	KeyUp        = 38
	KeyRight     = 39
	KeyDown      = 40
	KeyDelete    = 46
)

// Keyboard tracks which key codes are held down. The stage owns one and
// updates it from HandleKeyDown and HandleKeyUp.
type Keyboard struct {
	down map[int]struct{}
}

// IsDown reports whether code is held.
func (k *Keyboard) IsDown(code int) bool {
	_, ok := k.down[code]
	return ok
}

// IsUp reports whether code is not held.
func (k *Keyboard) IsUp(code int) bool {
	return !k.IsDown(code)
}

// Pressed returns the held key codes in ascending order.
func (k *Keyboard) Pressed() []int {
	return slices.Sorted(maps.Keys(k.down))
}

// press records code as held. Returns false if it already was, so key
// repeat produces no second transition.
func (k *Keyboard) press(code int) bool {
	if k.IsDown(code) {
		return false
	}
	if k.down == nil {
		k.down = make(map[int]struct{})
	}
	k.down[code] = struct{}{}
	return true
}

// release records code as up. Returns false if it was not held.
func (k *Keyboard) release(code int) bool {
	if !k.IsDown(code) {
		return false
	}
	delete(k.down, code)
	return true
}

func (k *Keyboard) reset() {
	clear(k.down)
}
