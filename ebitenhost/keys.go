package ebitenhost

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/arbor"
)

// namedKeys maps non-alphanumeric ebiten keys to arbor key codes. Left and
// right modifier variants share one code.
var namedKeys = map[ebiten.Key]int{
	ebiten.KeyBackspace:    arbor.KeyBackspace,
	ebiten.KeyTab:          arbor.KeyTab,
	ebiten.KeyEnter:        arbor.KeyEnter,
	ebiten.KeyNumpadEnter:  arbor.KeyEnter,
	ebiten.KeyShiftLeft:    arbor.KeyShift,
	ebiten.KeyShiftRight:   arbor.KeyShift,
	ebiten.KeyControlLeft:  arbor.KeyControl,
	ebiten.KeyControlRight: arbor.KeyControl,
	ebiten.KeyAltLeft:      arbor.KeyAlt,
	ebiten.KeyAltRight:     arbor.KeyAlt,
	ebiten.KeyEscape:       arbor.KeyEscape,
	ebiten.KeySpace:        arbor.KeySpace,
	ebiten.KeyArrowLeft:    arbor.KeyLeft,
	ebiten.KeyArrowUp:      arbor.KeyUp,
	ebiten.KeyArrowRight:   arbor.KeyRight,
	ebiten.KeyArrowDown:    arbor.KeyDown,
	ebiten.KeyDelete:       arbor.KeyDelete,
}

// KeyCode translates an ebiten key to the arbor key code. Letters map to
// 'A'..'Z' and digits to '0'..'9'. ok is false for keys with no code.
func KeyCode(k ebiten.Key) (code int, ok bool) {
	if code, ok := namedKeys[k]; ok {
		return code, true
	}
	name := k.String()
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return int(name[0]), true
	}
	if d, found := strings.CutPrefix(name, "Digit"); found && len(d) == 1 {
		return int(d[0]), true
	}
	return 0, false
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() arbor.KeyModifiers {
	var mods arbor.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= arbor.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= arbor.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= arbor.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= arbor.ModMeta
	}
	return mods
}

var mouseButtons = [...]struct {
	native ebiten.MouseButton
	button arbor.MouseButton
}{
	{ebiten.MouseButtonLeft, arbor.MouseButtonLeft},
	{ebiten.MouseButtonRight, arbor.MouseButtonRight},
	{ebiten.MouseButtonMiddle, arbor.MouseButtonMiddle},
}
