package arbor

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
	"strconv"
)

// DrawCommand is one recorded surface call. The JSON form can be replayed by
// a Canvas2D frontend.
type DrawCommand struct {
	Op        string     `json:"op"`                  // "clear", "fillRect", "strokeRect", "image", "text", "save", "restore"
	Transform [6]float64 `json:"transform"`           // [a, b, c, d, e, f] in effect for the call
	Alpha     float64    `json:"alpha"`               // global alpha in effect for the call
	Rect      Rectangle  `json:"rect,omitzero"`       // target rectangle in the call's space
	LineWidth float64    `json:"lineWidth,omitempty"` // stroke width
	Color     string     `json:"color,omitempty"`     // CSS rgba() color
	Text      string     `json:"text,omitempty"`      // text for "text" ops
}

// RecordingSurface is a Surface that records calls instead of drawing, for
// tests and for shipping frames to a remote canvas.
type RecordingSurface struct {
	StateStack
	width, height int
	commands      []DrawCommand
}

var _ Surface = (*RecordingSurface)(nil)

// NewRecordingSurface returns a recorder reporting the given size.
func NewRecordingSurface(width, height int) *RecordingSurface {
	return &RecordingSurface{width: width, height: height}
}

func (r *RecordingSurface) Size() (int, int) { return r.width, r.height }

// Commands returns the recorded calls. The returned slice MUST NOT be mutated by the caller.
func (r *RecordingSurface) Commands() []DrawCommand { return r.commands }

// Reset drops the recorded calls and the transform state.
func (r *RecordingSurface) Reset() {
	r.commands = r.commands[:0]
	r.ResetState()
}

// Ops returns the op names in recording order, skipping save and restore.
func (r *RecordingSurface) Ops() []string {
	var ops []string
	for _, c := range r.commands {
		if c.Op == "save" || c.Op == "restore" {
			continue
		}
		ops = append(ops, c.Op)
	}
	return ops
}

// MarshalJSON encodes the recorded commands.
func (r *RecordingSurface) MarshalJSON() ([]byte, error) {
	if r.commands == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.commands)
}

func (r *RecordingSurface) record(op string, rect Rectangle, c *Color) *DrawCommand {
	st := r.Current()
	cmd := DrawCommand{Op: op, Transform: st.Matrix, Alpha: st.Alpha, Rect: rect}
	if c != nil {
		cmd.Color = cssColor(*c)
	}
	r.commands = append(r.commands, cmd)
	return &r.commands[len(r.commands)-1]
}

// ClearRect starts a new frame's recording when it covers the whole
// surface, so the recorder holds at most one frame.
func (r *RecordingSurface) ClearRect(x, y, w, h float64) {
	if x <= 0 && y <= 0 && w >= float64(r.width) && h >= float64(r.height) {
		r.commands = r.commands[:0]
	}
	r.record("clear", Rectangle{x, y, w, h}, nil)
}

func (r *RecordingSurface) Save() {
	r.StateStack.Save()
	r.record("save", Rectangle{}, nil)
}

func (r *RecordingSurface) Restore() {
	r.StateStack.Restore()
	r.record("restore", Rectangle{}, nil)
}

func (r *RecordingSurface) FillRect(x, y, w, h float64, c Color) {
	r.record("fillRect", Rectangle{x, y, w, h}, &c)
}

func (r *RecordingSurface) StrokeRect(x, y, w, h, lineWidth float64, c Color) {
	r.record("strokeRect", Rectangle{x, y, w, h}, &c).LineWidth = lineWidth
}

func (r *RecordingSurface) DrawImage(img image.Image, x, y float64) {
	var w, h float64
	if img != nil {
		sz := img.Bounds().Size()
		w, h = float64(sz.X), float64(sz.Y)
	}
	r.record("image", Rectangle{x, y, w, h}, nil)
}

func (r *RecordingSurface) FillText(text string, x, y float64, c Color) {
	r.record("text", Rectangle{X: x, Y: y}, &c).Text = text
}

// cssColor formats c as a CSS rgba() value.
func cssColor(c Color) string {
	n := c.NRGBA()
	a := strconv.FormatFloat(math.Round(float64(n.A)/255*1000)/1000, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", n.R, n.G, n.B, a)
}
