package arbor

// GraphicsOp identifies a recorded drawing command.
type GraphicsOp uint8

const (
	GraphicsFillRect GraphicsOp = iota
	GraphicsStrokeRect
	GraphicsFillText
)

// graphicsCommand is one recorded drawing call in local coordinates.
type graphicsCommand struct {
	op        GraphicsOp
	rect      Rectangle
	lineWidth float64
	text      string
	color     Color
}

// Graphics is a retained list of drawing commands owned by a sprite and
// replayed in the sprite's local space each frame.
type Graphics struct {
	cmds   []graphicsCommand
	bounds Rectangle
}

// Clear drops every recorded command.
func (g *Graphics) Clear() {
	g.cmds = g.cmds[:0]
	g.bounds = Rectangle{}
}

// FillRect records a filled rectangle.
func (g *Graphics) FillRect(x, y, w, h float64, c Color) {
	r := Rect(x, y, w, h)
	g.push(graphicsCommand{op: GraphicsFillRect, rect: r, color: c}, r)
}

// StrokeRect records a rectangle outline.
func (g *Graphics) StrokeRect(x, y, w, h, lineWidth float64, c Color) {
	r := Rect(x, y, w, h)
	g.push(graphicsCommand{op: GraphicsStrokeRect, rect: r, lineWidth: lineWidth, color: c},
		r.Inflate(lineWidth/2, lineWidth/2))
}

// FillText records a text run with its baseline origin at (x, y). Text
// does not contribute to Bounds since its extent depends on the surface font.
func (g *Graphics) FillText(text string, x, y float64, c Color) {
	g.cmds = append(g.cmds, graphicsCommand{op: GraphicsFillText, rect: Rectangle{X: x, Y: y}, text: text, color: c})
}

// Len returns the number of recorded commands.
func (g *Graphics) Len() int { return len(g.cmds) }

// Bounds returns the union of every recorded shape in local coordinates.
func (g *Graphics) Bounds() Rectangle {
	return g.bounds
}

func (g *Graphics) push(cmd graphicsCommand, area Rectangle) {
	g.cmds = append(g.cmds, cmd)
	if g.bounds.IsEmpty() {
		g.bounds = area
	} else {
		g.bounds = g.bounds.Union(area)
	}
}

// replay issues every command on s.
func (g *Graphics) replay(s Surface) {
	for i := range g.cmds {
		cmd := &g.cmds[i]
		switch cmd.op {
		case GraphicsFillRect:
			s.FillRect(cmd.rect.X, cmd.rect.Y, cmd.rect.Width, cmd.rect.Height, cmd.color)
		case GraphicsStrokeRect:
			s.StrokeRect(cmd.rect.X, cmd.rect.Y, cmd.rect.Width, cmd.rect.Height, cmd.lineWidth, cmd.color)
		case GraphicsFillText:
			s.FillText(cmd.text, cmd.rect.X, cmd.rect.Y, cmd.color)
		}
	}
}
