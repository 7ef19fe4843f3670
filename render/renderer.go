package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/emgflappy/ecs/component"
	"github.com/milk9111/emgflappy/prefabs"
	"github.com/milk9111/emgflappy/world"
)

type Palette struct {
	Background   color.Color
	Obstacle     color.Color
	ObstacleEdge color.Color
	TunnelIdle   color.Color
	TunnelActive color.Color
	Actor        color.Color
	Flash        color.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background:   color.NRGBA{R: 0x4e, G: 0xc0, B: 0xca, A: 0xff},
		Obstacle:     color.NRGBA{R: 0x5f, G: 0xa8, B: 0x3a, A: 0xff},
		ObstacleEdge: color.NRGBA{R: 0x2d, G: 0x5a, B: 0x1b, A: 0xff},
		TunnelIdle:   color.NRGBA{R: 0x6a, G: 0x5a, B: 0xcd, A: 0x60},
		TunnelActive: color.NRGBA{R: 0xff, G: 0xf3, B: 0x5c, A: 0xff},
		Actor:        color.NRGBA{R: 0xf4, G: 0xd0, B: 0x3f, A: 0xff},
		Flash:        color.NRGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xff},
	}
}

// PaletteFromSpec overrides the defaults with the colors set in spec.
func PaletteFromSpec(spec prefabs.RenderSpec) Palette {
	p := DefaultPalette()
	set := func(dst *color.Color, c prefabs.YAMLColor) {
		if c.Color != nil {
			*dst = c.Color
		}
	}
	set(&p.Background, spec.Background)
	set(&p.Obstacle, spec.Obstacle)
	set(&p.ObstacleEdge, spec.ObstacleEdge)
	set(&p.TunnelIdle, spec.TunnelIdle)
	set(&p.TunnelActive, spec.TunnelActive)
	set(&p.Actor, spec.Actor)
	set(&p.Flash, spec.Flash)
	return p
}

// Renderer draws world entities as flat shapes onto a target image.
type Renderer struct {
	camera  *Camera
	palette Palette
	target  *ebiten.Image
}

var _ world.Renderer = (*Renderer)(nil)

func NewRenderer(camera *Camera, palette Palette) *Renderer {
	return &Renderer{camera: camera, palette: palette}
}

func (r *Renderer) SetPalette(p Palette) {
	r.palette = p
}

// Begin clears screen and targets it for the following draw calls.
func (r *Renderer) Begin(screen *ebiten.Image) {
	r.target = screen
	if screen != nil {
		screen.Fill(r.palette.Background)
	}
}

func (r *Renderer) DrawObstacle(v world.ObstacleView) {
	if r.target == nil {
		return
	}
	x, y, w, h := r.camera.RectToScreen(v.X, v.Y, v.Width, v.Height)

	if v.Kind == component.ObstacleTunnel {
		fill := r.palette.TunnelIdle
		if v.Active {
			fill = r.palette.TunnelActive
		}
		vector.FillRect(r.target, x, y, w, h, fill, false)
		r.drawBolt(x, y, w, h, v.Active)
		return
	}

	vector.FillRect(r.target, x, y, w, h, r.palette.Obstacle, false)
	vector.StrokeRect(r.target, x, y, w, h, 2, r.palette.ObstacleEdge, false)
	// pipe lip on the open end
	lipH := float32(r.camera.Scale())
	lipY := y
	if v.Flipped {
		lipY = y + h - lipH
	}
	vector.FillRect(r.target, x-lipH/2, lipY, w+lipH, lipH, r.palette.ObstacleEdge, false)
}

// drawBolt draws the tunnel's lightning as a zigzag down its middle.
func (r *Renderer) drawBolt(x, y, w, h float32, active bool) {
	if !active {
		return
	}
	const segments = 6
	cx := x + w/2
	amp := w / 8
	prevX, prevY := cx, y
	for i := 1; i <= segments; i++ {
		nx := cx + amp
		if i%2 == 0 {
			nx = cx - amp
		}
		if i == segments {
			nx = cx
		}
		ny := y + h*float32(i)/segments
		vector.StrokeLine(r.target, prevX, prevY, nx, ny, 3, r.palette.Flash, true)
		prevX, prevY = nx, ny
	}
}

func (r *Renderer) DrawActor(v world.ActorView) {
	if r.target == nil {
		return
	}
	x, y, w, h := r.camera.RectToScreen(v.X, v.Y, v.Width, v.Height)
	fill := r.palette.Actor
	if v.Flash {
		fill = r.palette.Flash
	}
	vector.FillRect(r.target, x, y, w, h, fill, true)

	// wing: four flap positions
	wingY := []float32{0.2, 0.4, 0.6, 0.4}[v.Frame%4]
	vector.StrokeLine(r.target, x+w*0.2, y+h*0.5, x+w*0.5, y+h*wingY, 3, r.palette.ObstacleEdge, true)
	// eye
	vector.FillRect(r.target, x+w*0.7, y+h*0.2, w*0.12, h*0.2, color.Black, false)
}
