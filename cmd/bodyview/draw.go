package main

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/bodybind/physics"
	"golang.org/x/image/colornames"
)

// spaceDrawer renders chipmunk shapes, colored by the state of the body
// that owns them.
type spaceDrawer struct {
	screen *ebiten.Image
}

func (d *spaceDrawer) Draw(screen *ebiten.Image, space *cp.Space) {
	if screen == nil || space == nil {
		return
	}
	d.screen = screen
	cp.DrawSpace(space, d)
	d.screen = nil
}

func line(dst *ebiten.Image, a, b cp.Vector, c color.Color) {
	vector.StrokeLine(dst, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, c, true)
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	vector.StrokeCircle(d.screen, float32(pos.X), float32(pos.Y), float32(radius), 1, c, true)
	line(d.screen, pos, pos.Add(cp.ForAngle(angle).Mult(radius)), c)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	line(d.screen, a, b, fcolorToRGBA(fill))
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	line(d.screen, a, b, fcolorToRGBA(outline))
	if radius > 0 {
		d.DrawCircle(a, 0, radius, outline, fill, data)
		d.DrawCircle(b, 0, radius, outline, fill, data)
	}
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	c := fcolorToRGBA(outline)
	for i := 0; i < count; i++ {
		line(d.screen, verts[i], verts[(i+1)%count], c)
	}
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	vector.DrawFilledCircle(d.screen, float32(pos.X), float32(pos.Y), float32(size/2), fcolorToRGBA(fill), true)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

// ShapeColor picks a color from the owning body: sensors yellow, static
// blue, kinematic green, dynamic magenta, and sleeping bodies grey.
func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	f, ok := shape.UserData.(*physics.Fixture)
	if !ok || f.Body() == nil {
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	}
	b := f.Body()
	switch {
	case f.IsSensor():
		return cp.FColor{R: 1.0, G: 0.85, B: 0.2, A: 1.0}
	case b.BodyType() == physics.Static:
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	case b.BodyType() == physics.Kinematic:
		return cp.FColor{R: 0.3, G: 0.9, B: 0.5, A: 1.0}
	case !b.IsAwake():
		return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

// drawSelection outlines the selected body's center of mass and velocity.
func drawSelection(screen *ebiten.Image, b *physics.Body) {
	c := b.WorldCenter()
	r := math.Max(6, math.Sqrt(b.Mass())/2)
	vector.StrokeCircle(screen, float32(c.X), float32(c.Y), float32(r), 2, colornames.Orange, true)
	v := b.LinearVelocityFromWorldPoint(c)
	line(screen, c, c.Add(v.Mult(0.25)), colornames.Orange)
}

func fcolorToRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		return uint8(v * 255)
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
