package render

import "github.com/go-gl/mathgl/mgl32"

// MinZoom limits zoom out
const MinZoom = 0.1

// Camera maps the unit-square world onto the screen. At zoom 1 the world
// exactly fills the window; Offset is the world point at the top-left corner.
type Camera struct {
	Width, Height float32 // screen size in pixels
	Zoom          float32
	Offset        mgl32.Vec2
}

func NewCamera(width, height int) Camera {
	return Camera{Width: float32(width), Height: float32(height), Zoom: 1}
}

// ToScreen converts a world position to pixels.
func (c Camera) ToScreen(w mgl32.Vec2) (float32, float32) {
	return (w[0] - c.Offset[0]) * c.Width * c.Zoom, (w[1] - c.Offset[1]) * c.Height * c.Zoom
}

// ToWorld converts pixels to a world position.
func (c Camera) ToWorld(sx, sy float32) mgl32.Vec2 {
	return mgl32.Vec2{
		sx/(c.Width*c.Zoom) + c.Offset[0],
		sy/(c.Height*c.Zoom) + c.Offset[1],
	}
}

// ZoomAt changes the zoom by delta while keeping the world point under the
// given pixel fixed.
func (c *Camera) ZoomAt(delta, sx, sy float32) {
	anchor := c.ToWorld(sx, sy)
	c.Zoom += delta
	if c.Zoom < MinZoom {
		c.Zoom = MinZoom
	}
	after := c.ToWorld(sx, sy)
	c.Offset = c.Offset.Add(anchor.Sub(after))
}

// Pan shifts the view by a pixel drag.
func (c *Camera) Pan(dx, dy float32) {
	c.Offset = c.Offset.Sub(mgl32.Vec2{dx / (c.Width * c.Zoom), dy / (c.Height * c.Zoom)})
}
