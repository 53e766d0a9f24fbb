package nn

import (
	"github.com/chewxy/math32"
)

type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func (p Point) Distance(b Point) float32 {
	return math32.Hypot(p.X-b.X, p.Y-b.Y)
}

// Rect is an axis-aligned rectangle in normalized [0,1] image coordinates
type Rect struct {
	Left   float32 `json:"left"`
	Top    float32 `json:"top"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

func (r Rect) Area() float32 {
	return r.Width * r.Height
}

func (r Rect) Right() float32 {
	return r.Left + r.Width
}

func (r Rect) Bottom() float32 {
	return r.Top + r.Height
}

// Intersection over Union
func (r Rect) IOU(b Rect) float32 {
	x1 := math32.Max(r.Left, b.Left)
	y1 := math32.Max(r.Top, b.Top)
	x2 := math32.Min(r.Right(), b.Right())
	y2 := math32.Min(r.Bottom(), b.Bottom())
	inter := math32.Max(0, x2-x1) * math32.Max(0, y2-y1)
	if inter <= 0 {
		return 0
	}
	union := r.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func (r Rect) Center() Point {
	return Point{
		X: r.Left + r.Width/2,
		Y: r.Top + r.Height/2,
	}
}

// CenterDistance is the Euclidean distance between the centers of the two
// rectangles, in the same normalized units as the rectangles themselves.
func (r Rect) CenterDistance(b Rect) float32 {
	return r.Center().Distance(b.Center())
}
