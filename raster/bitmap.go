package raster

import (
	"image"

	"github.com/benoitkugler/okscene/scene"
	"golang.org/x/image/draw"
)

var _ scene.Bitmap = (*Bitmap)(nil)

// Bitmap is the image painted by a Canvas.
type Bitmap struct {
	img *image.RGBA
}

func (b *Bitmap) Image() image.Image { return b.img }

// Trim crops the image to the bounds of its non transparent pixels.
// A fully transparent image is cropped to an empty one.
func (b *Bitmap) Trim() {
	r := opaqueBounds(b.img)
	trimmed := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Copy(trimmed, image.Point{}, b.img, r, draw.Src, nil)
	b.img = trimmed
}

func opaqueBounds(img *image.RGBA) image.Rectangle {
	var out image.Rectangle
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y).A == 0 {
				continue
			}
			out = out.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return out
}
