package segment

import (
	"image"
	"image/color"
)

// MeanColors returns the per-label mean (L,a,b) over the label image. Labels
// must already be compacted to 0..count-1.
func (r *Result) MeanColors() [][3]float64 {
	sums := make([][3]float64, r.Count)
	pops := make([]int, r.Count)
	for p, lbl := range r.Labels {
		o := 3 * p
		sums[lbl][0] += r.lab[o+0]
		sums[lbl][1] += r.lab[o+1]
		sums[lbl][2] += r.lab[o+2]
		pops[lbl]++
	}
	for k := range sums {
		if pops[k] == 0 {
			continue
		}
		inv := 1.0 / float64(pops[k])
		sums[k][0] *= inv
		sums[k][1] *= inv
		sums[k][2] *= inv
	}
	return sums
}

// MeanImage paints every pixel with the mean color of the superpixel that
// owns it.
func (r *Result) MeanImage() *image.NRGBA {
	means := r.MeanColors()
	colors := make([]color.NRGBA, len(means))
	for k, m := range means {
		colors[k] = labToNRGBA(m[0], m[1], m[2])
	}
	out := image.NewNRGBA(image.Rect(0, 0, r.Width, r.Height))
	p := 0
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := colors[r.Labels[p]]
			i := out.PixOffset(x, y)
			out.Pix[i+0] = c.R
			out.Pix[i+1] = c.G
			out.Pix[i+2] = c.B
			out.Pix[i+3] = 255
			p++
		}
	}
	return out
}

// OverlayContours returns a copy of img with a one-pixel contour drawn where
// adjacent pixels belong to different superpixels. A pixel is marked when its
// label differs from its left or upper neighbor, which keeps every boundary a
// single pixel wide; drawing the overlay twice therefore produces the same
// image as drawing it once.
func (r *Result) OverlayContours(img *image.NRGBA, col color.NRGBA) *image.NRGBA {
	out := CloneNRGBA(img)
	for y := 0; y < r.Height; y++ {
		row := y * r.Width
		for x := 0; x < r.Width; x++ {
			p := row + x
			boundary := x > 0 && r.Labels[p] != r.Labels[p-1] ||
				y > 0 && r.Labels[p] != r.Labels[p-r.Width]
			if !boundary {
				continue
			}
			i := out.PixOffset(x, y)
			out.Pix[i+0] = col.R
			out.Pix[i+1] = col.G
			out.Pix[i+2] = col.B
			out.Pix[i+3] = 255
		}
	}
	return out
}
