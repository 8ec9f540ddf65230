package segment

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

// The engine works in CIELAB so the color term of the joint distance tracks
// perceived difference. go-colorful keeps L, a, b scaled down by 100; the
// buffer stores the conventional ranges (L in 0..100) so the compactness
// weight behaves the way the literature calibrates it.

// toLab converts an NRGBA raster into an interleaved L,a,b float buffer of
// length 3*W*H. Alpha is dropped. Rows are converted in parallel bands since
// each pixel is independent.
func toLab(src *image.NRGBA) []float64 {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	lab := make([]float64, 3*w*h)

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	rowsPer := (h + workers - 1) / workers
	var wg sync.WaitGroup
	for wi := 0; wi < workers; wi++ {
		startRow := wi * rowsPer
		endRow := startRow + rowsPer
		if endRow > h {
			endRow = h
		}
		if startRow >= endRow {
			break
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					i := src.PixOffset(b.Min.X+x, b.Min.Y+y)
					c := colorful.Color{
						R: float64(src.Pix[i+0]) / 255.0,
						G: float64(src.Pix[i+1]) / 255.0,
						B: float64(src.Pix[i+2]) / 255.0,
					}
					l, a, bb := c.Lab()
					o := 3 * (y*w + x)
					lab[o+0] = l * 100.0
					lab[o+1] = a * 100.0
					lab[o+2] = bb * 100.0
				}
			}
		}(startRow, endRow)
	}
	wg.Wait()
	return lab
}

// labToNRGBA converts one Lab triple back to an 8-bit sRGB color. Out-of-gamut
// values are clamped rather than wrapped.
func labToNRGBA(l, a, b float64) color.NRGBA {
	c := colorful.Lab(l/100.0, a/100.0, b/100.0).Clamped()
	r8, g8, b8 := c.RGB255()
	return color.NRGBA{R: r8, G: g8, B: b8, A: 255}
}
