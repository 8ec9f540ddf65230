// Package segment partitions a raster into spatially compact, color-coherent
// superpixels using either SLIC (iterative localized k-means) or SNIC
// (non-iterative priority-queue region growing). Both variants cluster in a
// joint CIELAB+position space and share the same seeding, distance metric,
// and connectivity post-pass.
package segment

import (
	"fmt"
	"image"
)

// Result is the outcome of one Segment call. Labels maps the pixel at
// (x, y) — index y*Width+x — to a superpixel in 0..Count-1.
type Result struct {
	Labels []int32
	Count  int
	Width  int
	Height int

	// lab is the CIELAB buffer the labels were computed from; the
	// aggregation helpers reuse it for mean colors.
	lab []float64
}

// Segment clusters img into roughly cfg.Count superpixels and returns the
// label image. All working buffers live only for the duration of the call.
//
// When the image is too small for the requested count and grid seeding
// realizes fewer than two seeds, Segment falls back to a single constant
// label instead of failing.
func Segment(img image.Image, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidParameter)
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty image (%dx%d)", ErrInvalidParameter, w, h)
	}

	src := ToNRGBA(img)
	lab := toLab(src)
	n := w * h

	k := cfg.Count
	if k > n {
		k = n
	}
	s := gridStep(w, h, k)
	nx, ny := seedCounts(w, h, k)
	centers := placeSeeds(lab, w, h, nx, ny)
	if len(centers) < 2 {
		return constantResult(lab, w, h), nil
	}

	wSpatial := spatialWeight(cfg.Compactness, s)
	var labels []int32
	switch cfg.Algorithm {
	case SLIC:
		// The search window is the expected center spacing on each axis: S
		// for square-ish grids, widened where the per-axis spacing exceeds
		// it so every pixel stays inside at least one window.
		wx := s
		if c := (w + nx - 1) / nx; c > wx {
			wx = c
		}
		wy := s
		if c := (h + ny - 1) / ny; c > wy {
			wy = c
		}
		labels = runSLIC(lab, w, h, centers, wx, wy, cfg.Iterations, wSpatial)
	default:
		labels = runSNIC(lab, w, h, centers, wSpatial)
	}

	minSize := minComponentSize(n, k, cfg.MinComponentFraction)
	count := enforceConnectivity(labels, w, h, minSize)

	return &Result{Labels: labels, Count: count, Width: w, Height: h, lab: lab}, nil
}

// constantResult is the degenerate single-superpixel outcome for images too
// small to seed.
func constantResult(lab []float64, w, h int) *Result {
	return &Result{
		Labels: make([]int32, w*h),
		Count:  1,
		Width:  w,
		Height: h,
		lab:    lab,
	}
}
