package segment

import "math"

// center is one cluster in the joint color+position space. l, a, b, x, y are
// the running means; n is the member population used during accumulation.
type center struct {
	l, a, b float64
	x, y    float64
	n       int
}

// gridStep returns S = round(sqrt(N/K)), the expected linear spacing between
// adjacent superpixel centers and the canonical spatial scale of the distance
// metric. Never below 1.
func gridStep(w, h, k int) int {
	s := int(math.Round(math.Sqrt(float64(w*h) / float64(k))))
	if s < 1 {
		s = 1
	}
	return s
}

// seedCounts splits the requested K into per-axis seed counts whose cells
// stay as close to square as the image allows. For ordinary aspect ratios
// this approximates the classic step-S grid; for extreme ones (a 256x1 strip)
// it still realizes about K seeds where a fixed step would place none.
func seedCounts(w, h, k int) (nx, ny int) {
	ny = int(math.Round(math.Sqrt(float64(k) * float64(h) / float64(w))))
	ny = clampInt(ny, 1, h)
	nx = int(math.Round(float64(k) / float64(ny)))
	nx = clampInt(nx, 1, w)
	return nx, ny
}

// placeSeeds lays nx*ny cluster centers on a near-regular grid, one per cell
// center, then nudges each seed to the lowest-gradient pixel of its 3x3
// neighborhood so no seed starts on an edge. The realized count is
// len(centers) and may differ slightly from the requested K.
func placeSeeds(lab []float64, w, h, nx, ny int) []center {
	centers := make([]center, 0, nx*ny)
	for j := 0; j < ny; j++ {
		y := int((float64(j) + 0.5) * float64(h) / float64(ny))
		for i := 0; i < nx; i++ {
			x := int((float64(i) + 0.5) * float64(w) / float64(nx))
			px, py := perturbSeed(lab, w, h, x, y)
			o := 3 * (py*w + px)
			centers = append(centers, center{
				l: lab[o+0],
				a: lab[o+1],
				b: lab[o+2],
				x: float64(px),
				y: float64(py),
			})
		}
	}
	return centers
}

// perturbSeed returns the coordinates of the minimum-gradient pixel in the
// 3x3 neighborhood of (x,y). Candidates whose central-difference stencil
// would escape the image are skipped; if every candidate is skipped the seed
// stays put.
func perturbSeed(lab []float64, w, h, x, y int) (int, int) {
	bestX, bestY := x, y
	bestGrad := math.Inf(1)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cx, cy := x+dx, y+dy
			if cx < 1 || cx >= w-1 || cy < 1 || cy >= h-1 {
				continue
			}
			g := gradientAt(lab, w, cx, cy)
			if g < bestGrad {
				bestGrad = g
				bestX, bestY = cx, cy
			}
		}
	}
	return bestX, bestY
}

// gradientAt computes the squared gradient magnitude at (x,y):
// ||I(x+1,y)-I(x-1,y)||^2 + ||I(x,y+1)-I(x,y-1)||^2 over the Lab vector.
// Callers must keep the stencil inside the image.
func gradientAt(lab []float64, w, x, y int) float64 {
	xp := 3 * (y*w + x + 1)
	xm := 3 * (y*w + x - 1)
	yp := 3 * ((y+1)*w + x)
	ym := 3 * ((y-1)*w + x)
	var g float64
	for c := 0; c < 3; c++ {
		dx := lab[xp+c] - lab[xm+c]
		dy := lab[yp+c] - lab[ym+c]
		g += dx*dx + dy*dy
	}
	return g
}
