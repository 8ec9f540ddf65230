package segment

import "math"

// unset marks a pixel no solver has claimed yet.
const unset = int32(-1)

// runSLIC performs the iterative localized k-means refinement. Each round
// every center scans only the window [x-wx, x+wx] x [y-wy, y+wy] around
// itself, so a pixel is scored against roughly its four nearest centers. The
// per-pixel best-distance array arbitrates overlapping windows; the strict
// comparison keeps the first-seen center on exact ties, which is stable
// because centers are visited in seed order.
func runSLIC(lab []float64, w, h int, centers []center, wx, wy, iterations int, wSpatial float64) []int32 {
	n := w * h
	labels := make([]int32, n)
	for i := range labels {
		labels[i] = unset
	}
	dist := make([]float64, n)

	for it := 0; it < iterations; it++ {
		for i := range dist {
			dist[i] = math.Inf(1)
		}
		for k := range centers {
			c := &centers[k]
			x0 := clampInt(int(c.x)-wx, 0, w-1)
			x1 := clampInt(int(c.x)+wx, 0, w-1)
			y0 := clampInt(int(c.y)-wy, 0, h-1)
			y1 := clampInt(int(c.y)+wy, 0, h-1)
			for y := y0; y <= y1; y++ {
				row := y * w
				o := 3 * (row + x0)
				for x := x0; x <= x1; x++ {
					d := distSq(lab[o], lab[o+1], lab[o+2], float64(x), float64(y), c, wSpatial)
					if d < dist[row+x] {
						dist[row+x] = d
						labels[row+x] = int32(k)
					}
					o += 3
				}
			}
		}
		recomputeCenters(lab, w, h, labels, centers)
	}
	return labels
}

// recomputeCenters replaces each center with the mean (L,a,b,x,y) of its
// members. A center with no members keeps its previous position; it is
// effectively dead and gets dropped when labels are compacted.
func recomputeCenters(lab []float64, w, h int, labels []int32, centers []center) {
	sums := make([]center, len(centers))
	p := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			k := labels[p]
			if k != unset {
				o := 3 * p
				c := &sums[k]
				c.l += lab[o+0]
				c.a += lab[o+1]
				c.b += lab[o+2]
				c.x += float64(x)
				c.y += float64(y)
				c.n++
			}
			p++
		}
	}
	for k := range centers {
		if sums[k].n == 0 {
			continue
		}
		inv := 1.0 / float64(sums[k].n)
		centers[k] = center{
			l: sums[k].l * inv,
			a: sums[k].a * inv,
			b: sums[k].b * inv,
			x: sums[k].x * inv,
			y: sums[k].y * inv,
			n: sums[k].n,
		}
	}
}
