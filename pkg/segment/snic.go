package segment

import "container/heap"

// snicItem is one candidate (pixel, center) pairing. seq breaks distance ties
// by insertion order so output is deterministic for deterministic input.
type snicItem struct {
	dist  float64
	seq   uint64
	pixel int32
	label int32
}

// snicQueue is a min-heap over (dist, seq).
type snicQueue []snicItem

func (q snicQueue) Len() int { return len(q) }
func (q snicQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].seq < q[j].seq
}
func (q snicQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *snicQueue) Push(x any) { *q = append(*q, x.(snicItem)) }

func (q *snicQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// runSNIC grows every region from its seed in a single pass. The queue holds
// candidate pairings; a pixel is labeled exactly once, at the moment its
// cheapest pairing is popped, and duplicates for already-labeled pixels are
// discarded on pop. Each pop folds the pixel into the center's running mean
// before the pixel's 4-connected neighbors are scored, so later joiners are
// measured against the region as it now is rather than the original seed.
func runSNIC(lab []float64, w, h int, centers []center, wSpatial float64) []int32 {
	n := w * h
	labels := make([]int32, n)
	for i := range labels {
		labels[i] = unset
	}

	q := make(snicQueue, 0, len(centers))
	var seq uint64
	for k := range centers {
		p := int32(int(centers[k].y)*w + int(centers[k].x))
		q = append(q, snicItem{dist: 0, seq: seq, pixel: p, label: int32(k)})
		seq++
		centers[k].n = 0
	}
	heap.Init(&q)

	for q.Len() > 0 {
		it := heap.Pop(&q).(snicItem)
		p := it.pixel
		if labels[p] != unset {
			continue
		}
		labels[p] = it.label

		c := &centers[it.label]
		x := int(p) % w
		y := int(p) / w
		o := 3 * int(p)
		c.n++
		inv := 1.0 / float64(c.n)
		c.l += (lab[o+0] - c.l) * inv
		c.a += (lab[o+1] - c.a) * inv
		c.b += (lab[o+2] - c.b) * inv
		c.x += (float64(x) - c.x) * inv
		c.y += (float64(y) - c.y) * inv

		if x > 0 && labels[p-1] == unset {
			pushNeighbor(&q, &seq, lab, p-1, x-1, y, it.label, c, wSpatial)
		}
		if x < w-1 && labels[p+1] == unset {
			pushNeighbor(&q, &seq, lab, p+1, x+1, y, it.label, c, wSpatial)
		}
		if y > 0 && labels[p-int32(w)] == unset {
			pushNeighbor(&q, &seq, lab, p-int32(w), x, y-1, it.label, c, wSpatial)
		}
		if y < h-1 && labels[p+int32(w)] == unset {
			pushNeighbor(&q, &seq, lab, p+int32(w), x, y+1, it.label, c, wSpatial)
		}
	}
	return labels
}

func pushNeighbor(q *snicQueue, seq *uint64, lab []float64, p int32, x, y int, label int32, c *center, wSpatial float64) {
	o := 3 * int(p)
	d := distSq(lab[o], lab[o+1], lab[o+2], float64(x), float64(y), c, wSpatial)
	heap.Push(q, snicItem{dist: d, seq: *seq, pixel: p, label: label})
	*seq++
}
