package segment

// enforceConnectivity rewrites the label image so every surviving label is a
// single 4-connected component of at least minSize pixels, and compacts
// labels to 0..K'-1. It walks pixels in row-major order, flood-fills the
// component of each unvisited pixel, and either keeps it under a fresh
// compacted label or, when the component is undersized, absorbs it into the
// most recently encountered already-relabeled neighbor. The first component
// of the scan has no processed neighbor; it is renamed, never absorbed, so
// the pass always terminates with a full label image. Returns the final
// label count.
func enforceConnectivity(labels []int32, w, h, minSize int) int {
	n := w * h
	out := make([]int32, n)
	for i := range out {
		out[i] = unset
	}
	component := make([]int32, 0, minSize*4)
	var next int32

	for p := 0; p < n; p++ {
		if out[p] != unset {
			continue
		}
		lbl := labels[p]
		component = component[:0]
		component = append(component, int32(p))
		out[p] = next
		// adjacent is the most recently seen neighbor already relabeled to
		// a different component; the raster scan guarantees one exists for
		// every component except the first.
		adjacent := unset
		for i := 0; i < len(component); i++ {
			q := component[i]
			x := int(q) % w
			y := int(q) / w
			if x > 0 {
				growComponent(labels, out, &component, q-1, lbl, next, &adjacent)
			}
			if x < w-1 {
				growComponent(labels, out, &component, q+1, lbl, next, &adjacent)
			}
			if y > 0 {
				growComponent(labels, out, &component, q-int32(w), lbl, next, &adjacent)
			}
			if y < h-1 {
				growComponent(labels, out, &component, q+int32(w), lbl, next, &adjacent)
			}
		}
		if len(component) < minSize && adjacent != unset {
			for _, q := range component {
				out[q] = adjacent
			}
		} else {
			next++
		}
	}
	copy(labels, out)
	return int(next)
}

// growComponent claims q for the current component when it still carries the
// same solver label, or records it as the adjacency candidate when it was
// already relabeled to some other component.
func growComponent(labels, out []int32, component *[]int32, q, lbl, cur int32, adjacent *int32) {
	if out[q] == unset {
		if labels[q] == lbl {
			out[q] = cur
			*component = append(*component, q)
		}
		return
	}
	if out[q] != cur {
		*adjacent = out[q]
	}
}

// minComponentSize converts the configured fraction into a pixel threshold:
// floor(fraction*N/K), never below 1.
func minComponentSize(n, k int, fraction float64) int {
	size := int(fraction * float64(n) / float64(k))
	if size < 1 {
		size = 1
	}
	return size
}
