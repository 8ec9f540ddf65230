package segment

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

// absDiff8 returns |a-b| for two bytes.
func absDiff8(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d
}

// checkLabelRange fails the test if any label falls outside 0..count-1.
func checkLabelRange(t *testing.T, res *Result) {
	t.Helper()
	for p, lbl := range res.Labels {
		if lbl < 0 || int(lbl) >= res.Count {
			t.Fatalf("pixel %d has label %d outside 0..%d", p, lbl, res.Count-1)
		}
	}
}

// checkConnected fails the test if any label's pixel set is not 4-connected.
func checkConnected(t *testing.T, res *Result) {
	t.Helper()
	w, h := res.Width, res.Height
	seen := make([]bool, len(res.Labels))
	firstSeen := make([]bool, res.Count)
	stack := make([]int, 0, 64)
	for p := range res.Labels {
		if seen[p] {
			continue
		}
		lbl := res.Labels[p]
		if firstSeen[lbl] {
			t.Fatalf("label %d has more than one connected component", lbl)
		}
		firstSeen[lbl] = true
		stack = append(stack[:0], p)
		seen[p] = true
		for len(stack) > 0 {
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := q%w, q/w
			visit := func(nb int) {
				if !seen[nb] && res.Labels[nb] == lbl {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
			if x > 0 {
				visit(q - 1)
			}
			if x < w-1 {
				visit(q + 1)
			}
			if y > 0 {
				visit(q - w)
			}
			if y < h-1 {
				visit(q + w)
			}
		}
	}
}

func makeCheckerboard2x2() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c := red
			if (x+y)%2 == 1 {
				c = blue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

func TestSegmentCheckerboardSNIC(t *testing.T) {
	img := makeCheckerboard2x2()
	cfg := DefaultConfig()
	cfg.Count = 4
	res, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if res.Count != 4 {
		t.Fatalf("expected 4 superpixels, got %d", res.Count)
	}
	seenLbl := map[int32]bool{}
	for _, lbl := range res.Labels {
		if seenLbl[lbl] {
			t.Fatalf("label %d assigned to more than one pixel", lbl)
		}
		seenLbl[lbl] = true
	}
	// mean-color reconstruction of single-pixel superpixels is the input
	mean := res.MeanImage()
	for i := 0; i < len(img.Pix); i++ {
		if absDiff8(mean.Pix[i], img.Pix[i]) > 1 {
			t.Fatalf("mean image differs from input at byte %d: %d vs %d", i, mean.Pix[i], img.Pix[i])
		}
	}
}

func TestSegmentUniformGraySNIC(t *testing.T) {
	img := makeSolidNRGBA(100, 100, color.NRGBA{128, 128, 128, 255})
	cfg := DefaultConfig()
	cfg.Count = 100
	res, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if res.Count < 1 || res.Count > 100 {
		t.Fatalf("expected 1..100 superpixels, got %d", res.Count)
	}
	checkLabelRange(t, res)
	checkConnected(t, res)
	mean := res.MeanImage()
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			i := mean.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				if absDiff8(mean.Pix[i+c], 128) > 1 {
					t.Fatalf("mean color at (%d,%d) channel %d is %d, want 128 +/- 1", x, y, c, mean.Pix[i+c])
				}
			}
		}
	}
}

func TestSegmentTinyImageClampsCount(t *testing.T) {
	img := makeCheckerboard2x2()
	cfg := DefaultConfig()
	cfg.Count = 1000
	res, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if res.Count > 4 {
		t.Fatalf("realized count %d exceeds pixel count 4", res.Count)
	}
	checkLabelRange(t, res)
}

func makeNoise(w, h int, seed int64) *image.NRGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = uint8(rng.Intn(256))
		img.Pix[i+1] = uint8(rng.Intn(256))
		img.Pix[i+2] = uint8(rng.Intn(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestSegmentDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 16
	for _, alg := range []Algorithm{SNIC, SLIC} {
		cfg.Algorithm = alg
		a, err := Segment(makeNoise(64, 64, 7), cfg)
		if err != nil {
			t.Fatalf("%s: first run failed: %v", alg, err)
		}
		b, err := Segment(makeNoise(64, 64, 7), cfg)
		if err != nil {
			t.Fatalf("%s: second run failed: %v", alg, err)
		}
		if a.Count != b.Count {
			t.Fatalf("%s: counts differ: %d vs %d", alg, a.Count, b.Count)
		}
		for p := range a.Labels {
			if a.Labels[p] != b.Labels[p] {
				t.Fatalf("%s: label mismatch at pixel %d: %d vs %d", alg, p, a.Labels[p], b.Labels[p])
			}
		}
	}
}

func makeTwoRects(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	red := color.NRGBA{255, 0, 0, 255}
	blue := color.NRGBA{0, 0, 255, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := red
			if x >= w/2 {
				c = blue
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

func TestSegmentTwoRectanglesNoStraddle(t *testing.T) {
	img := makeTwoRects(200, 200)
	for _, alg := range []Algorithm{SNIC, SLIC} {
		cfg := DefaultConfig()
		cfg.Algorithm = alg
		cfg.Count = 50
		cfg.Compactness = 1
		res, err := Segment(img, cfg)
		if err != nil {
			t.Fatalf("%s: Segment failed: %v", alg, err)
		}
		checkLabelRange(t, res)
		checkConnected(t, res)
		// every label must lie entirely on one side of the color edge
		side := make([]int8, res.Count) // 0 unseen, 1 red, 2 blue
		p := 0
		for y := 0; y < 200; y++ {
			for x := 0; x < 200; x++ {
				s := int8(1)
				if x >= 100 {
					s = 2
				}
				lbl := res.Labels[p]
				if side[lbl] == 0 {
					side[lbl] = s
				} else if side[lbl] != s {
					t.Fatalf("%s: label %d straddles the color boundary at (%d,%d)", alg, lbl, x, y)
				}
				p++
			}
		}
	}
}

func TestSegmentConstantImageGridOnly(t *testing.T) {
	// a constant image must not produce any color-driven boundaries: the
	// component count stays at most the seed count and every component
	// remains compact
	img := makeSolidNRGBA(60, 60, color.NRGBA{30, 200, 90, 255})
	cfg := DefaultConfig()
	cfg.Count = 9
	res, err := Segment(img, cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if res.Count < 1 || res.Count > 9 {
		t.Fatalf("expected 1..9 labels, got %d", res.Count)
	}
	checkConnected(t, res)
}

func TestSegmentInvalidParameters(t *testing.T) {
	img := makeSolidNRGBA(10, 10, color.NRGBA{1, 2, 3, 255})
	cases := []Config{
		{Algorithm: SNIC, Count: 1, Compactness: 10, Iterations: 10, MinComponentFraction: 0.25},
		{Algorithm: SLIC, Count: 100, Compactness: 0, Iterations: 10, MinComponentFraction: 0.25},
		{Algorithm: SLIC, Count: 100, Compactness: 21, Iterations: 10, MinComponentFraction: 0.25},
		{Algorithm: "kmeans", Count: 100, Compactness: 10, Iterations: 10, MinComponentFraction: 0.25},
		{Algorithm: SLIC, Count: 100, Compactness: 10, Iterations: 0, MinComponentFraction: 0.25},
	}
	for i, cfg := range cases {
		if _, err := Segment(img, cfg); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if _, err := Segment(nil, DefaultConfig()); err == nil {
		t.Fatal("expected error for nil image")
	}
	if _, err := Segment(image.NewNRGBA(image.Rect(0, 0, 0, 0)), DefaultConfig()); err == nil {
		t.Fatal("expected error for empty image")
	}
}

func TestSegmentMinComponentSizeHolds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Count = 16
	res, err := Segment(makeNoise(64, 64, 3), cfg)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	minSize := minComponentSize(64*64, 16, cfg.MinComponentFraction)
	pops := make([]int, res.Count)
	for _, lbl := range res.Labels {
		pops[lbl]++
	}
	for lbl, n := range pops {
		if n == 0 {
			t.Fatalf("label %d has no pixels after compaction", lbl)
		}
		// the first-scanned component may be kept undersized when it has no
		// processed neighbor; everything else must meet the threshold
		if n < minSize && lbl != 0 {
			t.Fatalf("label %d has %d pixels, below minimum %d", lbl, n, minSize)
		}
	}
}
