// Command superpix segments an image into superpixels with SLIC or SNIC and
// writes a mean-color reconstruction and/or a contour overlay.
//
// Usage:
//
//	superpix -i photo.jpg -k 1000 -m 10
//	superpix -i photo.png -a slic -iterations 10 -segments -segment-color f00
//	superpix -i photo.png -no-mean -o boundaries.png
package main

import (
	"os"

	"github.com/Fepozopo/superpix/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
