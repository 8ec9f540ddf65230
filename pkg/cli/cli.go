package cli

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/Fepozopo/superpix/pkg/segment"
)

// Version is the build version, overridable at link time with
// -ldflags "-X github.com/Fepozopo/superpix/pkg/cli.Version=x.y.z".
var Version = "0.1.0"

// Options is the fully parsed command line.
type Options struct {
	Input        string
	Output       string
	Config       segment.Config
	DrawSegments bool
	SegmentColor string
	NoMean       bool
	ShowVersion  bool
	RunUpdate    bool
}

// ParseArgs parses the command line (without the program name) into Options.
// Defaults come from the environment (see LoadEnvDefaults) so a .env file can
// preconfigure the tool; explicit flags always win.
func ParseArgs(args []string) (*Options, error) {
	opts := &Options{Config: ConfigFromEnv()}

	fs := flag.NewFlagSet("superpix", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: superpix -i <input> [options]

Segment an image into superpixels and write the mean-color and/or contour image.

Options:
`)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.Input, "i", "", "input image (png, jpeg, or webp)")
	fs.StringVar(&opts.Output, "o", "", "output image (default: <input>_superpix.png; format by extension)")
	algorithm := fs.String("a", string(opts.Config.Algorithm), "algorithm: snic or slic")
	fs.IntVar(&opts.Config.Count, "k", opts.Config.Count, "requested superpixel count")
	fs.IntVar(&opts.Config.Count, "n", opts.Config.Count, "alias for -k")
	fs.IntVar(&opts.Config.Compactness, "m", opts.Config.Compactness, "compactness, 1..20; higher = rounder regions")
	fs.IntVar(&opts.Config.Iterations, "iterations", opts.Config.Iterations, "iteration count (slic only)")
	fs.BoolVar(&opts.DrawSegments, "segments", false, "draw superpixel contours")
	fs.StringVar(&opts.SegmentColor, "segment-color", envOr("SUPERPIX_SEGMENT_COLOR", "000"), "contour color as 3- or 6-digit RGB hex")
	fs.BoolVar(&opts.NoMean, "no-mean", false, "skip the mean-color image (implies -segments)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "print version and exit")
	fs.BoolVar(&opts.RunUpdate, "update", false, "check for a newer release and self-update")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.Config.Algorithm = segment.Algorithm(*algorithm)
	if opts.NoMean {
		opts.DrawSegments = true
	}
	if opts.ShowVersion || opts.RunUpdate {
		return opts, nil
	}
	if opts.Input == "" {
		fs.Usage()
		return nil, errors.New("missing required flag -i")
	}
	if opts.Output == "" {
		opts.Output = DeriveOutputPath(opts.Input)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseSegmentColor(opts.SegmentColor); err != nil {
		return nil, err
	}
	return opts, nil
}

// Run is the CLI entry point. It returns the process exit code.
func Run(args []string) int {
	LoadEnvDefaults()

	opts, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "superpix: %v\n", err)
		return 1
	}
	if opts.ShowVersion {
		fmt.Printf("superpix %s\n", Version)
		return 0
	}
	if opts.RunUpdate {
		if err := CheckForUpdates(); err != nil {
			fmt.Fprintf(os.Stderr, "superpix: %v\n", err)
			return 1
		}
		return 0
	}

	img, format, err := LoadImage(opts.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "superpix: %v\n", err)
		return 1
	}
	fmt.Printf("Loaded %s (%s, %dx%d)\n", opts.Input, format, img.Bounds().Dx(), img.Bounds().Dy())

	res, err := segment.Segment(img, opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "superpix: %v\n", err)
		return 1
	}
	fmt.Printf("Segmented into %d superpixels (%s)\n", res.Count, opts.Config.Algorithm)

	var out *image.NRGBA
	if opts.NoMean {
		out = segment.ToNRGBA(img)
	} else {
		out = res.MeanImage()
	}
	if opts.DrawSegments {
		col, _ := ParseSegmentColor(opts.SegmentColor)
		out = res.OverlayContours(out, col)
	}

	if err := SaveImage(opts.Output, out); err != nil {
		fmt.Fprintf(os.Stderr, "superpix: failed to write %s: %v\n", opts.Output, err)
		return 1
	}
	fmt.Printf("Saved to %s\n", opts.Output)
	return 0
}
