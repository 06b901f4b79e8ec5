package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/esimov/lowpoly"
	"github.com/esimov/lowpoly/utils"
	"github.com/logrusorgru/aurora"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const banner = `
┬  ┌─┐┬ ┬┌─┐┌─┐┬ ┬ ┬
│  │ ││││├─┘│ ││ └┬┘
┴─┘└─┘└┴┘┴  └─┘┴─┘┴ 

Low poly art generator from jittered grid triangulation.
    Version: %s

`

// Version indicates the current build version.
var Version string

const pipeName = "-"

// Supported input and output file extensions.
var (
	srcExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".tif", ".tiff"}
	dstExtensions = []string{".jpg", ".jpeg", ".png", ".svg"}
)

var (
	// Flags
	source      = flag.String("in", pipeName, "Source image, directory or URL")
	destination = flag.String("out", pipeName, "Destination image or directory")
	xCount      = flag.Int("x", lowpoly.DefaultXCount, "Number of grid columns")
	yCount      = flag.Int("y", lowpoly.DefaultYCount, "Number of grid rows")
	jitter      = flag.Float64("jitter", lowpoly.DefaultJitter, "Grid jitter as a fraction of a cell (0..1)")
	seed        = flag.Int64("seed", 0, "Random seed, 0 picks a time based one")
	maxDepth    = flag.Int("depth", lowpoly.MaxDepth, "Maximum nested legalization calls per repair")
	maxPasses   = flag.Int("passes", lowpoly.DefaultMaxPasses, "Maximum legalization sweeps")
	sampleSize  = flag.Int("sample", 512, "Longest side of the image the colors are averaged from, 0 for full size")
	wireframe   = flag.Int("wireframe", 0, "Wireframe mode (0: without stroke, 1: with stroke, 2: stroke only)")
	strokeWidth = flag.Float64("stroke", 1, "Wireframe stroke width")
	isSolid     = flag.Bool("solid", false, "Solid line color")
	grayscale   = flag.Bool("gray", false, "Convert to grayscale")
	noise       = flag.Int("noise", 0, "Noise factor")
	jsonOut     = flag.Bool("json", false, "Write the mesh and its colors as JSON next to the output")
	verify      = flag.Bool("verify", false, "Compare the mesh with the reference Delaunay triangulation")
	preview     = flag.Bool("preview", false, "Show the generated image in the terminal (iTerm2 only)")
	verbose     = flag.Bool("v", false, "Verbose diagnostics")
)

type job struct {
	in, out string
}

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, banner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if len(*source) == 0 || len(*destination) == 0 {
		log.Fatal("Usage: lowpoly -in input.jpg -out out.png")
	}

	p := &lowpoly.Processor{
		XCount:      *xCount,
		YCount:      *yCount,
		Jitter:      *jitter,
		Seed:        *seed,
		MaxDepth:    *maxDepth,
		MaxPasses:   *maxPasses,
		SampleSize:  *sampleSize,
		Grayscale:   *grayscale,
		Wireframe:   *wireframe,
		StrokeWidth: *strokeWidth,
		IsSolid:     *isSolid,
		Noise:       *noise,
	}
	var logger *zap.Logger
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			log.Fatalf("Unable to create logger: %v", err)
		}
		p.Logger = logger
	}
	if err := p.Validate(); err != nil {
		finish(logger, nil)
		log.Fatalf("Invalid options: %v", err)
	}

	jobs, cleanup, err := collectJobs(*source, *destination)
	if err != nil {
		finish(logger, nil)
		log.Fatal(err)
	}

	failed := 0
	for _, j := range jobs {
		if err := run(p, j); err != nil {
			failed++
			log.Printf("%s %v", aurora.Red("Error converting image:"), err)
		}
	}
	finish(logger, cleanup)
	if failed > 0 {
		os.Exit(1)
	}
}

// finish removes the temporary files and flushes the logger. It runs before
// every exit, since os.Exit and log.Fatal skip deferred calls.
func finish(logger *zap.Logger, cleanup func()) {
	if cleanup != nil {
		cleanup()
	}
	if logger != nil {
		logger.Sync()
	}
}

// collectJobs resolves the source and destination flags into a list of
// conversions. The returned cleanup removes downloaded files.
func collectJobs(src, dst string) ([]job, func(), error) {
	noop := func() {}

	if src == pipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, noop, errors.New("`-` should be used with a pipe for stdin")
		}
		return []job{{in: src, out: dst}}, noop, nil
	}

	if utils.IsURL(src) {
		f, err := utils.DownloadImage(src)
		if err != nil {
			return nil, noop, err
		}
		f.Close()
		return []job{{in: f.Name(), out: dst}}, func() { os.Remove(f.Name()) }, nil
	}

	fs, err := os.Stat(src)
	if err != nil {
		return nil, noop, errors.Wrap(err, "unable to open source")
	}
	if fs.Mode().IsRegular() {
		return []job{{in: src, out: dst}}, noop, nil
	}

	// Batch mode: every supported image of the source directory is converted
	// into the destination directory.
	if dst == pipeName {
		return nil, noop, errors.New("please specify a directory as destination")
	}
	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, noop, errors.Wrap(err, "unable to create destination directory")
	}
	files, err := os.ReadDir(src)
	if err != nil {
		return nil, noop, errors.Wrap(err, "unable to read dir")
	}

	var jobs []job
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if f.IsDir() || !inSlice(ext, srcExtensions) {
			continue
		}
		name := strings.TrimSuffix(f.Name(), filepath.Ext(f.Name()))
		jobs = append(jobs, job{
			in:  filepath.Join(src, f.Name()),
			out: filepath.Join(dst, name+".png"),
		})
	}
	return jobs, noop, nil
}

// run converts a single image.
func run(p *lowpoly.Processor, j job) error {
	drawer, err := newDrawer(p, j.out)
	if err != nil {
		return err
	}

	var r io.Reader = os.Stdin
	if j.in != pipeName {
		f, err := os.Open(j.in)
		if err != nil {
			return errors.Wrap(err, "unable to open source file")
		}
		defer f.Close()
		r = f
	}

	var w io.Writer = os.Stdout
	if j.out == pipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("`-` should be used with a pipe for stdout")
		}
	} else {
		f, err := os.Create(j.out)
		if err != nil {
			return errors.Wrap(err, "unable to create output file")
		}
		defer f.Close()
		w = f
	}

	s := utils.NewSpinner(os.Stderr, "Generating low poly image...", 100*time.Millisecond)
	s.Start()
	start := time.Now()
	res, err := p.Process(r, w, drawer)
	if err != nil {
		s.Stop(fmt.Sprintf("Generating low poly image... %s", aurora.Red("failed ✗")))
		return errors.Wrap(err, j.in)
	}
	s.Stop(fmt.Sprintf("Generating low poly image... %s", aurora.Green("done ✔")))

	summary(res, j.out, time.Since(start))

	if *jsonOut {
		if err := writeJSON(res, j.out); err != nil {
			return err
		}
	}
	if *verify {
		v, err := lowpoly.Verify(res.Mesh)
		if err != nil {
			return errors.Wrap(err, "verification")
		}
		log.Printf("Delaunay agreement: %s (%d of %d triangles, reference has %d)",
			aurora.Green(fmt.Sprintf("%.2f%%", v.Agreement()*100)), v.Matching, v.Triangles, v.Reference)
	}
	if *preview && j.out != pipeName && filepath.Ext(j.out) != ".svg" &&
		term.IsTerminal(int(os.Stdout.Fd())) {
		imgcat.CatFile(j.out, os.Stdout)
	}
	return nil
}

// newDrawer picks the renderer from the output file extension.
func newDrawer(p *lowpoly.Processor, out string) (lowpoly.Drawer, error) {
	ext := strings.ToLower(filepath.Ext(out))
	if out == pipeName {
		ext = ".png"
	}
	if !inSlice(ext, dstExtensions) {
		return nil, errors.Errorf("output file type not supported: %v", ext)
	}
	if ext == ".svg" {
		return &lowpoly.SVG{
			Title:       "Low poly image",
			Description: "Jittered grid triangulation",
			Processor:   *p,
		}, nil
	}
	return &lowpoly.Image{Processor: *p, Format: strings.TrimPrefix(ext, ".")}, nil
}

func writeJSON(res *lowpoly.Result, out string) error {
	name := "lowpoly.json"
	if out != pipeName {
		name = strings.TrimSuffix(out, filepath.Ext(out)) + ".json"
	}
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "could not create the json file")
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(res.Export()); err != nil {
		return errors.Wrap(err, "error encoding the json file")
	}
	return nil
}

func summary(res *lowpoly.Result, out string, elapsed time.Duration) {
	d := res.Diagnostics
	log.Printf("Generated in: %s", aurora.Green(utils.FormatTime(elapsed)))
	log.Printf("Total number of %s triangles generated out of %s points",
		aurora.Green(res.Mesh.Len()), aurora.Green(len(res.Mesh.Points)))
	if d.Build.Degenerate+d.Build.Coincident+d.Build.Orphans > 0 {
		log.Printf("Skipped: %d degenerate, %d coincident, %d orphan points",
			d.Build.Degenerate, d.Build.Coincident, d.Build.Orphans)
	}
	if !d.Legalize.Converged {
		log.Printf("%s after %d passes, %d edges left unresolved",
			aurora.Yellow("Legalization stopped"), d.Legalize.Passes, d.Legalize.Unresolved)
	}
	if out != pipeName {
		log.Printf("Saved as: %s %s", filepath.Base(out), aurora.Green("✓"))
	}
}

func inSlice(item string, slice []string) bool {
	for _, it := range slice {
		if it == item {
			return true
		}
	}
	return false
}
