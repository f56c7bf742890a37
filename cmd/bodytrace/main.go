package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/milk9111/bodybind/scenefile"
	"github.com/milk9111/bodybind/script"
	"github.com/milk9111/bodybind/trace"
)

type options struct {
	scene   string
	steps   int
	every   int
	flush   int
	scripts bool
}

func main() {
	sceneName := flag.String("scene", "default", "scene name in scenes/ (basename, .yaml optional)")
	sceneDir := flag.String("dir", scenefile.Dir, "directory checked for scene and script overrides")
	steps := flag.Int("steps", 600, "number of world steps to run")
	every := flag.Int("every", 1, "record one step in every n")
	outPath := flag.String("out", "-", "CSV output path, - for stdout")
	scripts := flag.Bool("scripts", true, "run body scripts before each step")
	flag.Parse()

	scenefile.Dir = *sceneDir

	stats, err := runTo(options{
		scene:   *sceneName,
		steps:   *steps,
		every:   *every,
		flush:   60,
		scripts: *scripts,
	}, *outPath)
	if err != nil {
		log.Fatalf("bodytrace: %v", err)
	}
	for _, s := range stats {
		log.Printf("bodytrace: %-10s samples=%d mean=%.2f std=%.2f max=%.2f awake=%.0f%%",
			s.Body, s.Samples, s.MeanSpeed, s.StdSpeed, s.MaxSpeed, s.AwakeFraction*100)
	}
}

// runTo runs opts with output going to path, or stdout for "-". The file is
// closed before returning and a failed close is reported like any other
// write error.
func runTo(opts options, path string) (stats []trace.BodyStats, err error) {
	if path == "-" {
		return run(opts, os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return run(opts, f)
}

// run steps the scene headless, streaming samples to out every flush steps.
func run(opts options, out io.Writer) ([]trace.BodyStats, error) {
	s, err := scenefile.LoadScene(opts.scene)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	s.World.SetRunning(true)

	runner := script.NewRunner(scenefile.LoadScript)
	if opts.scripts {
		if err := runner.AttachScene(s); err != nil {
			return nil, err
		}
	}

	rec := trace.NewRecorder(s.World, opts.every)
	defer rec.Stop()

	dt := s.World.TimeStep()
	for i := 1; i <= opts.steps; i++ {
		if err := runner.Update(dt); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		s.World.Step()
		if opts.flush > 0 && i%opts.flush == 0 {
			if err := rec.WriteCSV(out); err != nil {
				return nil, err
			}
		}
	}
	if err := rec.WriteCSV(out); err != nil {
		return nil, err
	}
	return trace.Summarize(rec.Samples()), nil
}
