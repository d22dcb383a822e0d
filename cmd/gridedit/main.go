package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vsariola/notegrid"
	"github.com/vsariola/notegrid/config"
	"github.com/vsariola/notegrid/editor"
	"github.com/vsariola/notegrid/version"
	"gopkg.in/yaml.v3"
)

func main() {
	help := flag.Bool("h", false, "Show help.")
	configPath := flag.String("c", "", "Config file. By default, config.yml in the user config directory is used if it exists.")
	logLevel := flag.String("l", "", "Log level: debug, info, warn or error. Overrides the config.")
	dump := flag.Bool("m", false, "After editing, print the MIDI messages of one loop of the pattern.")
	noList := flag.Bool("q", false, "Do not print the pattern listing.")
	color := flag.Bool("color", false, "Color the pattern listing if the terminal supports it.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	level, err := cfg.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	out := output{w: os.Stdout, list: !*noList, dump: *dump}
	if *color {
		out.colors = newPalette(os.Stdout)
	}
	retval := 0
	for _, filename := range flag.Args() {
		if err := process(cfg, logger, filename, out); err != nil {
			logger.Error("could not process script", "file", filename, "error", err)
			retval = 1
		}
	}
	os.Exit(retval)
}

// output selects what process does with the edited pattern.
type output struct {
	w          io.Writer
	list, dump bool
	colors     palette
}

func process(cfg *config.Config, logger *slog.Logger, filename string, out output) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("could not read file: %w", err)
	}
	var s script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("could not unmarshal script: %w", err)
	}
	pattern := cfg.NewPattern()
	if s.Name != "" {
		pattern.Name = s.Name
	} else {
		pattern.Name = filepath.Base(filename)
	}
	if s.Length > 0 {
		pattern.Length = s.Length
	}
	gate := notegrid.NewGate(pattern)
	opts := append(cfg.EditorOptions(), editor.WithLogger(logger.With("file", filename)))
	ed := editor.New(gate, opts...)
	r := runner{editor: ed, logger: logger}
	for i, st := range s.Steps {
		if err := r.run(st); err != nil {
			if !st.MayFail {
				return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
			}
			logger.Info("step failed", "step", i+1, "op", st.Op, "error", err)
		}
	}
	if out.list {
		if err := printListing(out.w, ed, out.colors); err != nil {
			return err
		}
	}
	if out.dump {
		if err := dumpMIDI(context.Background(), out.w, cfg, gate, logger); err != nil {
			return err
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Note grid editor. Applies YAML edit scripts to an empty pattern and prints the result.\nUsage: %s [flags] [script1.yml] [script2.yml] ...\n", os.Args[0])
	flag.PrintDefaults()
}
