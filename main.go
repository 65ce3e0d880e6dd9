package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/blackfinplus/sleighgen/config"
	"github.com/blackfinplus/sleighgen/internal/emit"
	"github.com/blackfinplus/sleighgen/internal/orchestrator"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion   = flag.Bool("version", false, "Show version information")
		showHelp      = flag.Bool("help", false, "Show help information")
		outdir        = flag.String("outdir", "", "Output directory for the generated SLEIGH spec tree (required)")
		registersPath = flag.String("registers", "", "Override path for the register-bank include file (default: embedded)")
		hwloopPath    = flag.String("hwloop", "", "Override path for the hardware-loop preamble (default: embedded)")
		verboseMode   = flag.Bool("verbose", false, "Print each file as it is written")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("sleighgen %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *outdir == "" {
		fmt.Fprintln(os.Stderr, "Error: -outdir is required")
		printHelp()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if *registersPath == "" {
		*registersPath = cfg.Assets.RegistersPath
	}
	if *hwloopPath == "" {
		*hwloopPath = cfg.Assets.HWLoopPath
	}
	verbose := *verboseMode || cfg.Display.Verbose

	if verbose {
		fmt.Printf("Generating SLEIGH spec tree in %s\n", *outdir)
	}

	families, reporter := orchestrator.Default().BuildChecked()
	for _, f := range families {
		f.Builder.SetAttachLineWidth(cfg.Render.RegistersPerAttachLine)
	}
	if verbose {
		fmt.Printf("Built %d instruction families\n", len(families))
		for _, w := range reporter.Warnings() {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
		}
	}
	if reporter.HasErrors() {
		for _, e := range reporter.Errors() {
			fmt.Fprintf(os.Stderr, "Error: %s\n", e.Error())
		}
		fmt.Fprintf(os.Stderr, "Error: %s, aborting\n", reporter.Summary())
		os.Exit(1)
	}

	opts := emit.Options{
		RegistersPath: *registersPath,
		HWLoopPath:    *hwloopPath,
		Verbose:       verbose,
	}
	progress := func(path string) {
		if verbose {
			fmt.Printf("wrote %s\n", path)
		}
	}

	if err := emit.Tree(*outdir, families, opts, progress); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Println("Done")
	}
}

func printHelp() {
	fmt.Printf(`sleighgen %s

Usage: sleighgen -outdir <dir> [options]

Options:
  -help              Show this help message
  -version           Show version information
  -outdir DIR        Output directory for the generated SLEIGH spec tree (required)
  -registers FILE    Override the embedded register-bank include file
  -hwloop FILE       Override the embedded hardware-loop preamble
  -verbose           Print each file as it is written
`, Version)
}
