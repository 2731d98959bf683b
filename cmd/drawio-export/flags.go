package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds rendering parameters passed through to the engine.
type renderFlags struct {
	scale  float64
	border int
}

// exportFlags holds all flags for the export command.
type exportFlags struct {
	common    commonFlags
	format    string
	output    string
	inputDir  string
	outputDir string
	workers   int
	timeout   string
	render    renderFlags
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	listen  string
	workers int
	timeout string
	render  renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds rendering parameter flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.Float64VarP(&f.scale, "scale", "s", 0, "resolution multiplier (0 = engine default)")
	fs.IntVarP(&f.border, "border", "b", 0, "padding around content in pixels")
}

// parseExportFlags parses export command flags and returns positional args.
func parseExportFlags(args []string) (*exportFlags, []string, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	f := &exportFlags{}

	fs.StringVarP(&f.format, "format", "f", "", "output format: png, pdf, cat-pdf")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVar(&f.inputDir, "input-dir", "", "directory to scan for diagram files")
	fs.StringVar(&f.outputDir, "output-dir", "", "directory for rendered artifacts")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printExportUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.listen, "listen", "l", "", "listen address (host:port)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printServeUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return f, nil
}
