package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	drawioexport "github.com/rbellek/go-drawio-export"
	"github.com/rbellek/go-drawio-export/internal/config"
	"github.com/rbellek/go-drawio-export/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrReadDiagram        = errors.New("failed to read diagram file")
	ErrWriteOutput        = errors.New("failed to write output file")
	ErrInvalidExtension   = errors.New("file must have .drawio or .xml extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidTimeout     = errors.New("invalid timeout")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// FileToExport represents a single diagram file to process.
type FileToExport struct {
	InputPath  string
	OutputPath string
}

// ExportResult holds the outcome of a single export.
type ExportResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// exportParams groups render parameters shared across the batch.
type exportParams struct {
	format string
	scale  float64
	border int
}

// resolveExportConfig builds the effective configuration for an export run.
// Precedence: CLI flags > environment variables > config file > defaults.
func resolveExportConfig(flags *exportFlags, envCfg *envConfig) (*config.Config, error) {
	cfg := &config.Config{}

	configPath := flags.common.config
	if configPath == "" {
		configPath = envCfg.ConfigPath
	}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(envCfg, cfg)

	// CLI flags win
	if flags.format != "" {
		cfg.Format = flags.format
	}
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.render.scale > 0 {
		cfg.Scale = flags.render.scale
	}
	if flags.render.border > 0 {
		cfg.Border = flags.render.border
	}
	if flags.inputDir != "" {
		cfg.Input.DefaultDir = flags.inputDir
	}
	if flags.outputDir != "" {
		cfg.Output.DefaultDir = flags.outputDir
	}

	if cfg.Format == "" {
		cfg.Format = "png"
	}

	return cfg, nil
}

// exporterOptions translates resolved config into library options.
func exporterOptions(cfg *config.Config) ([]drawioexport.Option, error) {
	var opts []drawioexport.Option

	timeout, err := resolveTimeout(cfg.Timeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, drawioexport.WithTimeout(timeout))
	}
	if cfg.Cache.Dir != "" {
		opts = append(opts, drawioexport.WithCacheDir(cfg.Cache.Dir))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, drawioexport.WithBrowserBin(cfg.Browser.Bin))
	}

	return opts, nil
}

// resolveTimeout parses a duration string, treating empty as unset.
func resolveTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, s)
	}
	return d, nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > drawioexport.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, drawioexport.MaxPoolSize)
	}
	return nil
}

// runExport orchestrates the export process.
func runExport(ctx context.Context, positionalArgs []string, flags *exportFlags, cfg *config.Config, pool Pool, env *Environment) error {
	// Validate the format directive before touching any file or browser
	format, err := drawioexport.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPath, outputDir, format.Kind)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no diagram files found in %s", inputPath)
	}

	params := &exportParams{
		format: cfg.Format,
		scale:  cfg.Scale,
		border: cfg.Border,
	}

	results := exportBatch(ctx, pool, files, params)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount > 0 {
		return fmt.Errorf("%d export(s) failed", failedCount)
	}

	return nil
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// exportBatch processes files concurrently using the exporter pool.
func exportBatch(ctx context.Context, pool Pool, files []FileToExport, params *exportParams) []ExportResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ExportResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			exp, err := pool.Acquire()
			if err != nil {
				for idx := range jobs {
					results[idx] = ExportResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(exp)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ExportResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = exportFile(ctx, exp, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// exportFile processes a single file and returns the result.
func exportFile(ctx context.Context, renderer Renderer, f FileToExport, params *exportParams) ExportResult {
	start := time.Now()
	result := ExportResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadDiagram, err)
		result.Duration = time.Since(start)
		return result
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		result.Err = fmt.Errorf("creating output directory: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	artifact, err := renderer.Render(ctx, drawioexport.Request{
		XML:    string(content),
		Format: params.format,
		Scale:  params.scale,
		Border: params.border,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	// #nosec G306 -- exported artifacts are meant to be readable
	if err := os.WriteFile(f.OutputPath, artifact, filePermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrWriteOutput, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// printResultsWithWriter outputs export results using the provided writers.
func printResultsWithWriter(results []ExportResult, quiet, verbose bool, env *Environment) int {
	var succeeded, failed int

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		succeeded++
		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", succeeded, failed)
	}

	return failed
}

// printError writes an error with any applicable hint appended.
func printError(w io.Writer, err error) {
	msg := err.Error()

	switch {
	case errors.Is(err, drawioexport.ErrBrowserConnect):
		msg += hints.ForBrowserConnect()
	case errors.Is(err, drawioexport.ErrCacheFetch):
		msg += hints.ForCacheFetch()
	case errors.Is(err, drawioexport.ErrInvalidFormat),
		errors.Is(err, drawioexport.ErrUnsupportedFormat):
		msg += hints.ForInvalidFormat()
	case errors.Is(err, context.DeadlineExceeded):
		msg += hints.ForTimeout()
	case errors.Is(err, ErrWriteOutput):
		msg += hints.ForOutputDirectory()
	}

	fmt.Fprintln(w, msg)
}
