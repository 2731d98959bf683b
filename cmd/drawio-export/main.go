package main

import (
	"context"
	"fmt"
	"os"

	drawioexport "github.com/rbellek/go-drawio-export"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// run dispatches the top-level command and returns an exit code.
func run(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "export":
		return runExportCmd(args[1:], env)
	case "serve":
		return runServeCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(args[1:], env)
	case "completion":
		if err := runCompletion(args[1:], env); err != nil {
			fmt.Fprintln(env.Stderr, err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version":
		fmt.Fprintf(env.Stdout, "drawio-export %s\n", Version)
		return ExitSuccess
	case "help", "--help", "-h":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// setMaxProcs configures GOMAXPROCS for container CPU limits.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, env *Environment) {
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(env.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}
}

// runExportCmd executes the export command and returns an exit code.
func runExportCmd(args []string, env *Environment) int {
	flags, positional, err := parseExportFlags(args)
	if err != nil {
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)
	setMaxProcs(flags.common.verbose, env)

	cfg, err := resolveExportConfig(flags, loadEnvConfig())
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	if err := validateWorkers(cfg.Workers); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	opts, err := exporterOptions(cfg)
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	poolSize := drawioexport.ResolvePoolSize(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}

	pool := newExporterPool(poolSize, opts...)
	defer func() { _ = pool.Close() }()

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runExport(ctx, positional, flags, cfg, pool, env); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	return ExitSuccess
}

// runServeCmd executes the serve command and returns an exit code.
func runServeCmd(args []string, env *Environment) int {
	flags, err := parseServeFlags(args)
	if err != nil {
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)
	setMaxProcs(flags.common.verbose, env)

	cfg, err := resolveServeConfig(flags, loadEnvConfig())
	if err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runServe(ctx, flags, cfg, env); err != nil {
		printError(env.Stderr, err)
		return exitCodeFor(err)
	}

	return ExitSuccess
}
