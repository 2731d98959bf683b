package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export      Export diagram files to PNG or PDF")
	fmt.Fprintln(w, "  serve       Run the HTTP export server")
	fmt.Fprintln(w, "  doctor      Diagnose browser and cache setup")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'drawio-export help <command>' for details on a specific command.")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export export <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export diagram files to PNG or PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Diagram file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -f, --format <s>     Output format: png, pdf, cat-pdf (default: png)")
	fmt.Fprintln(w, "  -o, --output <path>  Output file or directory")
	fmt.Fprintln(w, "      --input-dir <d>  Directory to scan for diagram files")
	fmt.Fprintln(w, "      --output-dir <d> Directory for rendered artifacts")
	fmt.Fprintln(w, "  -c, --config <name>  Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>    Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>    Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -s, --scale <f>      Resolution multiplier (0 = engine default)")
	fmt.Fprintln(w, "  -b, --border <n>     Padding around content in pixels")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet          Only show errors")
	fmt.Fprintln(w, "  -v, --verbose        Show detailed timing")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run an HTTP server that renders diagrams on POST /export.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -l, --listen <addr>  Listen address (default: :8000)")
	fmt.Fprintln(w, "  -c, --config <name>  Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>    Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>    Render timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "  -s, --scale <f>      Default resolution multiplier")
	fmt.Fprintln(w, "  -b, --border <n>     Default padding around content")
	fmt.Fprintln(w, "  -q, --quiet          Only show errors")
	fmt.Fprintln(w, "  -v, --verbose        Verbose request logging")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: drawio-export doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check browser availability, engine cache, and environment.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: drawio-export version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: drawio-export help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
