package main

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = fmt.Errorf("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagFloat
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	TakesFiles  bool   // accepts file arguments
	FilePattern string // glob for file arguments (e.g., "*.drawio")
}

// completionMeta holds completion-specific metadata for flags.
// This is the ONLY place where completion hints are defined.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // enum values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	// Enum flags
	"format": {Values: []string{"png", "pdf", "cat-pdf"}},

	// File flags with glob patterns
	"config": {FileGlob: "*.yaml,*.yml"},

	// Directory flags
	"output":     {IsDir: true},
	"input-dir":  {IsDir: true},
	"output-dir": {IsDir: true},
}

// buildExportFlagSet creates a FlagSet with all export command flags.
// This reuses the same flag registration as parseExportFlags.
func buildExportFlagSet() *flag.FlagSet {
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

	return fs
}

// buildServeFlagSet creates a FlagSet with all serve command flags.
func buildServeFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	f := &serveFlags{}

	fs.StringVarP(&f.listen, "listen", "l", "", "listen address (host:port)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	return fs
}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet.
// Enriches with completion metadata from flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		// Determine base type from pflag type
		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		case "float32", "float64":
			fd.Type = flagFloat
		default:
			fd.Type = flagString
		}

		// Enrich with completion metadata
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			if len(meta.Values) > 0 {
				fd.Type = flagEnum
				fd.Values = meta.Values
			} else if meta.FileGlob != "" {
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			} else if meta.IsDir {
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Flags are extracted from the actual FlagSets - single source of truth.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        "export",
			Desc:        "Export diagram files to PNG or PDF",
			Flags:       extractFlagsFromFlagSet(buildExportFlagSet()),
			TakesFiles:  true,
			FilePattern: "*.drawio,*.xml",
		},
		{
			Name:  "serve",
			Desc:  "Run the HTTP export server",
			Flags: extractFlagsFromFlagSet(buildServeFlagSet()),
		},
		{
			Name:  "doctor",
			Desc:  "Diagnose browser and cache setup",
			Flags: nil,
		},
		{
			Name:  "version",
			Desc:  "Show version information",
			Flags: nil,
		},
		{
			Name:  "help",
			Desc:  "Show help for a command",
			Flags: nil,
		},
		{
			Name:  "completion",
			Desc:  "Generate shell completion script",
			Flags: nil,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	case ShellPowerShell:
		return generatePowerShell(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	shell := Shell(args[0])
	return GenerateCompletion(env.Stdout, shell)
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: drawio-export completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(drawio-export completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(drawio-export completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    drawio-export completion fish > ~/.config/fish/completions/drawio-export.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    drawio-export completion powershell | Out-String | Invoke-Expression")
}

// flagSpellings returns all spellings of a flag (--long, -s).
func flagSpellings(f flagDef) []string {
	spellings := []string{"--" + f.Long}
	if f.Short != "" {
		spellings = append(spellings, "-"+f.Short)
	}
	return spellings
}

// generateBash writes a bash completion script.
func generateBash(w io.Writer) error {
	commands := getCommands()

	var names []string
	for _, c := range commands {
		names = append(names, c.Name)
	}

	fmt.Fprintln(w, "# bash completion for drawio-export")
	fmt.Fprintln(w, "_drawio_export() {")
	fmt.Fprintln(w, "    local cur prev words cword")
	fmt.Fprintln(w, "    _init_completion || return")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    local commands=%q\n", strings.Join(names, " "))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if [[ $cword -eq 1 ]]; then")
	fmt.Fprintln(w, "        COMPREPLY=($(compgen -W \"$commands\" -- \"$cur\"))")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case ${words[1]} in")

	for _, c := range commands {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(w, "    %s)\n", c.Name)

		// Value completion for enum flags
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			fmt.Fprintf(w, "        case $prev in %s)\n", strings.Join(flagSpellings(f), "|"))
			fmt.Fprintf(w, "            COMPREPLY=($(compgen -W %q -- \"$cur\")); return;;\n", strings.Join(f.Values, " "))
			fmt.Fprintln(w, "        esac")
		}

		var allFlags []string
		for _, f := range c.Flags {
			allFlags = append(allFlags, flagSpellings(f)...)
		}
		fmt.Fprintln(w, "        if [[ $cur == -* ]]; then")
		fmt.Fprintf(w, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(allFlags, " "))
		if c.TakesFiles {
			fmt.Fprintln(w, "        else")
			fmt.Fprintln(w, "            _filedir")
		}
		fmt.Fprintln(w, "        fi")
		fmt.Fprintln(w, "        ;;")
	}

	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "complete -F _drawio_export drawio-export")
	return nil
}

// generateZsh writes a zsh completion script.
func generateZsh(w io.Writer) error {
	commands := getCommands()

	fmt.Fprintln(w, "#compdef drawio-export")
	fmt.Fprintln(w, "_drawio_export() {")
	fmt.Fprintln(w, "    local -a commands")
	fmt.Fprintln(w, "    commands=(")
	for _, c := range commands {
		fmt.Fprintf(w, "        '%s:%s'\n", c.Name, c.Desc)
	}
	fmt.Fprintln(w, "    )")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    if (( CURRENT == 2 )); then")
	fmt.Fprintln(w, "        _describe 'command' commands")
	fmt.Fprintln(w, "        return")
	fmt.Fprintln(w, "    fi")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "    case $words[2] in")

	for _, c := range commands {
		if len(c.Flags) == 0 && !c.TakesFiles {
			continue
		}
		fmt.Fprintf(w, "    %s)\n", c.Name)
		fmt.Fprintln(w, "        _arguments \\")
		for _, f := range c.Flags {
			action := ""
			switch f.Type {
			case flagEnum:
				action = "(" + strings.Join(f.Values, " ") + ")"
			case flagFile:
				action = "_files"
			case flagDir:
				action = "_files -/"
			}
			desc := strings.ReplaceAll(f.Desc, "'", "")
			if f.Short != "" {
				fmt.Fprintf(w, "            '(-%s --%s)'{-%s,--%s}'[%s]:%s:%s' \\\n",
					f.Short, f.Long, f.Short, f.Long, desc, f.Long, action)
			} else {
				fmt.Fprintf(w, "            '--%s[%s]:%s:%s' \\\n", f.Long, desc, f.Long, action)
			}
		}
		if c.TakesFiles {
			fmt.Fprintln(w, "            '*:file:_files'")
		} else {
			fmt.Fprintln(w, "            ;")
		}
		fmt.Fprintln(w, "        ;;")
	}

	fmt.Fprintln(w, "    esac")
	fmt.Fprintln(w, "}")
	fmt.Fprintln(w, "_drawio_export \"$@\"")
	return nil
}

// generateFish writes a fish completion script.
func generateFish(w io.Writer) error {
	commands := getCommands()

	fmt.Fprintln(w, "# fish completion for drawio-export")
	for _, c := range commands {
		fmt.Fprintf(w, "complete -c drawio-export -n '__fish_use_subcommand' -a %s -d %q\n", c.Name, c.Desc)
	}

	for _, c := range commands {
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c drawio-export -n '__fish_seen_subcommand_from %s' -l %s", c.Name, f.Long)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			if f.Type == flagEnum {
				line += fmt.Sprintf(" -xa %q", strings.Join(f.Values, " "))
			} else if f.Type != flagBool {
				line += " -r"
			}
			line += fmt.Sprintf(" -d %q", f.Desc)
			fmt.Fprintln(w, line)
		}
	}
	return nil
}

// generatePowerShell writes a PowerShell completion script.
func generatePowerShell(w io.Writer) error {
	commands := getCommands()

	fmt.Fprintln(w, "Register-ArgumentCompleter -Native -CommandName drawio-export -ScriptBlock {")
	fmt.Fprintln(w, "    param($wordToComplete, $commandAst, $cursorPosition)")
	fmt.Fprintln(w, "    $tokens = $commandAst.CommandElements | ForEach-Object { $_.ToString() }")
	fmt.Fprintln(w, "    $completions = @()")
	fmt.Fprintln(w, "    if ($tokens.Count -le 2) {")
	var names []string
	for _, c := range commands {
		names = append(names, "'"+c.Name+"'")
	}
	fmt.Fprintf(w, "        $completions = @(%s)\n", strings.Join(names, ", "))
	fmt.Fprintln(w, "    } else {")
	fmt.Fprintln(w, "        switch ($tokens[1]) {")
	for _, c := range commands {
		if len(c.Flags) == 0 {
			continue
		}
		var allFlags []string
		for _, f := range c.Flags {
			for _, s := range flagSpellings(f) {
				allFlags = append(allFlags, "'"+s+"'")
			}
		}
		fmt.Fprintf(w, "            '%s' { $completions = @(%s) }\n", c.Name, strings.Join(allFlags, ", "))
	}
	fmt.Fprintln(w, "        }")
	fmt.Fprintln(w, "    }")
	fmt.Fprintln(w, "    $completions | Where-Object { $_ -like \"$wordToComplete*\" } |")
	fmt.Fprintln(w, "        ForEach-Object { [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_) }")
	fmt.Fprintln(w, "}")
	return nil
}
