package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: danfe [flags] <file.xml> [custom-name]")
	fmt.Fprintln(w, "       danfe <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  doctor     Check that Chrome and the environment are ready")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'danfe --help' for conversion flags.")
}

// printConvertUsage prints usage for the default conversion command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: danfe [flags] <file.xml> [custom-name]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an NF-e (model 55) XML file into a DANFE PDF written next to it.")
	fmt.Fprintln(w, "Prints SUCCESS:<path> on success or ERROR:<message> on failure.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  file.xml       NF-e document")
	fmt.Fprintln(w, "  custom-name    Output base name; a trailing .pdf is stripped")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "      --suffix <s>          Suffix after the XML name (default \"_DANFE\")")
	fmt.Fprintln(w, "      --no-suffix           Name the PDF exactly like the XML")
	fmt.Fprintln(w, "      --html                Write the DANFE page as HTML, skip PDF")
	fmt.Fprintln(w, "  -w, --watch               Regenerate whenever the XML changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Lot data:")
	fmt.Fprintln(w, "      --no-enrich           Do not append lot data to descriptions")
	fmt.Fprintln(w, "      --trace-header <s>    Header line of the lot data block")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout (e.g. 30s, 1m)")
	fmt.Fprintln(w, "      --margin <f>          Page margin in inches (0-1.5)")
	fmt.Fprintln(w, "      --style <s>           CSS style name or file path")
	fmt.Fprintln(w, "      --asset-path <dir>    Directory overriding embedded assets")
	fmt.Fprintln(w, "      --note <s>            Markdown note printed at the bottom")
	fmt.Fprintln(w, "      --date-format <s>     Timestamp format: tokens or preset")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MM, DD, HH, mm, ss")
	fmt.Fprintln(w, "                            Presets: br, br-time, iso, iso-time")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "General:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only log errors")
	fmt.Fprintln(w, "  -v, --verbose             Log each pipeline step")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  DANFE_CONFIG, DANFE_TIMEOUT, DANFE_STYLE, DANFE_SUFFIX, DANFE_NO_ENRICH")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN, ROD_NO_SANDBOX (browser)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ok, 2 usage, 3 I/O, 4 render, 5 invalid XML")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: danfe doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check Chrome, container/CI settings and the temp directory.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: danfe version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: danfe help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
