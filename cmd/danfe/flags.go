package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// outputFlags holds output naming and mode flags.
type outputFlags struct {
	suffix    string
	suffixSet bool
	noSuffix  bool
	html      bool // write the DANFE page as HTML instead of PDF
}

// renderFlags holds page rendering flags.
type renderFlags struct {
	timeout         string
	margin          float64
	marginSet       bool
	style           string
	assetPath       string
	note            string
	timestampFormat string
}

// enrichFlags holds trace enrichment flags.
type enrichFlags struct {
	disabled bool
	header   string
}

// convertFlags holds all flags for the default convert command.
type convertFlags struct {
	common commonFlags
	output outputFlags
	render renderFlags
	enrich enrichFlags
	watch  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log each pipeline step")
}

// addOutputFlags adds output flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVar(&f.suffix, "suffix", "", "suffix appended to the XML name (default \"_DANFE\")")
	fs.BoolVar(&f.noSuffix, "no-suffix", false, "name the PDF exactly like the XML")
	fs.BoolVar(&f.html, "html", false, "write the DANFE page as HTML, skip PDF")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g. 30s, 1m)")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0-1.5)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles and templates")
	fs.StringVar(&f.note, "note", "", "Markdown note printed at the bottom of the DANFE")
	fs.StringVar(&f.timestampFormat, "date-format", "", "timestamp format (tokens or preset: br, br-time, iso, iso-time)")
}

// addEnrichFlags adds enrichment flags to a FlagSet.
func addEnrichFlags(fs *flag.FlagSet, f *enrichFlags) {
	fs.BoolVar(&f.disabled, "no-enrich", false, "do not append lot data to product descriptions")
	fs.StringVar(&f.header, "trace-header", "", "header line of the lot data block")
}

// buildConvertFlagSet registers every convert flag on a fresh FlagSet.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("danfe", flag.ContinueOnError)
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addRenderFlags(fs, &f.render)
	addEnrichFlags(fs, &f.enrich)
	fs.BoolVarP(&f.watch, "watch", "w", false, "regenerate whenever the XML changes")
	return fs
}

// parseConvertFlags parses args (without the program name).
// pflag diagnostics go to stderr; the returned error wraps ErrUsage unless
// it is flag.ErrHelp.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	f.output.suffixSet = fs.Changed("suffix")
	f.render.marginSet = fs.Changed("margin")
	return f, fs.Args(), nil
}
