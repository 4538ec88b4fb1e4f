package main

import (
	"bufio"
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/stormasm/nucommand/encoding/csv"
	"github.com/stormasm/nucommand/encoding/json"
	"github.com/stormasm/nucommand/encoding/msgpack"
	"github.com/stormasm/nucommand/internal/format"
	"github.com/stormasm/nucommand/stream"
	"github.com/stormasm/nucommand/transform"
	"github.com/stormasm/nucommand/value"
)

var strictSelect bool

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (see error handling at the bottom of main).
	signal.Ignore(syscall.SIGPIPE)

	// Display a stack trace on panic
	defer func() {
		if e := recover(); e != nil {
			fmt.Fprintf(os.Stderr, "%s: %s", e, debug.Stack())
		}
	}()

	// Parse the command line arguments
	var jsonIndent int
	var jsonCompact bool
	var outputFormat string
	var inputFormat string
	var colorizer *format.Colorizer
	var csvHeader string
	var colorMode string

	if isatty.IsTerminal(os.Stdout.Fd()) {
		colorizer = &defaultColorizer
	}

	flag.Usage = printUsage

	flag.IntVar(&jsonIndent, "json-indent", 2, "JSON indentation level (only used when -json-compact is false)")
	flag.BoolVar(&jsonCompact, "json-compact", false, "output JSON on a single line per value")
	flag.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flag.StringVar(&outputFormat, "out", "json", "output format: json, msgpack")
	flag.StringVar(&inputFormat, "in", "auto", "input format: auto, json, csv, csv-with-header, csvh, msgpack")
	flag.StringVar(&csvHeader, "csv-header", "", "comma-separated field names for CSV (only with -in csv)")
	flag.BoolVar(&strictSelect, "strict-select", false, "make select fail on missing columns instead of filling with nothing")

	flag.Parse()

	// Handle color mode
	switch colorMode {
	case "always":
		colorizer = &defaultColorizer
	case "never":
		colorizer = nil
	case "auto":
		// Already set based on isatty check above
	default:
		fatalError("invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	// Set up stdout for handling colors
	var stdout io.Writer = os.Stdout
	if colorizer != nil {
		stdout = colorable.NewColorableStdout()
	}

	// Read from stdin
	var input io.Reader = os.Stdin

	// Choose the input decoder
	if inputFormat == "auto" {
		var start = make([]byte, 40)
		n, err := input.Read(start)
		if err == io.EOF {
			fatalError("unable to guess format of empty input")
		}
		if err != nil {
			fatalError("unable to read input: %s", err)
		}
		start = start[:n]
		inputFormat = guessFormat(start)
		if inputFormat == "" {
			fatalError("unable to guess input format, please specify -in FORMAT")
		}
		input = io.MultiReader(bytes.NewReader(start[:n]), input)
	}

	// Validate CSV options
	if csvHeader != "" && (inputFormat == "csv-with-header" || inputFormat == "csvh") {
		fatalError("-csv-header cannot be used with -in csv-with-header (header row already in input)")
	}

	var decoder stream.Source

	switch inputFormat {
	case "json":
		jsonDecoder := json.NewDecoder(input)
		jsonDecoder.SetAnchor("stdin")
		decoder = jsonDecoder
	case "csv":
		csvDecoder := csv.NewDecoder(input)
		csvDecoder.SetAnchor("stdin")
		if csvHeader != "" {
			csvDecoder.SetFieldNames(strings.Split(csvHeader, ","))
			csvDecoder.RecordsProduceObjects = true
		}
		decoder = csvDecoder
	case "csv-with-header", "csvh":
		csvDecoder := csv.NewDecoder(input)
		csvDecoder.SetAnchor("stdin")
		csvDecoder.HasHeader = true
		csvDecoder.RecordsProduceObjects = true
		decoder = csvDecoder
	case "msgpack":
		msgpackDecoder := msgpack.NewDecoder(input)
		msgpackDecoder.SetAnchor("stdin")
		decoder = msgpackDecoder
	default:
		fatalError("invalid input format: %q", inputFormat)
	}

	// Start decoding the input
	values := stream.StartStream(
		decoder,
		func(err error) {
			fmt.Fprintf(os.Stderr, "error while decoding: %s\n", err)
		},
	)

	// Parse operators and apply them sequentially
	for _, arg := range flag.Args() {
		operator, err := parseOperator(arg)
		if err != nil {
			fatalError("error: %s", err)
		}
		values = stream.TransformStream(values, operator, func(err error) {
			fmt.Fprintf(os.Stderr, "error in %q: %s\n", arg, err)
		})
	}

	// Write the output stream to stdout
	out := bufio.NewWriter(stdout)
	defer out.Flush()

	var encoder stream.Sink
	switch outputFormat {
	case "json":
		indentSize := jsonIndent
		if jsonCompact {
			indentSize = -1
		}
		printer := &format.DefaultPrinter{
			Writer:     out,
			IndentSize: indentSize,
		}
		// If we are writing to a terminal, flush after each value so user
		// gets feedback early.
		if isatty.IsTerminal(os.Stdout.Fd()) {
			printer.Flusher = out
		}
		encoder = &json.Encoder{
			Printer:   printer,
			Colorizer: colorizer,
		}
	case "msgpack":
		encoder = msgpack.NewEncoder(out)
	default:
		fatalError("invalid output format: %q", outputFormat)
	}

	err := stream.ConsumeStream(values, encoder)
	if err != nil {
		if errors.Is(err, syscall.EPIPE) {
			// stdout is a pipe and something closed it (e.g. 'head' or 'less').
			// In this case we don't want to complain.
			return
		}
		fatalError("error: %s", err)
	}
}

func parseOperator(arg string) (stream.Transformer, error) {
	if arg == "flatten" {
		return transform.Flatten{}, nil
	}
	if arg == "collect" {
		return transform.Collect{Tag: value.NewTag(value.Span{}, "collect")}, nil
	}
	if arg == "trace" {
		return transform.Trace{}, nil
	}
	if cols, ok := strings.CutPrefix(arg, "select="); ok {
		var paths []value.ColumnPath
		for _, col := range strings.Split(cols, ",") {
			path, err := value.ParsePath(col)
			if err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
		opts := []transform.SelectOption{
			transform.WithTag(value.NewTag(value.Span{}, "select")),
		}
		if strictSelect {
			opts = append(opts, transform.WithMissingColumnPolicy(transform.FailOnMissing))
		}
		return transform.NewSelect(paths, opts...)
	}
	if col, ok := strings.CutPrefix(arg, "get="); ok {
		path, err := value.ParsePath(col)
		if err != nil {
			return nil, err
		}
		return transform.NewGet(path)
	}
	return nil, fmt.Errorf("invalid operator %q", arg)
}

type FormatGuesser struct {
	pattern *regexp.Regexp
	format  string
}

func formatGuesser(format string, pattern string) FormatGuesser {
	return FormatGuesser{
		pattern: regexp.MustCompile(pattern),
		format:  format,
	}
}

var formatGuessers = []FormatGuesser{
	formatGuesser("json", `^[{[]`),
	formatGuesser("csv-with-header", `^[a-zA-Z][a-zA-Z_0-9-]*(,[a-zA-Z][a-zA-Z_0-9-]*)+(\n|,?$)`),
	formatGuesser("csv", `^([^,"\n]*|("[^"]*"))(,[^,"\n]*|,("[^"]*"))+(\n|,?$)`),
}

func guessFormat(start []byte) string {
	// MessagePack map/array headers are not valid UTF-8 text starts.
	if len(start) > 0 && start[0] >= 0x80 {
		return "msgpack"
	}
	for _, guesser := range formatGuessers {
		if guesser.pattern.Match(start) {
			return guesser.format
		}
	}
	return ""
}

func fatalError(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Yellow = []byte("\033[33m")
	Green  = []byte("\033[32m")
	White  = []byte("\033[37m")

	DimWhite   = []byte("\033[37;2m")
	BrightBlue = []byte("\033[34;1m")
)

// Scalar colors are indexed by value kind: nothing, bool, int, decimal,
// string.
var defaultColorizer = format.Colorizer{
	ScalarColorCodes: [5][]byte{DimWhite, Yellow, White, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}

func printUsage() {
	fmt.Fprint(os.Stderr, `nuq - streaming structured-data processor

USAGE:
  nuq [options] [operators...] < input.json

DESCRIPTION:
  nuq reads a stream of structured values (records, tables, scalars),
  applies the given operators in order, and writes the result.

  Input is read from stdin. Use shell redirection to read from files:
    nuq < file.json
    cat file.csv | nuq -in csv-with-header

INPUT/OUTPUT:
  -in FORMAT        Input format (default: auto)
                    Formats: json, csv, csv-with-header (or csvh), msgpack
  -out FORMAT       Output format (default: json)
                    Formats: json, msgpack
  -csv-header NAMES Comma-separated field names for CSV input
                    Only valid with '-in csv'

JSON OUTPUT OPTIONS:
  -json-compact     Output each value on a single line
  -json-indent N    Indentation level (default: 2, only used when not compact)

COLOR OPTIONS:
  -color MODE       Control color output (default: auto)
                    Modes: auto, always, never

OPERATORS:
  Operators are applied sequentially to the value stream.

  select=COL[,COL...]  Down-select records to only these columns.
                       Columns are paths, e.g. select=name,size or
                       select=user.name,commits.0
  get=PATH             Extract the value at a column path from each record
  flatten              Split each table into a stream of its rows
  collect              Join the stream of values into a single table
  trace                Log the stream to stderr (for debugging)

SELECT OPTIONS:
  -strict-select    Fail when a selected column is missing instead of
                    filling the cell with nothing

EXAMPLES:
  # Keep just the name and size columns
  cat files.json | nuq 'select=name,size'

  # Nested columns
  cat commits.json | nuq 'select=commit.author.name,commit.message'

  # CSV in, one record per line out
  cat data.csv | nuq -in csvh -json-compact 'select=city,population'
`)
}
