package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kievzenit/nagato/internal/compiler_errors"
	"github.com/kievzenit/nagato/internal/interpreter"
	"github.com/kievzenit/nagato/internal/runner"
	"github.com/peterh/liner"
	"github.com/sanity-io/litter"
)

const (
	historyFile = ".nagato_history"
	promptMain  = "nagato> "
	promptCont  = "   ...> "

	maxDepthEnv = "NAGATO_MAX_DEPTH"
)

const usageText = `usage: nagato <command> [flags] [file]

commands:
  run FILE     interpret a program
  repl         start an interactive session
  tokens FILE  print the token stream
  ast FILE     dump the syntax tree
  dot FILE     write the syntax tree as a Graphviz graph
  emit FILE    compile a program to LLVM IR
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	args := os.Args[2:]
	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(args))
	case "repl":
		os.Exit(cmdRepl(args))
	case "tokens":
		os.Exit(cmdTokens(args))
	case "ast":
		os.Exit(cmdAst(args))
	case "dot":
		os.Exit(cmdDot(args))
	case "emit":
		os.Exit(cmdEmit(args))
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func report(err error) int {
	compiler_errors.Report(os.Stderr, err)
	return 1
}

// defaultMaxDepth reads NAGATO_MAX_DEPTH, falling back to the interpreter
// default when it is unset or malformed.
func defaultMaxDepth() int {
	value, ok := os.LookupEnv(maxDepthEnv)
	if !ok {
		return interpreter.DefaultMaxCallDepth
	}

	depth, err := strconv.Atoi(value)
	if err != nil || depth <= 0 {
		fmt.Fprintf(os.Stderr, "ignoring %s=%q: not a positive integer\n", maxDepthEnv, value)
		return interpreter.DefaultMaxCallDepth
	}
	return depth
}

// parseFileArgs parses fs and returns the single file operand.
func parseFileArgs(fs *flag.FlagSet, args []string) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s: expected exactly one file\n", fs.Name())
		fs.Usage()
		return "", false
	}
	return fs.Arg(0), true
}

func readSource(fileName string) ([]byte, error) {
	source, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	return source, nil
}

// writeOutput writes data to path, or to stdout when path is empty or "-".
func writeOutput(path, data string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(os.Stdout, data)
		return err
	}
	return os.WriteFile(path, []byte(data), 0o644)
}

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	maxDepth := fs.Int("max-depth", defaultMaxDepth(), "maximum number of active function calls")
	verbose := fs.Bool("v", false, "trace pipeline stages to stderr")
	fileName, ok := parseFileArgs(fs, args)
	if !ok {
		return 2
	}

	source, err := readSource(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	opts := runner.Options{
		FileName:     fileName,
		Stdout:       os.Stdout,
		MaxCallDepth: *maxDepth,
	}
	if *verbose {
		opts.Trace = os.Stderr
	}

	result, err := runner.Run(source, opts)
	if err != nil {
		return report(err)
	}

	if *verbose && result.Returned && result.HasValue {
		fmt.Fprintf(os.Stderr, "=> %s\n", result.Value)
	}
	return 0
}

func cmdTokens(args []string) int {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	fileName, ok := parseFileArgs(fs, args)
	if !ok {
		return 2
	}

	source, err := readSource(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	tokens, err := runner.Tokens(fileName, source)
	if err != nil {
		return report(err)
	}

	for _, token := range tokens {
		fmt.Printf("%d:%d\t%s\n", token.Metadata.Line, token.Metadata.Column, token.String())
	}
	return 0
}

func cmdAst(args []string) int {
	fs := flag.NewFlagSet("ast", flag.ContinueOnError)
	fileName, ok := parseFileArgs(fs, args)
	if !ok {
		return 2
	}

	source, err := readSource(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	program, err := runner.Parse(fileName, source)
	if err != nil {
		return report(err)
	}

	litter.Dump(program)
	return 0
}

func cmdDot(args []string) int {
	fs := flag.NewFlagSet("dot", flag.ContinueOnError)
	output := fs.String("o", "", "output file (default stdout)")
	fileName, ok := parseFileArgs(fs, args)
	if !ok {
		return 2
	}

	source, err := readSource(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	graph, err := runner.Graph(fileName, source)
	if err != nil {
		return report(err)
	}

	if err := writeOutput(*output, graph); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func cmdEmit(args []string) int {
	fs := flag.NewFlagSet("emit", flag.ContinueOnError)
	output := fs.String("o", "", "output file (default stdout)")
	verify := fs.Bool("verify", false, "verify the module before writing it")
	maxDepth := fs.Int("max-depth", defaultMaxDepth(), "maximum number of active function calls")
	verbose := fs.Bool("v", false, "trace pipeline stages to stderr")
	fileName, ok := parseFileArgs(fs, args)
	if !ok {
		return 2
	}

	source, err := readSource(fileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	opts := runner.Options{
		FileName:     fileName,
		MaxCallDepth: *maxDepth,
		Verify:       *verify,
	}
	if *verbose {
		opts.Trace = os.Stderr
	}

	ir, err := runner.Compile(source, opts)
	if err != nil {
		return report(err)
	}

	if err := writeOutput(*output, ir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func cmdRepl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	maxDepth := fs.Int("max-depth", defaultMaxDepth(), "maximum number of active function calls")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	fmt.Println("nagato REPL. Ctrl+C cancels input, Ctrl+D exits. Type :vars to list variables, :quit to exit.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := runner.NewSession(runner.Options{
		Stdout:       os.Stdout,
		MaxCallDepth: *maxDepth,
	})

	var chunk strings.Builder
	for {
		prompt := promptMain
		if chunk.Len() > 0 {
			prompt = promptCont
		}

		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			chunk.Reset()
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}

		if chunk.Len() == 0 {
			switch strings.TrimSpace(line) {
			case "":
				continue
			case ":quit":
				return 0
			case ":vars":
				if err := session.WriteGlobals(os.Stdout); err != nil {
					fmt.Fprintln(os.Stderr, err)
				}
				continue
			}
		} else {
			chunk.WriteByte('\n')
		}
		chunk.WriteString(line)

		result, incomplete, err := session.Exec(chunk.String())
		if incomplete {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(chunk.String(), "\n", " "))
		chunk.Reset()

		if err != nil {
			compiler_errors.Report(os.Stderr, err)
			continue
		}
		if result.Returned && result.HasValue {
			fmt.Printf("=> %s\n", result.Value)
		}
	}
}
