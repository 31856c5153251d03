/*
Ginfer runs oracle-guided context-free grammar inference over a set of
positive examples.

It reads whitespace-tokenised example lines (one per line) from stdin or a
file, probes an external membership oracle -- a subprocess or long-lived
interpreter session that accepts or rejects candidate strings -- and prints
the inferred grammar once the examples are exhausted.

Usage:

	ginfer [flags]

The flags are:

	-v, --version
		Give the current version of ginfer and then exit.

	-c, --config FILE
		Load run parameters (oracle backend, sample size, timeout, cache) from
		the given TOML file. Defaults to using built-in defaults with no
		config file.

	-i, --input FILE
		Read example lines from FILE instead of stdin.

	-d, --direct
		Force reading directly from the input stream instead of using GNU
		readline based routines, even if launched in a tty.

	--no-expand
		Skip token-class generalisation after the main inference pipeline
		completes.

Each input line is split on whitespace into token payloads; blank lines are
ignored. Once input is exhausted (EOF), the inferred grammar is printed to
stdout, followed by oracle call statistics on stderr.
*/
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/grammarinfer/internal/cache"
	"github.com/dekarrin/grammarinfer/internal/config"
	"github.com/dekarrin/grammarinfer/internal/ginferrors"
	"github.com/dekarrin/grammarinfer/internal/infer"
	"github.com/dekarrin/grammarinfer/internal/oracle"
	"github.com/dekarrin/grammarinfer/internal/repl"
	"github.com/dekarrin/grammarinfer/internal/util"
	"github.com/dekarrin/grammarinfer/internal/version"
	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInferenceError indicates an unsuccessful program execution due to
	// a problem encountered while running the inference pipeline.
	ExitInferenceError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the oracle, config, or input source.
	ExitInitError
)

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	configFile  *string = pflag.StringP("config", "c", "", "TOML file with run parameters; built-in defaults are used if omitted")
	inputFile   *string = pflag.StringP("input", "i", "", "File of whitespace-tokenised example lines; defaults to stdin")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from the input stream instead of going through GNU readline where possible")
	noExpand    *bool   = pflag.Bool("no-expand", false, "Skip token-class generalisation after the main pipeline completes")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	wrapper, closeOracle, err := buildOracle(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	if closeOracle != nil {
		defer closeOracle()
	}

	examples, err := readExamples(*inputFile, *forceDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	ctx := infer.NewContext(wrapper, cfg.MaxSamples, cfg.RandomSeed)

	result, err := infer.BuildStartGrammar(ctx, examples, !*noExpand)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", ginferrors.OperatorMessage(err))
		returnCode = ExitInferenceError
		return
	}

	fmt.Print(infer.FormatGrammar(result.Grammar))

	if classes := infer.ExpandedClasses(result.Grammar); len(classes) > 0 {
		fmt.Fprintf(os.Stderr, "token classes generalised: %s\n", util.MakeTextList(classes))
	}

	stats := wrapper.Stats()
	fmt.Fprintf(os.Stderr, "oracle calls: %d (cache hits: %d, timeouts: %d, wall time: %s)\n",
		stats.Calls, stats.CacheHits, stats.Timeouts, stats.TotalWallTime)
}

// buildOracle constructs the oracle.Wrapper described by cfg, wiring in a
// persistent sqlite cache when cfg.Cache.Path is set. The returned func, if
// non-nil, must be called to release any resources the backend or cache
// holds open (a long-lived session, an open database handle).
func buildOracle(cfg config.Config) (*oracle.Wrapper, func(), error) {
	var backend oracle.Backend
	var closers []func() error

	switch cfg.Oracle.Kind {
	case "session":
		sb, err := oracle.NewSessionBackend(oracle.NewNullSessionFactory())
		if err != nil {
			return nil, nil, fmt.Errorf("start oracle session: %w", err)
		}
		backend = sb
		closers = append(closers, sb.Close)
	case "subprocess", "":
		if cfg.Oracle.Command == "" {
			return nil, nil, fmt.Errorf("oracle.command must be set for the subprocess backend")
		}
		backend = oracle.NewSubprocessBackend(cfg.Oracle.Command, cfg.Oracle.Args...)
	default:
		return nil, nil, fmt.Errorf("unknown oracle backend kind %q", cfg.Oracle.Kind)
	}

	w := oracle.New(backend, cfg.Timeout())

	if cfg.Cache.Path != "" {
		store, err := cache.Open(cfg.Cache.Path, uuid.New())
		if err != nil {
			return nil, nil, fmt.Errorf("open oracle cache: %w", err)
		}
		w.WithPersistentCache(store)
		closers = append(closers, store.Close)
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return w, closeAll, nil
}

// readExamples reads whitespace-tokenised example lines from path (or
// stdin if path is empty) until EOF, returning one infer.Example per
// non-blank line.
func readExamples(path string, direct bool) ([]infer.Example, error) {
	var reader repl.ExampleReader

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input file %q: %w", path, err)
		}
		defer f.Close()
		reader = repl.NewDirectReader(f)
	} else if direct {
		reader = repl.NewDirectReader(os.Stdin)
	} else {
		ir, err := repl.NewInteractiveReader()
		if err != nil {
			reader = repl.NewDirectReader(os.Stdin)
		} else {
			reader = ir
		}
	}
	defer reader.Close()

	var examples []infer.Example
	for {
		line, err := reader.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read example: %w", err)
		}

		toks := repl.SplitTokens(line)
		if len(toks) == 0 {
			continue
		}
		examples = append(examples, infer.Example(toks))
	}

	return examples, nil
}
