// piencode stores files as references into the decimal digits of π.
//
// Encoding turns every input byte into a 3-digit decimal group, finds each
// chunk of groups in π and writes the positions as "start&length;" records.
// Decoding reads the digits back from those positions. Digits are fetched
// from a digit service in 1000-digit pages and cached in pi.cache so later
// runs start where earlier ones stopped.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/arloliu/piencode/config"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the parsed command-line arguments.
type options struct {
	encode     bool
	decode     bool
	input      string
	output     string
	verbose    bool
	configPath string
}

func run(args []string, stderr io.Writer) error {
	var opts options
	cfg := config.Default()

	flagSet := pflag.NewFlagSet("piencode", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&opts.encode, "encode", false, "encode INPUT into π references")
	flagSet.BoolVar(&opts.decode, "decode", false, "decode INPUT from π references")
	flagSet.StringVarP(&opts.output, "output", "o", "", "output path (default: INPUT.pi when encoding, INPUT.out when decoding)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	flagSet.StringVar(&opts.configPath, "config", "", "YAML config file; flags override its values")

	// Bound to a scratch config so only explicitly set flags override the file.
	var overrides config.Config
	flagSet.BoolVar(&overrides.CachePi, "cache-pi", cfg.CachePi, "persist fetched π digits between runs")
	flagSet.BoolVar(&overrides.CacheFrags, "cache-frags", cfg.CacheFrags, "persist the fragment offset memo between runs")
	flagSet.IntVar(&overrides.TargetFragSize, "target-frag-size", cfg.TargetFragSize, "input bytes per fragment")
	flagSet.StringVar(&overrides.Mode, "mode", cfg.Mode, "encoding mode: bytes, ascii, utf8, utf16, utf32")
	flagSet.StringVar(&overrides.CacheFile, "cache-file", cfg.CacheFile, "π digit cache path")
	flagSet.StringVar(&overrides.FragCacheFile, "frag-cache-file", cfg.FragCacheFile, "fragment memo path")
	flagSet.StringVar(&overrides.SourceURL, "source-url", cfg.SourceURL, "base URL of the π digit service")
	flagSet.IntVar(&overrides.Prefetch, "prefetch", cfg.Prefetch, "digits to fetch before encoding")
	flagSet.IntVar(&overrides.MaxExtensions, "max-extensions", cfg.MaxExtensions, "pages one fragment search may fetch")
	flagSet.IntVar(&overrides.MaxDigits, "max-digits", cfg.MaxDigits, "cap on cached π digits and referenced positions (0 = unbounded)")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	if opts.encode == opts.decode {
		return errors.New("exactly one of --encode or --decode is required")
	}
	rest := flagSet.Args()
	if len(rest) != 1 {
		return fmt.Errorf("expected one INPUT path, got %d arguments", len(rest))
	}
	opts.input = rest[0]
	if opts.output == "" {
		opts.output = defaultOutput(opts.input, opts.encode)
	}

	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyOverrides(flagSet, cfg, &overrides)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	if opts.encode {
		return a.encodeFile(ctx, opts.input, opts.output)
	}

	return a.decodeFile(ctx, opts.input, opts.output)
}

func defaultOutput(input string, encode bool) string {
	if encode {
		return input + ".pi"
	}

	return input + ".out"
}

// applyOverrides copies every flag the user set into cfg.
func applyOverrides(flagSet *pflag.FlagSet, cfg, overrides *config.Config) {
	if flagSet.Changed("cache-pi") {
		cfg.CachePi = overrides.CachePi
	}
	if flagSet.Changed("cache-frags") {
		cfg.CacheFrags = overrides.CacheFrags
	}
	if flagSet.Changed("target-frag-size") {
		cfg.TargetFragSize = overrides.TargetFragSize
	}
	if flagSet.Changed("mode") {
		cfg.Mode = overrides.Mode
	}
	if flagSet.Changed("cache-file") {
		cfg.CacheFile = overrides.CacheFile
	}
	if flagSet.Changed("frag-cache-file") {
		cfg.FragCacheFile = overrides.FragCacheFile
	}
	if flagSet.Changed("source-url") {
		cfg.SourceURL = overrides.SourceURL
	}
	if flagSet.Changed("prefetch") {
		cfg.Prefetch = overrides.Prefetch
	}
	if flagSet.Changed("max-extensions") {
		cfg.MaxExtensions = overrides.MaxExtensions
	}
	if flagSet.Changed("max-digits") {
		cfg.MaxDigits = overrides.MaxDigits
	}
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `piencode stores files as positions in the digits of π.

Usage:
  piencode (--encode|--decode) [flags] INPUT

Examples:
  # Encode a file to notes.txt.pi
  piencode --encode notes.txt

  # Decode it again, caching fragment offsets for the next run
  piencode --decode --cache-frags -o notes.txt notes.txt.pi

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
