package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/theoremus-urban-solutions/marc2xml/config"
	"github.com/theoremus-urban-solutions/marc2xml/internal"
	"github.com/theoremus-urban-solutions/marc2xml/server"
)

const (
	modeOneshot = "oneshot"
	modeServer  = "server"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// options holds the command line; set records which flags were given so
// that only those override the configuration file.
type options struct {
	mode       string
	port       int
	configPath string
	in, out    string
	format     string
	convert    string
	normalize  bool
	fallback   string
	pretty     bool
	cont       bool
	set        map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("marc2xml", flag.ContinueOnError)
	fs.SetOutput(stderr)
	o := &options{}
	fs.StringVar(&o.mode, "mode", modeOneshot, "oneshot|server")
	fs.IntVar(&o.port, "port", 0, "HTTP port in server mode (overrides config)")
	fs.StringVar(&o.configPath, "config", "", "config file (default: marc2xml.yml or config.yml if present)")
	fs.StringVar(&o.in, "in", "", "ISO 2709 input file (default stdin)")
	fs.StringVar(&o.out, "out", "", "output file (default stdout)")
	fs.StringVar(&o.format, "format", "", "xml|jsonl")
	fs.StringVar(&o.convert, "convert", "", "identity|marc8")
	fs.BoolVar(&o.normalize, "normalize", false, "compose converted text into NFC")
	fs.StringVar(&o.fallback, "fallback", "", "strict|replace|passthrough")
	fs.BoolVar(&o.pretty, "pretty", false, "indent XML output")
	fs.BoolVar(&o.cont, "continue", false, "log and skip records that fail instead of aborting")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		err := fmt.Errorf("unexpected arguments: %v", fs.Args())
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	if o.mode != modeOneshot && o.mode != modeServer {
		err := fmt.Errorf("unknown mode %q", o.mode)
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	o.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

func loadConfig(o *options) (config.AppConfig, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	if err := config.LoadAppConfig(); err != nil {
		return config.AppConfig{}, err
	}
	return config.Config, nil
}

// apply overlays the flags that were given onto cfg.
func (o *options) apply(cfg *config.AppConfig) {
	if o.set["format"] {
		cfg.Output.Format = o.format
	}
	if o.set["pretty"] {
		cfg.Output.Pretty = o.pretty
	}
	if o.set["convert"] {
		cfg.Converter.Strategy = o.convert
	}
	if o.set["normalize"] {
		cfg.Converter.Normalize = o.normalize
	}
	if o.set["fallback"] {
		cfg.Converter.Fallback = o.fallback
	}
	if o.set["port"] {
		cfg.Server.Port = o.port
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	internal.InitLoggingTo(stderr)

	cfg, err := loadConfig(o)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}
	o.apply(&cfg)
	if err := config.Validate(cfg); err != nil {
		log.Printf("%v", err)
		return 1
	}
	conv, err := cfg.Converter.Build()
	if err != nil {
		log.Printf("%v", err)
		return 1
	}

	if o.mode == modeServer {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := server.New(cfg).Run(ctx); err != nil {
			log.Printf("%v", err)
			return 1
		}
		return 0
	}

	in := stdin
	if o.in != "" {
		f, err := os.Open(o.in)
		if err != nil {
			log.Printf("open input: %v", err)
			return 1
		}
		defer f.Close()
		in = f
	}
	out := stdout
	if o.out != "" {
		f, err := os.Create(o.out)
		if err != nil {
			log.Printf("create output: %v", err)
			return 1
		}
		defer f.Close()
		out = f
	}

	sink, err := internal.NewSink(cfg.Output, conv, out)
	if err != nil {
		log.Printf("%v", err)
		return 1
	}
	var skip func(*internal.RecordError)
	if o.cont {
		skip = func(rerr *internal.RecordError) {
			log.Printf("record %d skipped: %v", rerr.N, rerr.Err)
		}
	}
	stats, err := internal.Convert(in, sink, skip)
	if err != nil {
		if internal.IsBrokenPipe(err) {
			return 0
		}
		log.Printf("%v", err)
		return 1
	}
	log.Printf("converted %d records (%d skipped) with %v", stats.Records, stats.Skipped, conv)
	return 0
}
