// Command scramble sends text-transform requests from a script file to
// a transform server over one TCP connection and prints each response.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"scramble"
)

type config struct {
	host    string
	port    string
	script  string
	verbose bool
}

func parseConfig(name string, args []string) (config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Usage: %s [-v] [-host HOST] [-port PORT] FILE

FILE holds one request per line, "ACTION MESSAGE", where ACTION is one
of uppercase, lowercase, reverse, shuffle or random. Pass "-" to read
requests from standard input.

Options:
`, name)
		fs.PrintDefaults()
	}

	var cfg config
	fs.StringVar(&cfg.host, "host", scramble.DefaultHost, "server host name")
	fs.StringVar(&cfg.port, "port", scramble.DefaultPort, "server port")
	fs.BoolVar(&cfg.verbose, "v", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}

	switch {
	case fs.NArg() < 1:
		fs.Usage()
		return config{}, errors.New("missing FILE argument")
	case fs.NArg() > 1:
		fs.Usage()
		return config{}, errors.New("too many arguments")
	}
	cfg.script = fs.Arg(0)

	if !validPort(cfg.port) {
		return config{}, fmt.Errorf("%q is not a valid port", cfg.port)
	}

	return cfg, nil
}

// validPort accepts a non-empty run of decimal digits, matching what
// the server side resolves.
func validPort(port string) bool {
	if port == "" {
		return false
	}
	for _, r := range port {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func main() {
	cfg, err := parseConfig("scramble", os.Args[1:])
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) error {
	source, err := scramble.OpenScript(cfg.script)
	if err != nil {
		return err
	}
	defer source.Close()

	if cfg.script == scramble.Stdin && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, `Reading requests from the terminal: one "ACTION MESSAGE" per line, Ctrl-D to finish.`)
	}

	client, err := scramble.Dial(cfg.host, cfg.port, scramble.LoggerOption(logger))
	if err != nil {
		return err
	}
	defer client.Close()

	return client.Run(source, scramble.ConsumerFunc(func(message []byte) bool {
		fmt.Printf("%s\n", message)
		return false
	}))
}
