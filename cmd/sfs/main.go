// Package main is the sfs command: a simple static file server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/f4ah6o/sfs-go/internal/config"
	"github.com/f4ah6o/sfs-go/internal/server"
)

const version = "0.1.0"

const usage = `sfs ` + version + `
A simple static file server.

USAGE:
    sfs [FLAGS] [OPTIONS]

FLAGS:
    -h, --help
        Prints help information

    -V, --version
        Prints version information

OPTIONS:
    -d, --directory <path>
        The directory to serve
        Default: .

    -p, --port <port>
        The port on which the server should listen
        Default: 1024

    -c, --config <file>
        TOML (.toml) or YAML (.yaml, .yml) settings file.
        Flags given on the command line take precedence.`

var errorColor = color.New(color.FgRed, color.Bold)

type options struct {
	directory  string
	port       string
	configPath string
	help       bool
	version    bool
	// set records the flags given explicitly, by canonical long name.
	set map[string]bool
}

var longNames = map[string]string{
	"d": "directory",
	"p": "port",
	"c": "config",
	"h": "help",
	"V": "version",
}

func parseArgs(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sfs", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	for _, name := range []string{"d", "directory"} {
		fs.StringVar(&opts.directory, name, ".", "directory to serve")
	}
	for _, name := range []string{"p", "port"} {
		fs.StringVar(&opts.port, name, "1024", "port to listen on")
	}
	for _, name := range []string{"c", "config"} {
		fs.StringVar(&opts.configPath, name, "", "settings file")
	}
	for _, name := range []string{"h", "help"} {
		fs.BoolVar(&opts.help, name, false, "print help")
	}
	for _, name := range []string{"V", "version"} {
		fs.BoolVar(&opts.version, name, false, "print version")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := longNames[name]; ok {
			name = long
		}
		opts.set[name] = true
	})
	return opts, nil
}

// parsePort accepts decimal values that fit in 16 bits.
func parsePort(s string) (uint16, error) {
	p, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return uint16(p), nil
}

// buildConfig layers the settings file, if any, under the explicit flags.
func buildConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if opts.configPath == "" || opts.set["directory"] {
		cfg.Directory = opts.directory
	}
	if opts.configPath == "" || opts.set["port"] {
		port, err := parsePort(opts.port)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout, stderr io.Writer) int {
	fail := func(err error) int {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, usage)
		return fail(err)
	}

	switch {
	case opts.help:
		fmt.Fprintln(stdout, usage)
		return 0
	case opts.version:
		fmt.Fprintln(stdout, version)
		return 0
	}

	cfg, err := buildConfig(opts)
	if err != nil {
		return fail(err)
	}

	srv, err := server.New(cfg, log.New(stderr, "", log.LstdFlags))
	if err != nil {
		return fail(err)
	}

	color.New(color.FgGreen).Fprintf(stdout, "🌐 Serving %s at http://localhost:%d\n", srv.Root(), cfg.Port)
	fmt.Fprintln(stdout, "Press Ctrl+C to stop")

	if err := srv.ListenAndServe(); err != nil {
		return fail(err)
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
