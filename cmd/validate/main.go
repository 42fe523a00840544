// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// validate checks coffee shop YAML configuration files.
//
// Usage:
//
//	validate -f coffeeshop.yaml
//	validate -f environment.yaml -kind environment
//
// Exit codes:
//   - 0: Configuration is valid
//   - 1: Configuration is invalid (parse or validation error)
//   - 2: Usage error
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/version"
)

const (
	kindServer      = "server"
	kindEnvironment = "environment"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var file, kind string
	var showVersion bool

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&kind, "kind", kindServer, "file kind: server or environment")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Version)
		return 0
	}

	if file == "" {
		fmt.Fprintln(stderr, "Error: --file is required")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  validate -f coffeeshop.yaml")
		fmt.Fprintln(stderr, "  validate -f environment.yaml -kind environment")
		return 2
	}

	var err error
	switch kind {
	case kindServer:
		// Load applies strict YAML parsing and config.Validate.
		_, err = config.NewLoader(file, version.Version).Load()
	case kindEnvironment:
		_, err = config.LoadEnvironmentFile(file)
	default:
		fmt.Fprintf(stderr, "Error: unknown kind %q (use %s or %s)\n", kind, kindServer, kindEnvironment)
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
		fmt.Fprintf(stderr, "  %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "✓ %s is valid\n", file)
	return 0
}
