// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/environment"
	"github.com/ManuGH/coffeeshop/internal/validate"
	"github.com/ManuGH/coffeeshop/internal/version"
)

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  coffeeshopd config validate [--file|-f coffeeshop.yaml]")
	fmt.Fprintln(w, "  coffeeshopd config dump [--effective] [--file|-f coffeeshop.yaml] [--format=yaml|json]")
	fmt.Fprintln(w, "  coffeeshopd config init [--file|-f coffeeshop.yaml] [--force]")
}

func newConfigFlagSet(name string, stderr io.Writer, file *string) *flag.FlagSet {
	fs := flag.NewFlagSet("coffeeshopd config "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(file, "file", "", "path to YAML configuration file")
	fs.StringVar(file, "f", "", "path to YAML configuration file (shorthand)")
	return fs
}

func parseExit(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	var file string
	fs := newConfigFlagSet("validate", stderr, &file)
	if err := fs.Parse(args); err != nil {
		return parseExit(err)
	}

	path := resolveConfigPath(file)
	if path == "" {
		fmt.Fprintf(stderr, "Error: --file is required (or set %s)\n", envConfigPath)
		return 2
	}

	if _, err := config.NewLoader(path, version.Version).LoadSnapshot(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", path, err)
		if fields := invalidFields(err); len(fields) > 0 {
			fmt.Fprintf(stderr, "Invalid fields: %s\n", strings.Join(fields, ", "))
		}
		return 1
	}

	fmt.Fprintf(stdout, "✓ %s is valid\n", path)
	return 0
}

// effectiveDump is the --effective output: the server configuration together
// with the environment record it was derived from.
type effectiveDump struct {
	Config      config.FileConfig       `json:"config" yaml:"config"`
	Environment environment.Environment `json:"environment" yaml:"environment"`
}

func runConfigDump(args []string, stdout, stderr io.Writer) int {
	var file, format string
	var effective bool
	fs := newConfigFlagSet("dump", stderr, &file)
	fs.StringVar(&format, "format", "yaml", "output format: yaml or json")
	fs.BoolVar(&effective, "effective", false, "include the environment record the configuration was derived from")
	if err := fs.Parse(args); err != nil {
		return parseExit(err)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	if format != "yaml" && format != "yml" && format != "json" {
		fmt.Fprintf(stderr, "Unsupported format: %s (use yaml or json)\n", format)
		return 2
	}

	path := resolveConfigPath(file)
	snap, err := config.NewLoader(path, version.Version).LoadSnapshot()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", path, err)
		return 1
	}

	fileCfg := config.ToFileConfig(snap.App)
	redactFileConfigSecrets(&fileCfg)

	var out any = fileCfg
	if effective {
		out = effectiveDump{Config: fileCfg, Environment: snap.Environment}
	}

	if format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
		return 1
	}
	_ = enc.Close()
	return 0
}

// invalidFields returns the field paths of a validation failure, or nil when err
// is a parse or I/O error.
func invalidFields(err error) []string {
	var verr validate.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields()
	}
	return nil
}

func redactFileConfigSecrets(f *config.FileConfig) {
	if f.Redis != nil && f.Redis.Password != "" {
		f.Redis.Password = "***"
	}
}

func runConfigInit(args []string, stdout, stderr io.Writer) int {
	var file string
	var force bool
	fs := newConfigFlagSet("init", stderr, &file)
	fs.BoolVar(&force, "force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return parseExit(err)
	}

	path := resolveConfigPath(file)
	if path == "" {
		fmt.Fprintf(stderr, "Error: --file is required (or set %s)\n", envConfigPath)
		return 2
	}
	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(stderr, "Error: %s already exists (use --force to overwrite)\n", path)
		return 1
	}

	if err := config.NewManager(path).Save(config.Defaults()); err != nil {
		fmt.Fprintf(stderr, "Failed to write %s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "✓ wrote default configuration to %s\n", path)
	return 0
}
