// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// envgen renders the runtime environment record for the frontend build.
//
// Usage:
//
//	envgen -f environment.yaml -o src/environments/environment.ts
//	envgen -f environment.yaml -format json
//	envgen -f environment.yaml -check
//
// Without -f the development record is used. COFFEESHOP_ENV_* variables
// override individual fields either way.
//
// Exit codes:
//   - 0: Success
//   - 1: Invalid record or write failure
//   - 2: Usage error
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/environment"
	"github.com/ManuGH/coffeeshop/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var file, formatName, output string
	var check, showVersion bool

	fs := flag.NewFlagSet("envgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&file, "file", "", "path to the environment record (YAML)")
	fs.StringVar(&file, "f", "", "path to the environment record (shorthand)")
	fs.StringVar(&formatName, "format", "", "output format: ts, json or yaml (default: from -o extension, else ts)")
	fs.StringVar(&output, "o", "", "write to this path instead of stdout")
	fs.BoolVar(&check, "check", false, "only validate the record")
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

	format, err := resolveFormat(formatName, output)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	env, err := config.NewEnvironmentLoader(file).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if check {
		fmt.Fprintf(stdout, "✓ %s record is valid\n", env.Mode())
		return 0
	}

	if output == "" {
		if err := environment.Render(stdout, env, format); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	changes, known := previousChanges(output, env, format)
	if err := environment.WriteFile(output, env, format); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	switch {
	case !known:
		fmt.Fprintf(stdout, "✓ wrote %s\n", output)
	case len(changes) == 0:
		fmt.Fprintf(stdout, "✓ %s unchanged\n", output)
	default:
		fmt.Fprintf(stdout, "✓ wrote %s (changed: %s)\n", output, strings.Join(changes, ", "))
	}
	return 0
}

func resolveFormat(name, output string) (environment.Format, error) {
	if name != "" {
		return environment.ParseFormat(name)
	}
	if ext := filepath.Ext(output); ext != "" {
		return environment.ParseFormat(ext)
	}
	return environment.FormatTS, nil
}

// previousChanges reports the fields env changes relative to the record
// already at path. known is false when there is nothing to compare against.
func previousChanges(path string, env environment.Environment, format environment.Format) (changes []string, known bool) {
	// #nosec G304 -- output path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var prev environment.Environment
	switch format {
	case environment.FormatJSON:
		if err := json.Unmarshal(data, &prev); err != nil {
			return nil, false
		}
	case environment.FormatYAML:
		if err := yaml.Unmarshal(data, &prev); err != nil {
			return nil, false
		}
	default:
		// The TypeScript module is compared as rendered text.
		var buf bytes.Buffer
		if err := environment.Render(&buf, env, format); err != nil {
			return nil, false
		}
		if bytes.Equal(buf.Bytes(), data) {
			return nil, true
		}
		return nil, false
	}
	return environment.Diff(prev, env), true
}
