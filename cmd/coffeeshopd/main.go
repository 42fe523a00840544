// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command coffeeshopd serves the coffee shop drinks API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ManuGH/coffeeshop/internal/config"
	"github.com/ManuGH/coffeeshop/internal/daemon"
	xglog "github.com/ManuGH/coffeeshop/internal/log"
	"github.com/ManuGH/coffeeshop/internal/version"
)

// envConfigPath names the config file when --config is not given.
const envConfigPath = "COFFEESHOP_CONFIG"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "config" {
		return runConfigCLI(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("coffeeshopd", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version and exit")
	configPath := fs.String("config", "", "path to config file (YAML)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String())
		return 0
	}

	// Safe defaults until the configuration is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: daemon.ServiceName,
		Version: version.Version,
	})
	logger := xglog.WithComponent("daemon")

	path := resolveConfigPath(*configPath)
	loader := config.NewLoader(path, version.Version)
	snap, err := loader.LoadSnapshot()
	if err != nil {
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Strs("invalid_fields", invalidFields(err)).
			Msg("failed to load configuration")
		return 1
	}
	if err := xglog.SetLevel(snap.App.LogLevel); err != nil {
		logger.Warn().Err(err).Msg("invalid log level, keeping info")
	}

	source := "defaults+env"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("path", path).
		Str("mode", snap.Environment.Mode()).
		Interface("config", config.MaskSecrets(snap.App)).
		Msg("configuration loaded")

	ctx, stop := daemon.WaitForShutdown()
	defer stop()

	holder := config.NewConfigHolder(snap, loader, path)
	app, err := daemon.Build(ctx, daemon.Options{
		Snapshot: holder.Snapshot(),
		Holder:   holder,
		Logger:   logger,
	})
	if err != nil {
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.build_failed").Msg("failed to initialise runtime")
		return 1
	}

	logger.Info().
		Str("version", version.Version).
		Str("listen", snap.App.ListenAddr).
		Msg("starting coffeeshopd")

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Str(xglog.FieldEvent, "daemon.failed").Msg("daemon stopped with error")
		return 1
	}
	logger.Info().Msg("coffeeshopd stopped")
	return 0
}

func resolveConfigPath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	return strings.TrimSpace(config.ParseString(envConfigPath, ""))
}
