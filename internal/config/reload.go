// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/ManuGH/coffeeshop/internal/environment"
	xglog "github.com/ManuGH/coffeeshop/internal/log"
)

// debounceDuration coalesces the burst of events editors emit on save.
const debounceDuration = 500 * time.Millisecond

// ConfigHolder holds configuration with atomic reloading capability.
// Only the server configuration is reloaded; the environment record captured
// at construction is carried into every new snapshot unchanged.
type ConfigHolder struct {
	mu         sync.RWMutex
	current    Snapshot
	loader     *Loader
	configPath string
	logger     zerolog.Logger

	// reloads are serialized; the loader is not safe for concurrent use
	reloadSerial sync.Mutex

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	wg      sync.WaitGroup

	listenersMu sync.RWMutex
	listeners   []chan<- Snapshot
}

// NewConfigHolder creates a new configuration holder with the initial snapshot.
func NewConfigHolder(initial Snapshot, loader *Loader, configPath string) *ConfigHolder {
	if initial.Epoch == 0 {
		initial.Epoch = 1
	}
	return &ConfigHolder{
		current:    initial,
		loader:     loader,
		configPath: configPath,
		logger:     xglog.WithComponent("config"),
	}
}

// Get returns the current server configuration (thread-safe read).
func (h *ConfigHolder) Get() AppConfig {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.App
}

// Snapshot returns the current effective snapshot.
func (h *ConfigHolder) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Environment returns the environment record. It never changes for the
// lifetime of the holder.
func (h *ConfigHolder) Environment() environment.Environment {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current.Environment
}

// Reload reloads configuration from file and validates it.
// If loading or validation fails, the old configuration is kept and an error is returned.
func (h *ConfigHolder) Reload(_ context.Context) error {
	h.reloadSerial.Lock()
	defer h.reloadSerial.Unlock()

	h.logger.Info().Str(xglog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.loader.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	if err := Validate(newCfg); err != nil {
		h.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "config.validation_failed").
			Msg("new configuration failed validation")
		return fmt.Errorf("validate config: %w", err)
	}

	h.mu.Lock()
	old := h.current
	next := BuildSnapshot(newCfg, old.Environment)
	next.Epoch = old.Epoch + 1
	h.current = next
	h.mu.Unlock()

	summary := Diff(old.App, next.App)
	h.logChanges(summary)
	h.notifyListeners(next)

	h.logger.Info().
		Str(xglog.FieldEvent, "config.reload_success").
		Uint64("epoch", next.Epoch).
		Msg("configuration reloaded successfully")

	return nil
}

// StartWatcher starts watching the config file for changes. The parent
// directory is watched so that editors replacing the file via rename are seen.
// If configPath is empty, this is a no-op (config comes from ENV only).
func (h *ConfigHolder) StartWatcher(ctx context.Context) error {
	if h.configPath == "" {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (using ENV-only configuration)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	target := filepath.Clean(h.configPath)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	h.watchMu.Lock()
	h.watcher = watcher
	h.watchMu.Unlock()

	h.logger.Info().
		Str(xglog.FieldEvent, "config.watcher_started").
		Str(xglog.FieldPath, target).
		Msg("watching config file for changes")

	h.wg.Add(1)
	go h.watchLoop(ctx, watcher, target)

	return nil
}

func (h *ConfigHolder) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, target string) {
	defer h.wg.Done()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xglog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = watcher.Close()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			h.logger.Debug().
				Str(xglog.FieldEvent, "config.file_changed").
				Str("op", event.Op.String()).
				Msg("config file changed")

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDuration, func() {
				if err := h.Reload(ctx); err != nil {
					h.logger.Error().
						Err(err).
						Str(xglog.FieldEvent, "config.auto_reload_failed").
						Msg("automatic config reload failed")
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// Stop stops the config watcher (if running) and waits for it to exit.
func (h *ConfigHolder) Stop() {
	h.watchMu.Lock()
	w := h.watcher
	h.watcher = nil
	h.watchMu.Unlock()

	if w != nil {
		_ = w.Close()
	}
	h.wg.Wait()
}

// RegisterListener registers a channel to receive snapshots after every
// successful reload. The caller is responsible for closing the channel.
func (h *ConfigHolder) RegisterListener(ch chan<- Snapshot) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()
	h.listeners = append(h.listeners, ch)
}

// notifyListeners sends the new snapshot to all registered listeners (non-blocking).
func (h *ConfigHolder) notifyListeners(snap Snapshot) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, ch := range h.listeners {
		select {
		case ch <- snap:
		default:
			h.logger.Warn().
				Str(xglog.FieldEvent, "config.listener_skip").
				Msg("skipped notifying listener (channel full)")
		}
	}
}

func (h *ConfigHolder) logChanges(summary ChangeSummary) {
	if len(summary.ChangedFields) == 0 {
		h.logger.Info().
			Str(xglog.FieldEvent, "config.unchanged").
			Msg("configuration reloaded without changes")
		return
	}
	ev := h.logger.Info()
	if summary.RestartRequired {
		ev = h.logger.Warn()
	}
	ev.Str(xglog.FieldEvent, "config.changed").
		Strs("fields", summary.ChangedFields).
		Bool("restart_required", summary.RestartRequired).
		Msg("configuration changed")
}
