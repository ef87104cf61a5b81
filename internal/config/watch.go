package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// errEmptyConfig marks a reload that found a truncated file mid-save.
var errEmptyConfig = errors.New("config file is empty")

// Watch reloads the config file whenever it is written and sends each valid
// result on the returned channel. The channel is closed once ctx is done.
// override, if non-nil, runs on every reloaded config before validation.
// Invalid files are logged and skipped; the previous config stays in effect.
// An empty file is skipped silently: editors that save in place truncate
// before writing.
//
// The directory is watched rather than the file so editors that replace the
// file on save keep triggering reloads.
func Watch(ctx context.Context, path string, logger *zap.Logger, override Override) (<-chan *Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	out := make(chan *Config, 1)
	target := filepath.Clean(path)

	go func() {
		defer close(out)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := reload(path, override)
				if errors.Is(err, errEmptyConfig) {
					logger.Debug("Skipping empty config", zap.String("path", path))
					continue
				}
				if err != nil {
					logger.Warn("Ignoring config reload", zap.String("path", path), zap.Error(err))
					continue
				}
				logger.Debug("Config reloaded", zap.String("path", path))
				// Keep only the newest config if the consumer is behind.
				select {
				case <-out:
				default:
				}
				out <- cfg
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}

func reload(path string, override Override) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	// No YAML document at all (empty or comments only) is a save in
	// progress, not a request to reset everything to defaults.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Content) == 0 {
		return nil, errEmptyConfig
	}
	return parse(data, override)
}
