package menu

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/marcus/brew/internal/coffee"
	"github.com/marcus/brew/internal/logging"
)

// LoadFile reads a YAML menu file of the form:
//
//	toppings:
//	  - name: milk
//	    label: Milk
//	    price: 500
func LoadFile(path string) (*Menu, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read menu: %w", err)
	}

	var file struct {
		Toppings []coffee.Topping `mapstructure:"toppings"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode menu: %w", err)
	}
	return New(file.Toppings)
}

// Watch reloads the menu file whenever it is written or recreated and passes
// each valid menu to onChange. Invalid files are logged and skipped.
// Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Menu)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching menu dir: %w", err)
	}

	log := logging.Component("menu")
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			m, err := LoadFile(path)
			if err != nil {
				log.Err(err).Str("path", path).Msg("menu reload skipped")
				continue
			}
			log.InfoCtx("menu reloaded", map[string]any{"path": path, "toppings": m.Len()})
			onChange(m)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Err(err).Msg("menu watcher error")
		}
	}
}
