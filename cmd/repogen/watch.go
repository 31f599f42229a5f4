package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/repogen/compiler"
)

// watcher regenerates repositories when their declarations change.
type watcher struct {
	compiler *compiler.Compiler
	source   compiler.Source
	logger   *slog.Logger
	debounce time.Duration
	// generated holds the files written by the last run. Events on them
	// are ignored.
	generated map[string]bool
	// decls holds the declaration files being watched.
	decls map[string]bool
	// ready, if set, is called once the watch is established.
	ready func()
}

func (w *watcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fw.Close()

	inputs, err := w.compiler.Inputs(ctx, w.source)
	if err != nil {
		return err
	}
	w.decls = make(map[string]bool)
	dirs := make(map[string]bool)
	for _, in := range inputs {
		dir := in
		if info, err := os.Stat(in); err != nil || !info.IsDir() {
			w.decls[in] = true
			dir = filepath.Dir(in)
		}
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.logger.DebugContext(ctx, "watching", slog.String("dir", dir))
	}

	w.generate(ctx)
	if w.ready != nil {
		w.ready()
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.DebugContext(ctx, "change detected",
				slog.String("file", event.Name),
				slog.String("op", event.Op.String()),
			)
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.WarnContext(ctx, "watch error", slog.Any("error", err))
		case <-timer.C:
			w.generate(ctx)
		}
	}
}

// generate runs the compiler and logs, rather than returns, its failures.
func (w *watcher) generate(ctx context.Context) {
	res, err := w.compiler.Generate(ctx, w.source)
	if err != nil {
		w.logger.ErrorContext(ctx, "generation failed", slog.Any("error", err))
	}
	if res == nil {
		return
	}
	w.generated = make(map[string]bool, len(res.Files))
	for _, f := range res.Files {
		if abs, err := filepath.Abs(f); err == nil {
			w.generated[abs] = true
		}
	}
}

// relevant reports whether event may change the output.
func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	switch {
	case w.decls[name]:
		return true
	case w.generated[name], strings.HasSuffix(name, "_test.go"):
		return false
	default:
		return filepath.Ext(name) == ".go"
	}
}
