package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"regressionlab/ml"
)

const watchDebounce = 150 * time.Millisecond

// Watch evaluates opts once, then again each time the input file is written or
// recreated, until ctx is cancelled. Unchanged content is not re-rendered. Every
// attempt, failed or not, is reported through onResult.
func (e *Evaluator) Watch(ctx context.Context, opts EvalOptions, onResult func(ml.FitSummary, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(opts.InputPath)
	dir := filepath.Dir(target)
	// fsnotify only watches directories that exist.
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		e.logger.Info("created input directory", zap.String("dir", dir))
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	var last uint64
	var rendered bool
	evaluate := func() {
		fingerprint, err := fingerprintFile(target)
		if err == nil && rendered && fingerprint == last {
			e.logger.Debug("input unchanged", zap.String("input", target))
			return
		}
		summary, err := e.Run(ctx, opts)
		if err == nil {
			last, rendered = fingerprint, true
		}
		onResult(summary, err)
	}

	evaluate()

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	defer debounce.Stop()

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
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.logger.Warn("watch error", zap.Error(err))
		case <-debounce.C:
			evaluate()
		}
	}
}
