package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchFlag bool

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "parse .bib files and report errors",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "re-check whenever an input file changes")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger()

	check := func() error {
		db, err := parseFiles(args, cfg, log)
		if err != nil {
			return err
		}
		log.Debug("database ok", "entries", db.Len())
		fmt.Printf("%d entries ok\n", db.Len())
		return nil
	}

	if !watchFlag {
		return check()
	}
	if err := check(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return watchFiles(cmd.Context(), args, log, check)
}

// watchDebounce coalesces the event bursts editors produce on save.
const watchDebounce = 100 * time.Millisecond

// watchFiles re-runs onChange whenever one of paths is written. It
// watches the containing directories so files replaced by rename (the
// common editor save strategy) stay watched.
func watchFiles(ctx context.Context, paths []string, log *slog.Logger, onChange func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()

	watched := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		if err := w.Add(filepath.Dir(abs)); err != nil {
			return err
		}
	}

	debounce := time.NewTimer(watchDebounce)
	debounce.Stop()
	log.Debug("watching", "files", len(watched))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce.Reset(watchDebounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		case <-debounce.C:
			if err := onChange(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}
}
