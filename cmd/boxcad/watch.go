package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <params.yaml>",
	Short: "Rebuild the model whenever the parameter file changes",
	Long: `Watch monitors a parameter file and reruns the build on every save.
Rapid saves within 500ms collapse into a single rebuild. Press Ctrl-C
to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

const watchDebounce = 500 * time.Millisecond

func runWatch(ctx context.Context, paramPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directory rather than the file itself: editors
	// that save via rename would otherwise drop the watch on first save.
	dir := filepath.Dir(paramPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(paramPath)
	if err != nil {
		return err
	}

	// Initial build so the output exists before the first edit.
	if err := runBuild(ctx, paramPath); err != nil {
		slog.Error("build failed", "error", err)
	}
	fmt.Printf("watching %s\n", paramPath)

	var pending time.Time
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nstopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			slog.Debug("parameter file changed", "op", event.Op.String())
			pending = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)

		case <-ticker.C:
			if pending.IsZero() || time.Since(pending) < watchDebounce {
				continue
			}
			pending = time.Time{}
			if err := runBuild(ctx, paramPath); err != nil {
				slog.Error("build failed", "error", err)
			}
		}
	}
}
