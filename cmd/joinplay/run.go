package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/phanxgames/join/ease"
	"github.com/phanxgames/join/internal/scenario"
)

func runScript(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	path := args[0]
	out := cmd.OutOrStdout()
	if err := runFile(ctx, path, out); err != nil {
		if !watchFlag {
			return err
		}
		log.Print(err)
	}
	if !watchFlag {
		return nil
	}
	return watchFile(ctx, path, func() {
		_, _ = fmt.Fprintln(out)
		if err := runFile(ctx, path, out); err != nil {
			log.Print(err)
		}
	})
}

// runFile loads and executes one script.
func runFile(ctx context.Context, path string, out io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	script, err := scenario.LoadScript(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	r, err := scenario.NewRunner(script, scenario.Options{
		Out:   out,
		Debug: debugFlag,
		Style: styleLine,
	})
	if err != nil {
		return err
	}
	if err := r.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// watchFile calls rerun whenever path is written or replaced, until ctx is
// done. The parent directory is watched because editors often save by
// renaming a temp file over the original.
func watchFile(ctx context.Context, path string, rerun func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	log.Printf("watching %s", path)

	// Coalesce the burst of events a single save produces.
	const settle = 100 * time.Millisecond
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(settle, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			rerun()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

var easeSamples = []float32{0, 0.25, 0.5, 0.75, 1}

func listEases(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	for _, name := range ease.Names() {
		fn, ok := ease.ByName(name)
		if !ok {
			continue
		}
		_, _ = fmt.Fprint(out, curveName(fmt.Sprintf("%-12s", name)))
		for _, t := range easeSamples {
			_, _ = fmt.Fprintf(out, " %7.3f", fn(t))
		}
		_, _ = fmt.Fprintln(out)
	}
}
