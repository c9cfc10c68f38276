// Package main is the scribe inspection tool: it loads a document
// through the editing core and reports metrics, line endings, and the
// bidirectional run structure of each line. With -watch it follows
// external changes and reloads.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/scribe-edit/scribe/internal/config"
	"github.com/scribe-edit/scribe/internal/engine"
	"github.com/scribe-edit/scribe/internal/engine/bidi"
	"github.com/scribe-edit/scribe/internal/engine/bidi/paracache"
	"github.com/scribe-edit/scribe/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "path to configuration file")
		baseDir     = flag.String("base", "", "paragraph base direction: auto, ltr, or rtl")
		showRuns    = flag.Bool("runs", false, "print visual run structure per line")
		watchFile   = flag.Bool("watch", false, "watch the file and reload on change")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("scribe %s (%s)\n", version, commit)
		return 0
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: scribe [flags] <file>")
		flag.PrintDefaults()
		return 2
	}
	path := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if *baseDir != "" {
		cfg.Bidi.BaseDirection = *baseDir
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
	}
	logger := cfg.Logging.NewLogger()

	opts := []engine.Option{
		engine.WithFile(path),
		engine.WithLogger(logger),
		engine.WithHistoryLimits(cfg.History.MaxGroups, cfg.History.MaxBytes),
		engine.WithBaseDirection(parseDirection(cfg.Bidi.BaseDirection)),
		engine.WithDefaultLineEnding(parseLineEnding(cfg.Editor.DefaultLineEnding)),
		engine.WithParagraphCache(paracache.Config{MaxParagraphs: cfg.Bidi.ParagraphCacheSize}),
	}
	if cfg.Editor.ReadOnly {
		opts = append(opts, engine.WithReadOnly())
	}

	ed, err := engine.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	report(ed, path, *showRuns)

	if !*watchFile || !cfg.Watcher.Enabled {
		return 0
	}
	return watch(ed, path, cfg, *showRuns)
}

// report prints the document summary and, optionally, per-line runs.
func report(ed *engine.Editor, path string, showRuns bool) {
	m := ed.Metrics()
	snap := ed.Snapshot()
	fmt.Printf("%s: %d lines, %d chars, %d bytes, longest line %d, line ending %s\n",
		path, m.LineCount, m.CharCount, m.ByteCount, m.LongestLine, snap.LineEnding)

	if !showRuns {
		return
	}
	for i := 0; i < m.LineCount; i++ {
		runs, err := ed.VisualRuns(i)
		if err != nil {
			fmt.Fprintf(os.Stderr, "line %d: %v\n", i, err)
			continue
		}
		if len(runs) < 2 {
			continue
		}
		fmt.Printf("  line %d: %d runs:", i, len(runs))
		for _, r := range runs {
			fmt.Printf(" %s", r)
		}
		fmt.Println()
	}
}

// watch reloads and re-reports whenever the file changes on disk,
// until interrupted.
func watch(ed *engine.Editor, path string, cfg config.Config, showRuns bool) int {
	w, err := watcher.New(watcher.WithDebounce(cfg.Watcher.Debounce))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer w.Close()

	if err := w.Watch(path); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-signals:
			return 0
		case err, ok := <-w.Errors():
			if !ok {
				return 0
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		case ev, ok := <-w.Events():
			if !ok {
				return 0
			}
			if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
				fmt.Fprintf(os.Stderr, "%s: file went away (%s)\n", path, ev.Op)
				return 1
			}
			if err := ed.Reload(); err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
				continue
			}
			report(ed, path, showRuns)
		}
	}
}

func parseLineEnding(s string) engine.LineEnding {
	switch s {
	case "crlf":
		return engine.LineEndingCRLF
	case "cr":
		return engine.LineEndingCR
	default:
		return engine.LineEndingLF
	}
}

func parseDirection(s string) bidi.Direction {
	switch s {
	case "ltr":
		return bidi.DirectionLTR
	case "rtl":
		return bidi.DirectionRTL
	default:
		return bidi.DirectionNeutral
	}
}
