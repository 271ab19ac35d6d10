package main

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/interp"
)

var watch bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "parse, check, and execute a MiniPL program",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&watch, "watch", false, "re-run whenever --file changes on disk")
}

func runRun(cmd *cobra.Command, args []string) error {
	if watch {
		return runWatch()
	}
	return runOnce()
}

func runOnce() error {
	src, err := loadSource()
	if err != nil {
		return err
	}

	program, fc, report := parseAndCheck(src)
	if report != "" {
		fmt.Fprint(os.Stderr, report)
		return fmt.Errorf("%s: failed to check program", src.Name)
	}

	in := interp.NewInterpreter(program, interp.NewConsoleIo(), fc, interp.WithLogger(logger))
	if err := in.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return err
	}
	return nil
}

// runWatch re-runs the program whenever its source file changes,
// following the same lex-parse-check-interpret pipeline as a one-shot
// run rather than re-planning anything incremental.
func runWatch() error {
	if filePath == "" {
		return fmt.Errorf("--watch requires --file")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filePath); err != nil {
		return err
	}

	fmt.Printf("watching %s for changes (ctrl-c to stop)\n", filePath)
	if err := runOnce(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			fmt.Printf("\n--- %s changed, re-running ---\n", filePath)
			if err := runOnce(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
