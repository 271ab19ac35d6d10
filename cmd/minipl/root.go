package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/config"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

var (
	filePath string
	verbose  bool
	debugLog bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minipl",
	Short: "minipl runs, checks, and inspects MiniPL programs",
	Long: `minipl is the reference toolchain for MiniPL, a small statically
typed imperative teaching language: a tree-walking interpreter plus the
developer tooling (formatter, linter, cross-referencer, debugger, and
an HTTP execution service) built around the same front end.`,
	RunE: runRun,
}

// Execute runs the command tree. An unknown flag is reported as a
// warning, not a fatal error: rootCmd's FlagErrorFunc is consulted by
// every subcommand that doesn't set its own.
func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func warnOnFlagError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "path to a MiniPL source file (default: bundled example)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug-level logging")
	rootCmd.SetFlagErrorFunc(warnOnFlagError)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(xrefCmd)
	rootCmd.AddCommand(debugCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	loaded, err := config.Load()
	if err != nil {
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	level := slog.LevelWarn
	switch {
	case debugLog, verbose:
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("minipl %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("built: %s\n", Date)
		}
	},
}

func main() {
	Execute()
}
