package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/debugger"
)

var debugTUI bool

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "step through a MiniPL program interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource()
		if err != nil {
			return err
		}

		program, fc, report := parseAndCheck(src)
		if report != "" {
			fmt.Fprint(os.Stderr, report)
			return fmt.Errorf("%s: failed to check program", src.Name)
		}

		dbg := debugger.NewDebugger(cfg, program, fc)
		if debugTUI {
			return debugger.RunTUI(dbg)
		}
		return debugger.RunCLI(dbg)
	},
}

func init() {
	debugCmd.Flags().BoolVar(&debugTUI, "tui", false, "use the full-screen TUI debugger")
}
