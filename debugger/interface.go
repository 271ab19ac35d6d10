package debugger

import (
	"fmt"
	"strings"
)

// RunCLI runs the command-line debugger interface. Command handlers
// already block until the interpreter pauses or finishes, so the loop
// here only needs to read a command, run it, and print whatever it
// produced.
func RunCLI(dbg *Debugger) error {
	for {
		fmt.Print("(minipl-dbg) ")

		if !dbg.stdin.Scan() {
			break
		}

		cmdLine := strings.TrimSpace(dbg.stdin.Text())

		if cmdLine == "quit" || cmdLine == "q" || cmdLine == "exit" {
			fmt.Println("Exiting debugger...")
			break
		}

		if err := dbg.ExecuteCommand(cmdLine); err != nil {
			fmt.Printf("Error: %v\n", err)
		}

		if output := dbg.GetOutput(); output != "" {
			fmt.Print(output)
		}
	}

	if err := dbg.stdin.Err(); err != nil {
		return fmt.Errorf("input error: %w", err)
	}

	return nil
}

// RunTUI runs the text user interface debugger.
func RunTUI(dbg *Debugger) error {
	tui := NewTUI(dbg)
	return tui.Run()
}
