package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/diag"
	"github.com/paavohuhtala/minipl-go/tools"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "run static analysis checks over a MiniPL program",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource()
		if err != nil {
			return err
		}

		fc := diag.NewFileContext(src.Name, src.Text)
		linter := tools.NewLinter(tools.DefaultLintOptions())
		issues := linter.Lint(src.Text, src.Name)

		if len(issues) == 0 {
			return nil
		}

		fmt.Print(tools.FormatIssues(fc, issues))

		for _, issue := range issues {
			if issue.Level == tools.LintError {
				os.Exit(1)
			}
		}
		return nil
	},
}
