package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/tools"
)

var xrefCmd = &cobra.Command{
	Use:   "xref",
	Short: "print a symbol cross-reference for a MiniPL program",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource()
		if err != nil {
			return err
		}

		report, err := tools.GenerateXRef(src.Text, src.Name)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return err
		}

		fmt.Print(report)
		return nil
	},
}
