package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/paavohuhtala/minipl-go/tools"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "pretty-print a MiniPL program",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource()
		if err != nil {
			return err
		}

		formatted, err := tools.FormatString(src.Text, src.Name)
		if err != nil {
			return err
		}

		if fmtWrite {
			if filePath == "" {
				return fmt.Errorf("--write requires --file")
			}
			return os.WriteFile(filePath, []byte(formatted), 0o644)
		}

		fmt.Print(formatted)
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtWrite, "write", false, "write the formatted source back to --file")
}
