package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "parse and type-check a program without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := loadSource()
		if err != nil {
			return err
		}

		_, _, report := parseAndCheck(src)
		if report != "" {
			fmt.Fprint(os.Stderr, report)
			return fmt.Errorf("%s: failed to check program", src.Name)
		}
		return nil
	},
}
