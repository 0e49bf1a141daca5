package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/waytrace/waytrace/internal"
)

// matchersCmd represents the matchers command
var matchersCmd = &cobra.Command{
	Use:   "matchers",
	Short: "Show how to write matcher expressions",
	Long:  `Print the grammar and examples for the filter, break and query expressions.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), internal.MatcherHelp)
	},
}

func init() {
	rootCmd.AddCommand(matchersCmd)
}
