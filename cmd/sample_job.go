package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spigell/resume-matcher/internal/jobdesc"
)

var sampleJobCmd = &cobra.Command{
	Use:   "sample-job",
	Short: "Print the built-in sample job description",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), jobdesc.Sample)
	},
}

func init() {
	rootCmd.AddCommand(sampleJobCmd)
}
