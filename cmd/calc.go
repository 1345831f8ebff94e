package cmd

import (
	"gpa-calculator/console"

	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Interactive GPA and CGPA calculator",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		return console.NewSession(a.engine, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
}
