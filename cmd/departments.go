package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List known departments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		names, err := a.cache.ListDepartments(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

var semestersCmd = &cobra.Command{
	Use:   "semesters DEPARTMENT",
	Short: "List a department's semesters in load order with their total credits",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		dept, err := a.cache.Department(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEMESTER\tCOURSES\tTOTAL CREDITS")
		for _, s := range dept.Semesters {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", s.Name, len(s.Courses), s.TotalCredits)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(departmentsCmd, semestersCmd)
}
