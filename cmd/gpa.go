package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"gpa-calculator/models"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var gpaCmd = &cobra.Command{
	Use:     "gpa GRADE:CREDITS...",
	Short:   "Compute a semester GPA",
	Example: "  gpacalc gpa O:4 A+:3 B:2",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		courses, err := parseCourses(args)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "GPA: %.2f\n", a.engine.ComputeGPA(courses))
		return nil
	},
}

var cgpaCmd = &cobra.Command{
	Use:     "cgpa SEMESTER=GPA...",
	Short:   "Compute a CGPA weighted by the department's semester credits",
	Example: `  gpacalc cgpa -d "Artificial Intelligence and Data Science" Semester1=9.57 Semester2=8.2`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		department, _ := cmd.Flags().GetString("department")
		terms, err := parseTerms(args)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		dept, err := a.cache.Department(cmd.Context(), department)
		if err != nil {
			return err
		}
		cgpa, warnings := a.engine.DepartmentCGPA(dept, terms)
		for _, w := range warnings {
			fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "CGPA: %.2f\n", cgpa)
		return nil
	},
}

func init() {
	cgpaCmd.Flags().StringP("department", "d", "", "department whose semester credits weigh the terms")
	_ = cgpaCmd.MarkFlagRequired("department")
	rootCmd.AddCommand(gpaCmd, cgpaCmd)
}

func parseCourses(args []string) ([]models.GradedCourse, error) {
	courses := make([]models.GradedCourse, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, ":")
		if i <= 0 {
			return nil, errors.Errorf("%q: want GRADE:CREDITS", arg)
		}
		credits, err := strconv.Atoi(arg[i+1:])
		if err != nil || credits <= 0 {
			return nil, errors.Errorf("%q: credits must be a positive integer", arg)
		}
		if credits > models.MaxCredits {
			return nil, errors.Errorf("%q: credits must not be greater than %d", arg, models.MaxCredits)
		}
		courses = append(courses, models.GradedCourse{Grade: arg[:i], Credits: credits})
	}
	return courses, nil
}

func parseTerms(args []string) ([]models.TermGPA, error) {
	terms := make([]models.TermGPA, 0, len(args))
	for _, arg := range args {
		i := strings.LastIndex(arg, "=")
		if i <= 0 {
			return nil, errors.Errorf("%q: want SEMESTER=GPA", arg)
		}
		gpa, err := strconv.ParseFloat(arg[i+1:], 64)
		if err != nil || gpa < 0 {
			return nil, errors.Errorf("%q: GPA must be a non-negative number", arg)
		}
		terms = append(terms, models.TermGPA{Semester: arg[:i], GPA: gpa})
	}
	return terms, nil
}
