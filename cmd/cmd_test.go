package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gpa-calculator/catalog"
	"gpa-calculator/models"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
		viper.Reset()
	})
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags puts every flag of cmd and its subcommands back to its default,
// so one test's flags do not leak into the next execution.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func dataDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dept := filepath.Join(root, "cse")
	require.NoError(t, os.MkdirAll(dept, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dept, "semester1.csv"),
		[]byte("Subject Name,Credits\nCalculus,4\nPhysics,3\nTotal,18\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dept, "semester2.csv"),
		[]byte("Subject Name,Credits\nStatistics,4\nTotal,22\n"), 0o644))
	return root
}

func TestParseCourses(t *testing.T) {
	courses, err := parseCourses([]string{"O:4", "A+:3"})
	require.NoError(t, err)
	assert.Equal(t, []models.GradedCourse{{Grade: "O", Credits: 4}, {Grade: "A+", Credits: 3}}, courses)

	courses, err = parseCourses([]string{"O:1000"})
	require.NoError(t, err)
	assert.Equal(t, models.MaxCredits, courses[0].Credits)

	for _, bad := range []string{"O", ":4", "O:0", "O:-1", "O:x", "O:1001", "O:9223372036854775807"} {
		_, err := parseCourses([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestParseTerms(t *testing.T) {
	terms, err := parseTerms([]string{"Semester1=9.57", "Sem=2=8"})
	require.NoError(t, err)
	assert.Equal(t, []models.TermGPA{{Semester: "Semester1", GPA: 9.57}, {Semester: "Sem=2", GPA: 8}}, terms)

	for _, bad := range []string{"Semester1", "=9", "Semester1=-1", "Semester1=abc"} {
		_, err := parseTerms([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestGPACommand(t *testing.T) {
	out, _, err := execute(t, "gpa", "O:4", "A+:3")
	require.NoError(t, err)

	// default table: O=10, A+=9
	assert.Equal(t, "GPA: 9.57\n", out)
}

func TestCGPACommand(t *testing.T) {
	root := dataDir(t)

	out, errOut, err := execute(t, "cgpa", "--data-dir", root, "-d", "cse", "Semester1=9.57", "Semester2=8.2", "Semester9=1")
	require.NoError(t, err)

	assert.Equal(t, "CGPA: 8.82\n", out)
	assert.Contains(t, errOut, `semester "Semester9" not found`)
}

func TestCGPACommand_UnknownDepartment(t *testing.T) {
	root := dataDir(t)

	_, _, err := execute(t, "cgpa", "--data-dir", root, "-d", "mech", "Semester1=9")
	assert.ErrorIs(t, err, catalog.ErrDepartmentNotFound)
}

func TestDepartmentsAndSemestersCommands(t *testing.T) {
	root := dataDir(t)

	out, _, err := execute(t, "departments", "--data-dir", root)
	require.NoError(t, err)
	assert.Equal(t, "cse\n", out)

	out, _, err = execute(t, "semesters", "--data-dir", root, "cse")
	require.NoError(t, err)
	assert.Contains(t, out, "SEMESTER")
	assert.Regexp(t, `Semester1\s+2\s+18`, out)
	assert.Regexp(t, `Semester2\s+1\s+22`, out)
}

func TestExecute_DoesNotLeakFlagsOrConfig(t *testing.T) {
	root := dataDir(t)

	t.Run("flags set", func(t *testing.T) {
		_, _, err := execute(t, "departments", "--data-dir", root, "--log-level", "debug")
		require.NoError(t, err)
		assert.Equal(t, root, viper.GetString("data_dir"))
	})

	t.Run("next execution starts clean", func(t *testing.T) {
		t.Setenv("GPACALC_DATA_DIR", t.TempDir())

		out, _, err := execute(t, "departments")
		require.NoError(t, err)
		assert.Empty(t, out)

		assert.False(t, rootCmd.PersistentFlags().Lookup("data-dir").Changed)
		assert.Equal(t, "info", viper.GetString("log.level"))
	})

	t.Run("cgpa with department", func(t *testing.T) {
		_, _, err := execute(t, "cgpa", "--data-dir", root, "-d", "cse", "Semester1=9")
		require.NoError(t, err)
	})

	t.Run("cgpa department flag resets", func(t *testing.T) {
		_, _, err := execute(t, "cgpa", "--data-dir", root, "Semester1=9")
		assert.ErrorIs(t, err, catalog.ErrDepartmentNotFound)
	})
}

func TestCalcCommand(t *testing.T) {
	rootCmd.SetIn(bytes.NewBufferString("1\n1\nO\n3\n3\n"))
	t.Cleanup(func() { rootCmd.SetIn(nil) })

	out, _, err := execute(t, "calc")
	require.NoError(t, err)
	assert.Contains(t, out, "Your GPA for this semester is: 10.00")
}
