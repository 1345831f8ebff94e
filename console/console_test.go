package console

import (
	"bytes"
	"strings"
	"testing"

	"gpa-calculator/calculator"
	"gpa-calculator/models"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, input ...string) (*Session, string) {
	t.Helper()
	engine := calculator.NewEngine(models.NewGradeTable(map[string]int{"O": 10, "A": 9, "A+": 8, "B": 7, "U": 0}), log.NewNopLogger())
	var out bytes.Buffer
	s := NewSession(engine, strings.NewReader(strings.Join(input, "\n")+"\n"), &out)
	require.NoError(t, s.Run())
	return s, out.String()
}

func TestSession_SemesterGPA(t *testing.T) {
	s, out := run(t, "1", "2", "O", "4", "A", "3", "3")

	assert.Contains(t, out, "Your GPA for this semester is: 9.57")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, 1, s.Semesters())
}

func TestSession_RetriesInvalidInput(t *testing.T) {
	_, out := run(t,
		"7",
		"1",
		"zero", "0", "1",
		"Q", "a+",
		"x", "-2", "3",
		"3",
	)

	assert.Contains(t, out, "Invalid choice. Please enter a number between 1 and 3.")
	assert.Contains(t, out, "Invalid input. Please enter a number.")
	assert.Contains(t, out, "Please enter a positive number of courses.")
	assert.Contains(t, out, "Invalid grade: Q.")
	assert.Contains(t, out, "Credits must be a positive number.")
	assert.Contains(t, out, "Your GPA for this semester is: 8.00")
}

func TestSession_RejectsOversizedNumbers(t *testing.T) {
	_, out := run(t,
		"1",
		"101", "1",
		"O", "1001", "1000",
		"3",
	)

	assert.Contains(t, out, "Please enter a number no greater than 100.")
	assert.Contains(t, out, "Please enter a number no greater than 1000.")
	assert.Contains(t, out, "Your GPA for this semester is: 10.00")
}

func TestSession_CGPARequiresSemester(t *testing.T) {
	s, out := run(t, "2", "3")

	assert.Contains(t, out, "No semester data found.")
	assert.Equal(t, 0, s.Semesters())
}

func TestSession_CGPAWeighsByCredits(t *testing.T) {
	s, out := run(t,
		"1", "1", "O", "4",
		"2", "yes", "1", "B", "2",
		"3",
	)

	// (10*4 + 7*2) / 6
	assert.Contains(t, out, "Your CGPA is: 9.00")
	assert.Equal(t, 2, s.Semesters())
	assert.InDelta(t, 9.0, s.CGPA(), 1e-9)
}

func TestSession_CGPAWithoutAddingSemester(t *testing.T) {
	_, out := run(t, "1", "1", "A", "3", "2", "no", "3")

	assert.Contains(t, out, "Your CGPA is: 9.00")
}

func TestSession_EndOfInput(t *testing.T) {
	s, out := run(t, "1", "2", "O")

	assert.NotContains(t, out, "Your GPA")
	assert.Equal(t, 0, s.Semesters())
}
