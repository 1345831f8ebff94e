// Package console runs the interactive GPA/CGPA calculator.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gpa-calculator/calculator"
	"gpa-calculator/models"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	resultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

const maxCourses = 100

// errQuit ends the session when input runs out.
var errQuit = errors.New("input closed")

// Session keeps every semester entered since start. It only grows.
type Session struct {
	engine    *calculator.Engine
	in        *bufio.Scanner
	out       io.Writer
	semesters [][]models.GradedCourse
}

func NewSession(engine *calculator.Engine, in io.Reader, out io.Writer) *Session {
	return &Session{engine: engine, in: bufio.NewScanner(in), out: out}
}

// Semesters returns the number of semesters entered so far.
func (s *Session) Semesters() int {
	return len(s.semesters)
}

// Run shows the menu until the user exits or input ends.
func (s *Session) Run() error {
	for {
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, titleStyle.Render("--- GPA & CGPA Calculator ---"))
		fmt.Fprintln(s.out, "1. Calculate GPA for a semester")
		fmt.Fprintln(s.out, "2. Calculate CGPA")
		fmt.Fprintln(s.out, "3. Exit")

		choice, err := s.prompt("Enter your choice (1-3): ")
		if err != nil {
			return s.finish(err)
		}
		switch choice {
		case "1":
			err = s.semesterGPA()
		case "2":
			err = s.cumulativeGPA()
		case "3":
			fmt.Fprintln(s.out, "Exiting the calculator. Goodbye!")
			return nil
		default:
			s.errorf("Invalid choice. Please enter a number between 1 and 3.")
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

func (s *Session) finish(err error) error {
	if errors.Is(err, errQuit) {
		fmt.Fprintln(s.out)
		return nil
	}
	return err
}

func (s *Session) semesterGPA() error {
	fmt.Fprintln(s.out, "\nEntering courses for a new semester...")
	courses, err := s.readSemester()
	if err != nil {
		return err
	}
	s.semesters = append(s.semesters, courses)
	gpa := s.engine.ComputeGPA(courses)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, resultStyle.Render(fmt.Sprintf("Your GPA for this semester is: %.2f", gpa)))
	return nil
}

func (s *Session) cumulativeGPA() error {
	if len(s.semesters) == 0 {
		fmt.Fprintln(s.out)
		s.errorf("No semester data found. Please calculate GPA for at least one semester first.")
		return nil
	}
	answer, err := s.prompt("\nDo you want to add a new semester for CGPA calculation? (yes/no)\n> ")
	if err != nil {
		return err
	}
	if strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "y") {
		courses, err := s.readSemester()
		if err != nil {
			return err
		}
		s.semesters = append(s.semesters, courses)
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, resultStyle.Render(fmt.Sprintf("Your CGPA is: %.2f", s.CGPA())))
	return nil
}

// CGPA weighs each session semester's GPA by the credits entered for it.
func (s *Session) CGPA() float64 {
	terms := make([]models.WeightedTerm, 0, len(s.semesters))
	for _, courses := range s.semesters {
		credits := 0
		for _, c := range courses {
			credits += c.Credits
		}
		terms = append(terms, models.WeightedTerm{GPA: s.engine.ComputeGPA(courses), Weight: credits})
	}
	return calculator.ComputeCGPA(terms)
}

func (s *Session) readSemester() ([]models.GradedCourse, error) {
	n, err := s.positiveInt("Enter the number of courses: ", "Please enter a positive number of courses.", maxCourses)
	if err != nil {
		return nil, err
	}
	grades := s.engine.Grades()
	symbols := strings.Join(grades.Symbols(), ", ")

	courses := make([]models.GradedCourse, 0, n)
	for i := 1; i <= n; i++ {
		var grade string
		for {
			grade, err = s.prompt(fmt.Sprintf("Enter grade for course %d (%s): ", i, symbols))
			if err != nil {
				return nil, err
			}
			grade = models.NormalizeGrade(grade)
			if grades.Known(grade) {
				break
			}
			s.errorf("Invalid grade: %s. Please choose from %s", grade, symbols)
		}
		credits, err := s.positiveInt(fmt.Sprintf("Enter credits for course %d: ", i), "Credits must be a positive number.", models.MaxCredits)
		if err != nil {
			return nil, err
		}
		courses = append(courses, models.GradedCourse{Grade: grade, Credits: credits})
	}
	return courses, nil
}

func (s *Session) positiveInt(question, notPositive string, limit int) (int, error) {
	for {
		answer, err := s.prompt(question)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		switch {
		case err != nil:
			s.errorf("Invalid input. Please enter a number.")
		case n <= 0:
			s.errorf("%s", notPositive)
		case n > limit:
			s.errorf("Please enter a number no greater than %d.", limit)
		default:
			return n, nil
		}
	}
}

func (s *Session) prompt(question string) (string, error) {
	fmt.Fprint(s.out, question)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", errors.Wrap(err, "read input")
		}
		return "", errQuit
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) errorf(format string, args ...interface{}) {
	fmt.Fprintln(s.out, errorStyle.Render(fmt.Sprintf(format, args...)))
}
