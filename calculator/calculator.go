// Package calculator computes credit-weighted GPA and CGPA.
package calculator

import (
	"fmt"

	"gpa-calculator/models"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"
)

// Engine weighs grades with a fixed grade table. It is safe for concurrent use.
type Engine struct {
	grades models.GradeTable
	logger log.Logger

	unknownGrades       atomic.Int64
	unresolvedSemesters atomic.Int64
}

func NewEngine(grades models.GradeTable, logger log.Logger) *Engine {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Engine{grades: grades, logger: logger}
}

func (e *Engine) Grades() models.GradeTable {
	return e.grades
}

// ComputeGPA returns the credit-weighted grade points of courses, or 0 when
// the courses carry no credits. Unknown grades count as 0 points.
func (e *Engine) ComputeGPA(courses []models.GradedCourse) float64 {
	var points, credits int
	for _, c := range courses {
		if !e.grades.Known(c.Grade) {
			e.unknownGrades.Inc()
			level.Warn(e.logger).Log("msg", "unknown grade counted as zero points", "grade", c.Grade, "credits", c.Credits)
		}
		points += e.grades.PointsFor(c.Grade) * c.Credits
		credits += c.Credits
	}
	if credits == 0 {
		return 0
	}
	return float64(points) / float64(credits)
}

// ComputeCGPA returns the weighted mean of term GPAs, or 0 when the total weight is 0.
func ComputeCGPA(terms []models.WeightedTerm) float64 {
	var sum float64
	var weight int
	for _, t := range terms {
		sum += t.GPA * float64(t.Weight)
		weight += t.Weight
	}
	if weight == 0 {
		return 0
	}
	return sum / float64(weight)
}

// DepartmentCGPA weighs each term by the total credits of the matching
// semester in dept. Terms naming an unknown semester weigh 0; one warning is
// returned for each of them.
func (e *Engine) DepartmentCGPA(dept *models.Department, terms []models.TermGPA) (float64, []string) {
	var warnings []string
	weighted := make([]models.WeightedTerm, 0, len(terms))
	for _, t := range terms {
		weight, ok := dept.TotalCredits(t.Semester)
		if !ok {
			e.unresolvedSemesters.Inc()
			level.Warn(e.logger).Log("msg", "semester not in catalog, weighted as zero", "department", dept.ID, "semester", t.Semester)
			warnings = append(warnings, fmt.Sprintf("semester %q not found in department %q", t.Semester, dept.ID))
		} else if weight == 0 {
			level.Warn(e.logger).Log("msg", "semester has no total credits, weighted as zero", "department", dept.ID, "semester", t.Semester)
			warnings = append(warnings, fmt.Sprintf("semester %q has no total credits", t.Semester))
		}
		weighted = append(weighted, models.WeightedTerm{GPA: t.GPA, Weight: weight})
	}
	return ComputeCGPA(weighted), warnings
}

func (e *Engine) Stats() models.Stats {
	return models.Stats{
		UnknownGrades:       e.unknownGrades.Load(),
		UnresolvedSemesters: e.unresolvedSemesters.Load(),
	}
}
