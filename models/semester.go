package models

import "strings"

// Semester is one parsed catalog file of a department.
// TotalCredits comes from the totals row and may differ from the sum of Courses.
type Semester struct {
	Name         string         `json:"semester"`
	Order        int            `json:"order"`
	Courses      []CourseRecord `json:"courses"`
	TotalCredits int            `json:"total_credits"`
}

// CourseCredits sums the credits of the listed courses.
func (s *Semester) CourseCredits() int {
	total := 0
	for _, c := range s.Courses {
		total += c.Credits
	}
	return total
}

// Department owns its semesters in load order.
type Department struct {
	ID        string      `json:"department"`
	Semesters []*Semester `json:"semesters"`
}

func (d *Department) SemesterNames() []string {
	names := make([]string, 0, len(d.Semesters))
	for _, s := range d.Semesters {
		names = append(names, s.Name)
	}
	return names
}

// Semester resolves name exactly first, then case-insensitively.
func (d *Department) Semester(name string) (*Semester, bool) {
	name = strings.TrimSpace(name)
	for _, s := range d.Semesters {
		if s.Name == name {
			return s, true
		}
	}
	for _, s := range d.Semesters {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return nil, false
}

func (d *Department) TotalCredits(name string) (int, bool) {
	s, ok := d.Semester(name)
	if !ok {
		return 0, false
	}
	return s.TotalCredits, true
}

// SemesterResult is the GPA computed for one semester.
type SemesterResult struct {
	SemesterName string  `json:"semester"`
	GPA          float64 `json:"gpa"`
}

// TermGPA names a semester of a department and the GPA earned in it.
type TermGPA struct {
	Semester string  `json:"semester" validate:"required"`
	GPA      float64 `json:"gpa" validate:"gte=0"`
}

// WeightedTerm is a term GPA with its resolved weight.
type WeightedTerm struct {
	GPA    float64
	Weight int
}

type CGPARequest struct {
	Department string    `json:"department" validate:"required"`
	Semesters  []TermGPA `json:"semesters" validate:"dive"`
}

type CGPAResponse struct {
	CGPA     float64  `json:"cgpa"`
	Warnings []string `json:"warnings,omitempty"`
}

type SemesterCredits struct {
	Semester     string `json:"semester"`
	TotalCredits int    `json:"total_credits"`
}
