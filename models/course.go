package models

// CourseRecord is one course row of a semester catalog.
type CourseRecord struct {
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Credits int    `json:"credits"`
}

// MaxCredits bounds the credits of one graded course so that weighted sums
// stay far from integer overflow.
const MaxCredits = 1000

// GradedCourse is a single GPA input: the grade earned and the course credits.
type GradedCourse struct {
	Grade   string `json:"grade" validate:"required"`
	Credits int    `json:"credits" validate:"gt=0,lte=1000"`
}

type GPARequest struct {
	Courses []GradedCourse `json:"courses" validate:"dive"`
}

type GPAResponse struct {
	GPA float64 `json:"gpa"`
}
