package models

// Override patches known-bad catalog data after parsing.
// An empty CourseCode targets the semester only.
type Override struct {
	Department   string `json:"department" toml:"department"`
	Semester     string `json:"semester" toml:"semester"`
	CourseCode   string `json:"course_code,omitempty" toml:"course_code"`
	Credits      *int   `json:"credits,omitempty" toml:"credits"`
	TotalCredits *int   `json:"total_credits,omitempty" toml:"total_credits"`
}
