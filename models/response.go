package models

type Error struct {
	Message string `json:"message"`
}

type Message struct {
	Message string `json:"message"`
}

// Stats reports how often lenient defaults were applied.
type Stats struct {
	UnknownGrades       int64 `json:"unknown_grades"`
	UnresolvedSemesters int64 `json:"unresolved_semesters"`
}
