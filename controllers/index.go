package controllers

import (
	"embed"
	"html/template"
	"net/http"

	"gpa-calculator/catalog"
	"gpa-calculator/models"
	"gpa-calculator/utils"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type gradeRow struct {
	Symbol string
	Points int
}

type IndexController struct {
	Logger log.Logger
}

func (ic IndexController) GetIndex(cache *catalog.Cache, grades models.GradeTable) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := cache.ListDepartments(r.Context())
		if err != nil {
			level.Error(ic.Logger).Log("msg", "list departments", "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "failed to list departments"})
			return
		}
		rows := make([]gradeRow, 0, len(grades))
		for _, symbol := range grades.Symbols() {
			rows = append(rows, gradeRow{Symbol: symbol, Points: grades[symbol]})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(w, map[string]interface{}{
			"Departments": names,
			"Grades":      rows,
		}); err != nil {
			level.Error(ic.Logger).Log("msg", "render index", "err", err)
		}
	}
}
