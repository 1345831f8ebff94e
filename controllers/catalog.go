package controllers

import (
	"net/http"

	"gpa-calculator/catalog"
	"gpa-calculator/models"
	"gpa-calculator/utils"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// CatalogController serves the department catalogs.
type CatalogController struct {
	Logger log.Logger
}

// department loads the {department} route variable, writing the error
// response itself when it fails.
func (cc CatalogController) department(w http.ResponseWriter, r *http.Request, cache *catalog.Cache) (*models.Department, bool) {
	id := mux.Vars(r)["department"]
	dept, err := cache.Department(r.Context(), id)
	if errors.Is(err, catalog.ErrDepartmentNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "department not found"})
		return nil, false
	}
	if err != nil {
		level.Error(cc.Logger).Log("msg", "load department", "department", id, "err", err)
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "failed to load department"})
		return nil, false
	}
	return dept, true
}

func (cc CatalogController) GetDepartments(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := cache.ListDepartments(r.Context())
		if err != nil {
			level.Error(cc.Logger).Log("msg", "list departments", "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "failed to list departments"})
			return
		}
		if names == nil {
			names = []string{}
		}
		utils.ResponseJSON(w, names)
	}
}

func (cc CatalogController) GetSemesters(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept, ok := cc.department(w, r, cache)
		if !ok {
			return
		}
		utils.ResponseJSON(w, dept.SemesterNames())
	}
}

// GetSubjects returns every semester of the department with its courses.
func (cc CatalogController) GetSubjects(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept, ok := cc.department(w, r, cache)
		if !ok {
			return
		}
		utils.ResponseJSON(w, dept)
	}
}

func (cc CatalogController) GetSemesterCredits(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dept, ok := cc.department(w, r, cache)
		if !ok {
			return
		}
		name := mux.Vars(r)["semester"]
		sem, found := dept.Semester(name)
		if !found {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "semester not found"})
			return
		}
		utils.ResponseJSON(w, models.SemesterCredits{Semester: sem.Name, TotalCredits: sem.TotalCredits})
	}
}

// ReloadDepartment drops the cached catalog so the next request reads the files again.
func (cc CatalogController) ReloadDepartment(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["department"]
		cache.Invalidate(id)
		if _, ok := cc.department(w, r, cache); !ok {
			return
		}
		utils.ResponseJSON(w, models.Message{Message: "department reloaded"})
	}
}
