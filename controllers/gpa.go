package controllers

import (
	"net/http"
	"reflect"
	"strings"

	"gpa-calculator/calculator"
	"gpa-calculator/catalog"
	"gpa-calculator/models"
	"gpa-calculator/utils"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type GPAController struct {
	Logger log.Logger
}

func (gc GPAController) CalculateGPA(engine *calculator.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.GPARequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: validationMessage(err)})
			return
		}
		utils.ResponseJSON(w, models.GPAResponse{GPA: engine.ComputeGPA(req.Courses)})
	}
}

// CalculateCGPA weighs each semester GPA by the semester's total credits in
// the requested department.
func (gc GPAController) CalculateCGPA(engine *calculator.Engine, cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.CGPARequest
		if err := utils.DecodeJSON(r, &req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: validationMessage(err)})
			return
		}

		dept, err := cache.Department(r.Context(), req.Department)
		if errors.Is(err, catalog.ErrDepartmentNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "department not found"})
			return
		}
		if err != nil {
			level.Error(gc.Logger).Log("msg", "load department", "department", req.Department, "err", err)
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "failed to load department"})
			return
		}

		cgpa, warnings := engine.DepartmentCGPA(dept, req.Semesters)
		utils.ResponseJSON(w, models.CGPAResponse{CGPA: cgpa, Warnings: warnings})
	}
}

func (gc GPAController) GetStats(engine *calculator.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, engine.Stats())
	}
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must not be less than " + fe.Param()
	case "lte":
		return fe.Field() + " must not be greater than " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
