package controllers

import (
	"gpa-calculator/calculator"
	"gpa-calculator/catalog"
	"gpa-calculator/utils"

	"github.com/go-kit/log"
	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint of the service.
func NewRouter(cache *catalog.Cache, engine *calculator.Engine, logger log.Logger) *mux.Router {
	indexController := IndexController{Logger: logger}
	catalogController := CatalogController{Logger: logger}
	gpaController := GPAController{Logger: logger}

	router := mux.NewRouter()
	router.Use(utils.RequestLogger(logger))

	router.HandleFunc("/", indexController.GetIndex(cache, engine.Grades())).Methods("GET")

	router.HandleFunc("/departments", catalogController.GetDepartments(cache)).Methods("GET")
	router.HandleFunc("/departments/{department}/semesters", catalogController.GetSemesters(cache)).Methods("GET")
	router.HandleFunc("/departments/{department}/subjects", catalogController.GetSubjects(cache)).Methods("GET")
	router.HandleFunc("/departments/{department}/semesters/{semester}/credits", catalogController.GetSemesterCredits(cache)).Methods("GET")
	router.HandleFunc("/departments/{department}/reload", catalogController.ReloadDepartment(cache)).Methods("POST")

	router.HandleFunc("/calculate_gpa", gpaController.CalculateGPA(engine)).Methods("POST")
	router.HandleFunc("/calculate_cgpa", gpaController.CalculateCGPA(engine, cache)).Methods("POST")
	router.HandleFunc("/stats", gpaController.GetStats(engine)).Methods("GET")

	return router
}
