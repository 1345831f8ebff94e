package utils

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gpa-calculator/models"

	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()

	RespondWithError(w, http.StatusNotFound, models.Error{Message: "department not found"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"department not found"}`, w.Body.String())
}

func TestResponseJSON(t *testing.T) {
	w := httptest.NewRecorder()

	ResponseJSON(w, models.GPAResponse{GPA: 9.5})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"gpa":9.5}`, w.Body.String())
}

func TestDecodeJSON_IgnoresUnknownFields(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"courses":[{"grade":"O","credits":4,"name":"Maths"}],"extra":1}`))

	var req models.GPARequest
	require.NoError(t, DecodeJSON(r, &req))
	assert.Equal(t, []models.GradedCourse{{Grade: "O", Credits: 4}}, req.Courses)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"courses":`))

	var req models.GPARequest
	assert.Error(t, DecodeJSON(r, &req))
}

func TestNewLogger_FiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "logfmt", "warn")

	level.Info(logger).Log("msg", "hidden")
	level.Warn(logger).Log("msg", "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "level=warn")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", "debug")

	level.Debug(logger).Log("msg", "hello")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	router := mux.NewRouter()
	router.Use(RequestLogger(NewLogger(&buf, "logfmt", "info")))
	router.HandleFunc("/teapot", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teapot", nil))

	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "request_id="+w.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/teapot", nil)
	r.Header.Set(RequestIDHeader, "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}
