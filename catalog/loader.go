// Package catalog loads department course catalogs from semester spreadsheets.
package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gpa-calculator/models"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
)

// ErrDepartmentNotFound is returned for an identifier with no data directory.
var ErrDepartmentNotFound = errors.New("department not found")

// Columns names the header cells the loader looks for.
type Columns struct {
	Name    string
	Credits string
	Code    string
}

var DefaultColumns = Columns{
	Name:    "Subject Name",
	Credits: "Credits",
	Code:    "Subject Code",
}

var DefaultReserved = []string{"templates", "static", "__pycache__", "venv", "node_modules"}

type Config struct {
	Root     string
	Columns  Columns
	Reserved []string
}

// Loader reads every semester file of a department directory under Root.
// A Loader holds no per-department state; each call reads the files again.
type Loader struct {
	root      string
	columns   Columns
	reserved  map[string]bool
	overrides *Overrides
	logger    log.Logger
}

func NewLoader(cfg Config, overrides *Overrides, logger log.Logger) *Loader {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if overrides == nil {
		overrides = &Overrides{}
	}
	cols := cfg.Columns
	if cols == (Columns{}) {
		cols = DefaultColumns
	}
	if cols.Name == "" {
		cols.Name = DefaultColumns.Name
	}
	if cols.Credits == "" {
		cols.Credits = DefaultColumns.Credits
	}
	reserved := cfg.Reserved
	if reserved == nil {
		reserved = DefaultReserved
	}
	l := &Loader{
		root:      cfg.Root,
		columns:   cols,
		reserved:  make(map[string]bool, len(reserved)),
		overrides: overrides,
		logger:    log.With(logger, "component", "catalog"),
	}
	for _, name := range reserved {
		l.reserved[strings.ToLower(name)] = true
	}
	return l
}

func (l *Loader) Root() string {
	return l.root
}

func (l *Loader) validDepartmentName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return !l.reserved[strings.ToLower(name)]
}

// ListDepartments returns the department directory names in lexical order.
func (l *Loader) ListDepartments(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, errors.Wrapf(err, "read data directory %q", l.root)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && l.validDepartmentName(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadDepartment parses the semester files of department id. Files that cannot
// be parsed are logged and left out of the result.
func (l *Loader) LoadDepartment(ctx context.Context, id string) (*models.Department, error) {
	if !l.validDepartmentName(id) {
		return nil, errors.Wrapf(ErrDepartmentNotFound, "%q", id)
	}
	dir := filepath.Join(l.root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrapf(ErrDepartmentNotFound, "%q", id)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read department %q", id)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && isSemesterFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		oi, oj := semesterOrder(files[i]), semesterOrder(files[j])
		if oi != oj {
			return oi < oj
		}
		return files[i] < files[j]
	})

	logger := log.With(l.logger, "department", id)
	dept := &models.Department{ID: id, Semesters: []*models.Semester{}}
	seen := make(map[string]string)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fileLogger := log.With(logger, "file", file)
		sem, err := l.loadFile(filepath.Join(dir, file), fileLogger)
		if err != nil {
			level.Warn(fileLogger).Log("msg", "skipping semester file", "err", err)
			continue
		}
		if prev, dup := seen[strings.ToLower(sem.Name)]; dup {
			level.Warn(fileLogger).Log("msg", "duplicate semester name, keeping first file", "semester", sem.Name, "kept", prev)
			continue
		}
		seen[strings.ToLower(sem.Name)] = file
		l.overrides.apply(id, sem, fileLogger)
		dept.Semesters = append(dept.Semesters, sem)
	}
	level.Info(logger).Log("msg", "department loaded", "semesters", len(dept.Semesters), "files", len(files))
	return dept, nil
}

func (l *Loader) loadFile(path string, logger log.Logger) (sem *models.Semester, err error) {
	defer func() {
		if r := recover(); r != nil {
			sem, err = nil, fmt.Errorf("panic while parsing: %v", r)
		}
	}()
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	return l.parseSemester(semesterName(path), semesterOrder(path), rows, logger)
}

func (l *Loader) columnIndex(header []string) (name, credits, code int) {
	name, credits, code = -1, -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case name < 0 && strings.EqualFold(h, l.columns.Name):
			name = i
		case credits < 0 && strings.EqualFold(h, l.columns.Credits):
			credits = i
		case code < 0 && l.columns.Code != "" && strings.EqualFold(h, l.columns.Code):
			code = i
		}
	}
	return name, credits, code
}

// parseSemester converts sheet rows into a semester. The first non-blank row
// is the header; the first totals row supplies TotalCredits and every totals
// row is left out of the courses.
func (l *Loader) parseSemester(name string, order int, rows [][]string, logger log.Logger) (*models.Semester, error) {
	start := 0
	for start < len(rows) && blankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, errors.New("sheet is empty")
	}
	nameCol, creditsCol, codeCol := l.columnIndex(rows[start])
	if nameCol < 0 || creditsCol < 0 {
		return nil, errors.Errorf("missing required columns %q and %q", l.columns.Name, l.columns.Credits)
	}

	sem := &models.Semester{Name: name, Order: order, Courses: []models.CourseRecord{}}
	foundTotal := false
	for i, row := range rows[start+1:] {
		line := start + i + 2
		if blankRow(row) {
			continue
		}
		if isTotalsRow(row, nameCol, codeCol) {
			if foundTotal {
				level.Debug(logger).Log("msg", "skipping extra totals row", "row", line)
				continue
			}
			foundTotal = true
			total, err := parseCredits(cell(row, creditsCol))
			if err != nil {
				level.Warn(logger).Log("msg", "totals row has no usable credits", "row", line, "err", err)
			}
			sem.TotalCredits = total
			continue
		}

		course := cell(row, nameCol)
		if course == "" {
			level.Debug(logger).Log("msg", "skipping row without course name", "row", line)
			continue
		}
		credits, err := parseCredits(cell(row, creditsCol))
		switch {
		case errors.Is(err, errBlankCredits):
			level.Debug(logger).Log("msg", "skipping course without credits", "row", line, "course", course)
			continue
		case err != nil:
			level.Warn(logger).Log("msg", "skipping malformed row", "row", line, "course", course, "err", err)
			continue
		case credits == 0:
			level.Debug(logger).Log("msg", "skipping non-credit course", "row", line, "course", course)
			continue
		}
		sem.Courses = append(sem.Courses, models.CourseRecord{
			Name:    course,
			Code:    cell(row, codeCol),
			Credits: credits,
		})
	}
	if !foundTotal {
		level.Warn(logger).Log("msg", "no totals row, semester total credits unknown", "semester", name)
	}
	return sem, nil
}
