package catalog

import (
	"context"
	"database/sql"
	"os"
	"strings"

	"gpa-calculator/models"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Overrides is the correction table for verified-wrong catalog data.
// The zero value applies nothing.
type Overrides struct {
	entries []models.Override
}

// NewOverrides validates entries. Each entry needs a department, a semester
// and at least one patch; a credits patch needs a course code.
func NewOverrides(entries []models.Override) (*Overrides, error) {
	for i, o := range entries {
		switch {
		case strings.TrimSpace(o.Department) == "" || strings.TrimSpace(o.Semester) == "":
			return nil, errors.Errorf("override %d: department and semester are required", i+1)
		case o.Credits == nil && o.TotalCredits == nil:
			return nil, errors.Errorf("override %d: nothing to patch", i+1)
		case o.Credits != nil && strings.TrimSpace(o.CourseCode) == "":
			return nil, errors.Errorf("override %d: credits patch needs a course code", i+1)
		case o.Credits != nil && *o.Credits < 0, o.TotalCredits != nil && *o.TotalCredits < 0:
			return nil, errors.Errorf("override %d: negative credits", i+1)
		}
	}
	return &Overrides{entries: entries}, nil
}

func (o *Overrides) Len() int {
	return len(o.entries)
}

type overrideFile struct {
	Override []models.Override `toml:"override"`
}

// LoadOverridesFile reads a TOML file of [[override]] tables.
func LoadOverridesFile(path string) (*Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read overrides file")
	}
	var file overrideFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "parse overrides file %q", path)
	}
	return NewOverrides(file.Override)
}

// LoadOverridesDB reads the catalog_overrides table.
func LoadOverridesDB(ctx context.Context, db *sql.DB) (*Overrides, error) {
	rows, err := db.QueryContext(ctx, `SELECT department, semester, course_code, credits, total_credits FROM catalog_overrides`)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog_overrides")
	}
	defer rows.Close()

	var entries []models.Override
	for rows.Next() {
		var (
			o            models.Override
			code         sql.NullString
			credits      sql.NullInt64
			totalCredits sql.NullInt64
		)
		if err := rows.Scan(&o.Department, &o.Semester, &code, &credits, &totalCredits); err != nil {
			return nil, errors.Wrap(err, "scan catalog_overrides")
		}
		o.CourseCode = code.String
		if credits.Valid {
			v := int(credits.Int64)
			o.Credits = &v
		}
		if totalCredits.Valid {
			v := int(totalCredits.Int64)
			o.TotalCredits = &v
		}
		entries = append(entries, o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read catalog_overrides")
	}
	return NewOverrides(entries)
}

// apply patches sem in place with every entry for department/sem.Name.
func (o *Overrides) apply(department string, sem *models.Semester, logger log.Logger) {
	for _, entry := range o.entries {
		if !strings.EqualFold(entry.Department, department) || !strings.EqualFold(entry.Semester, sem.Name) {
			continue
		}
		if entry.Credits != nil {
			i := findCourse(sem.Courses, entry.CourseCode)
			if i < 0 {
				level.Warn(logger).Log("msg", "override course not in catalog", "semester", sem.Name, "course_code", entry.CourseCode)
			} else {
				level.Info(logger).Log("msg", "override applied", "semester", sem.Name, "course_code", entry.CourseCode,
					"credits_from", sem.Courses[i].Credits, "credits_to", *entry.Credits)
				if *entry.Credits == 0 {
					sem.Courses = append(sem.Courses[:i:i], sem.Courses[i+1:]...)
				} else {
					sem.Courses[i].Credits = *entry.Credits
				}
			}
		}
		if entry.TotalCredits != nil {
			level.Info(logger).Log("msg", "override applied", "semester", sem.Name,
				"total_credits_from", sem.TotalCredits, "total_credits_to", *entry.TotalCredits)
			sem.TotalCredits = *entry.TotalCredits
		}
	}
}

// findCourse matches on the subject code, falling back to the course name.
func findCourse(courses []models.CourseRecord, key string) int {
	key = strings.TrimSpace(key)
	for i, c := range courses {
		if c.Code != "" && strings.EqualFold(c.Code, key) {
			return i
		}
	}
	for i, c := range courses {
		if strings.EqualFold(c.Name, key) {
			return i
		}
	}
	return -1
}
