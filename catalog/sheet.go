package catalog

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

var digitRun = regexp.MustCompile(`\d+`)

// semesterOrder extracts the first run of digits of a file name; none yields 0.
func semesterOrder(filename string) int {
	m := digitRun.FindString(filepath.Base(filename))
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// semesterName turns "SEMESTER1.xlsx" into "Semester1".
func semesterName(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if stem == "" {
		return stem
	}
	lower := strings.ToLower(stem)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

func isSemesterFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".csv":
		return true
	}
	return false
}

// readRows returns the cells of the first sheet of path.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return readXLSX(path)
	case ".csv":
		return readCSV(path)
	}
	return nil, errors.Errorf("unsupported spreadsheet format %q", filepath.Ext(path))
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheets[0])
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read csv")
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var (
	totalWord = regexp.MustCompile(`(?i)\btotal\b`)
	// totalsName matches a name cell that is only a totals label, such as
	// "Total", "Grand Total:" or "Total Credits Earned".
	totalsName = regexp.MustCompile(`(?i)^(grand\s+|sub\s*)?total(\s+credits?(\s+\w+)?)?\s*:?$`)
)

// isTotalsRow reports whether row carries the semester totals. Any cell other
// than the course name counts when it contains the word "total". The course
// name counts when it is a bare totals label, or when it contains the word and
// the row has no course code.
func isTotalsRow(row []string, nameCol, codeCol int) bool {
	for i, c := range row {
		if i != nameCol && totalWord.MatchString(c) {
			return true
		}
	}
	name := cell(row, nameCol)
	if totalsName.MatchString(name) {
		return true
	}
	return codeCol >= 0 && cell(row, codeCol) == "" && totalWord.MatchString(name)
}

var errBlankCredits = errors.New("blank credits")

// parseCredits coerces a credits cell to an integer. Integral floats such as
// "3.0" are accepted and fractions truncate. The returned value is 0 whenever
// err is non-nil.
func parseCredits(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errBlankCredits
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Errorf("credits %q is not a number", s)
	}
	if v != v || v < 0 || v > 1e6 {
		return 0, errors.Errorf("credits %q out of range", s)
	}
	return int(v), nil
}
