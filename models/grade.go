package models

import (
	"sort"
	"strings"
)

// GradeTable maps a grade symbol to its point value.
// Symbols are stored upper-cased; lookups normalize the same way.
type GradeTable map[string]int

// DefaultGradePoints is used when no table is configured.
var DefaultGradePoints = map[string]int{
	"O":  10,
	"A+": 9,
	"A":  8,
	"B+": 7,
	"B":  6,
	"C":  5,
	"U":  0,
	"W":  0,
	"UA": 0,
	"SA": 0,
}

// NewGradeTable copies points into a normalized table.
// Negative values are clamped to 0.
func NewGradeTable(points map[string]int) GradeTable {
	table := make(GradeTable, len(points))
	for symbol, value := range points {
		key := NormalizeGrade(symbol)
		if key == "" {
			continue
		}
		if value < 0 {
			value = 0
		}
		table[key] = value
	}
	return table
}

func NormalizeGrade(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// PointsFor returns the points of symbol, or 0 for a symbol the table does not know.
func (t GradeTable) PointsFor(symbol string) int {
	return t[NormalizeGrade(symbol)]
}

func (t GradeTable) Known(symbol string) bool {
	_, ok := t[NormalizeGrade(symbol)]
	return ok
}

// Symbols lists the table's symbols, highest points first.
func (t GradeTable) Symbols() []string {
	symbols := make([]string, 0, len(t))
	for symbol := range t {
		symbols = append(symbols, symbol)
	}
	sort.Slice(symbols, func(i, j int) bool {
		if t[symbols[i]] != t[symbols[j]] {
			return t[symbols[i]] > t[symbols[j]]
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}
